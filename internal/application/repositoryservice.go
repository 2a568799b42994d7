package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/gitshelf/internal/domain/model"
	"github.com/ericfisherdev/gitshelf/internal/domain/port/driven"
)

// RepositoryPage is everything the repository detail screen renders.
// Repository is nil when the metadata fetch failed.
type RepositoryPage struct {
	Identifier string
	Repository *model.RepositoryDetail
	Issues     []model.Issue
	Query      model.IssueQuery
}

// Loaded reports whether the repository header can be rendered.
func (p RepositoryPage) Loaded() bool {
	return p.Repository != nil
}

// RepositoryService loads repository metadata and issue pages for the detail screen.
type RepositoryService struct {
	ghClient driven.GitHubClient
	logger   *slog.Logger
}

// NewRepositoryService creates a RepositoryService.
func NewRepositoryService(ghClient driven.GitHubClient, logger *slog.Logger) *RepositoryService {
	return &RepositoryService{ghClient: ghClient, logger: logger}
}

// Repository fetches metadata for identifier.
func (s *RepositoryService) Repository(ctx context.Context, identifier string) (*model.RepositoryDetail, error) {
	repo, err := s.ghClient.FetchRepository(ctx, identifier)
	if err != nil {
		s.logger.Error("failed to fetch repository", "identifier", identifier, "error", err)
		return nil, err
	}
	return repo, nil
}

// Issues fetches one page of issues. The page is clamped to at least 1 and
// the page size is always model.IssuesPerPage.
func (s *RepositoryService) Issues(ctx context.Context, identifier string, query model.IssueQuery) ([]model.Issue, error) {
	query = model.NewIssueQuery(query.State, query.Page)

	issues, err := s.ghClient.FetchIssues(ctx, identifier, query)
	if err != nil {
		s.logger.Error("failed to fetch issues",
			"identifier", identifier,
			"state", query.State,
			"page", query.Page,
			"error", err,
		)
		return nil, err
	}
	if issues == nil {
		issues = []model.Issue{}
	}
	return issues, nil
}

// Detail fetches repository metadata and one issue page concurrently.
// Failures are logged, never returned: a failed metadata fetch leaves
// Repository nil and a failed issue fetch leaves Issues empty.
func (s *RepositoryService) Detail(ctx context.Context, identifier string, query model.IssueQuery) RepositoryPage {
	page := RepositoryPage{
		Identifier: identifier,
		Issues:     []model.Issue{},
		Query:      model.NewIssueQuery(query.State, query.Page),
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if repo, err := s.Repository(ctx, identifier); err == nil {
			page.Repository = repo
		}
	}()

	go func() {
		defer wg.Done()
		if issues, err := s.Issues(ctx, identifier, page.Query); err == nil {
			page.Issues = issues
		}
	}()

	wg.Wait()
	return page
}
