package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/gitshelf/internal/domain/model"
)

// ErrRepositoryNotFound is returned by GitHubClient.FetchRepository when
// GitHub answers 404 for the identifier.
var ErrRepositoryNotFound = errors.New("repository not found")

// GitHubClient defines the driven port for reading repositories and issues
// from the GitHub REST API. identifier is an "owner/name" string as typed by
// the user or taken from the navigation path.
type GitHubClient interface {
	FetchRepository(ctx context.Context, identifier string) (*model.RepositoryDetail, error)
	// FetchIssues returns a single page of issues. A page past the end yields
	// an empty slice and no error.
	FetchIssues(ctx context.Context, identifier string, query model.IssueQuery) ([]model.Issue, error)
}
