package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/ericfisherdev/gitshelf/internal/domain/model"
	"github.com/ericfisherdev/gitshelf/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockGitHubClient struct {
	mu          sync.Mutex
	repoCalls   []string
	issueCalls  []model.IssueQuery
	fetchRepo   func(ctx context.Context, identifier string) (*model.RepositoryDetail, error)
	fetchIssues func(ctx context.Context, identifier string, q model.IssueQuery) ([]model.Issue, error)
}

func (m *mockGitHubClient) FetchRepository(ctx context.Context, identifier string) (*model.RepositoryDetail, error) {
	m.mu.Lock()
	m.repoCalls = append(m.repoCalls, identifier)
	m.mu.Unlock()

	if m.fetchRepo != nil {
		return m.fetchRepo(ctx, identifier)
	}
	return canonicalRepo(identifier), nil
}

func (m *mockGitHubClient) FetchIssues(ctx context.Context, identifier string, q model.IssueQuery) ([]model.Issue, error) {
	m.mu.Lock()
	m.issueCalls = append(m.issueCalls, q)
	m.mu.Unlock()

	if m.fetchIssues != nil {
		return m.fetchIssues(ctx, identifier, q)
	}
	return []model.Issue{}, nil
}

func (m *mockGitHubClient) repoCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.repoCalls)
}

// canonicalRepo mimics GitHub returning the lower-case canonical name.
func canonicalRepo(identifier string) *model.RepositoryDetail {
	full := strings.ToLower(identifier)
	owner, name, _ := strings.Cut(full, "/")
	return &model.RepositoryDetail{
		FullName: full,
		Name:     name,
		Owner:    model.User{Login: owner},
	}
}

type mockBookmarkStore struct {
	loaded  model.Bookmarks
	loadErr error
	saveErr error
	saves   []model.Bookmarks
}

func (m *mockBookmarkStore) Load(_ context.Context) (model.Bookmarks, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.loaded.Clone(), nil
}

func (m *mockBookmarkStore) Update(_ context.Context, fn driven.UpdateFunc) (model.Bookmarks, error) {
	current := m.loaded.Clone()
	if m.loadErr != nil {
		if !errors.Is(m.loadErr, driven.ErrCorruptBookmarks) {
			return nil, m.loadErr
		}
		current = model.Bookmarks{}
	}

	updated, changed, err := fn(current.Clone())
	if err != nil {
		return nil, err
	}
	if !changed {
		return current, nil
	}
	if err := m.Save(context.Background(), updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

func (m *mockBookmarkStore) Save(_ context.Context, bookmarks model.Bookmarks) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves = append(m.saves, bookmarks.Clone())
	m.loaded = bookmarks.Clone()
	m.loadErr = nil
	return nil
}

func (m *mockBookmarkStore) lastSaved() model.Bookmarks {
	if len(m.saves) == 0 {
		return nil
	}
	return m.saves[len(m.saves)-1]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
