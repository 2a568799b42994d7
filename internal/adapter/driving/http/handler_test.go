package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/gitshelf/internal/adapter/driving/http"
	"github.com/ericfisherdev/gitshelf/internal/application"
	"github.com/ericfisherdev/gitshelf/internal/domain/model"
	"github.com/ericfisherdev/gitshelf/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockGitHubClient struct {
	repos      map[string]*model.RepositoryDetail
	repoErr    error
	issues     []model.Issue
	issuesErr  error
	issueCalls []model.IssueQuery
	identifier string
}

func (m *mockGitHubClient) FetchRepository(_ context.Context, identifier string) (*model.RepositoryDetail, error) {
	if m.repoErr != nil {
		return nil, m.repoErr
	}
	repo, ok := m.repos[strings.ToLower(identifier)]
	if !ok {
		return nil, fmt.Errorf("fetching repository %s: %w", identifier, driven.ErrRepositoryNotFound)
	}
	return repo, nil
}

func (m *mockGitHubClient) FetchIssues(_ context.Context, identifier string, q model.IssueQuery) ([]model.Issue, error) {
	m.identifier = identifier
	m.issueCalls = append(m.issueCalls, q)
	return m.issues, m.issuesErr
}

type mockBookmarkStore struct {
	bookmarks model.Bookmarks
	saveErr   error
}

func (m *mockBookmarkStore) Load(_ context.Context) (model.Bookmarks, error) {
	return m.bookmarks.Clone(), nil
}

func (m *mockBookmarkStore) Save(_ context.Context, bookmarks model.Bookmarks) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.bookmarks = bookmarks.Clone()
	return nil
}

func (m *mockBookmarkStore) Update(ctx context.Context, fn driven.UpdateFunc) (model.Bookmarks, error) {
	current, _ := m.Load(ctx)
	updated, changed, err := fn(current.Clone())
	if err != nil {
		return nil, err
	}
	if !changed {
		return current, nil
	}
	if err := m.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// --- Test helpers ---

var reactRepo = &model.RepositoryDetail{
	FullName:    "facebook/react",
	Name:        "react",
	Description: "The library for web and native user interfaces.",
	Owner:       model.User{Login: "facebook", AvatarURL: "https://avatars/facebook"},
}

func newGitHub() *mockGitHubClient {
	return &mockGitHubClient{repos: map[string]*model.RepositoryDetail{"facebook/react": reactRepo}}
}

func setupMux(t *testing.T, store *mockBookmarkStore, gh *mockGitHubClient) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bookmarkSvc := application.NewBookmarkService(store, gh, logger)
	require.NoError(t, bookmarkSvc.Load(context.Background()))
	repoSvc := application.NewRepositoryService(gh, logger)

	h := httphandler.NewHandler(bookmarkSvc, repoSvc, logger)
	return httphandler.NewServeMux(h, logger)
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

// --- Tests ---

func TestListBookmarks(t *testing.T) {
	tests := []struct {
		name  string
		store *mockBookmarkStore
		want  []httphandler.BookmarkResponse
	}{
		{
			name:  "empty list",
			store: &mockBookmarkStore{},
			want:  []httphandler.BookmarkResponse{},
		},
		{
			name:  "two bookmarks",
			store: &mockBookmarkStore{bookmarks: model.Bookmarks{{Name: "golang/go"}, {Name: "facebook/react"}}},
			want: []httphandler.BookmarkResponse{
				{Name: "golang/go", DetailPath: "/repositorio/golang%2Fgo"},
				{Name: "facebook/react", DetailPath: "/repositorio/facebook%2Freact"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(t, tt.store, newGitHub())
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks", nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			var resp []httphandler.BookmarkResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, tt.want, resp)
		})
	}
}

func TestAddBookmark(t *testing.T) {
	tests := []struct {
		name       string
		store      *mockBookmarkStore
		gh         *mockGitHubClient
		body       string
		wantStatus int
		wantError  string
		wantStored model.Bookmarks
	}{
		{
			name:       "created",
			store:      &mockBookmarkStore{},
			gh:         newGitHub(),
			body:       `{"name":"facebook/react"}`,
			wantStatus: http.StatusCreated,
			wantStored: model.Bookmarks{{Name: "facebook/react"}},
		},
		{
			name:       "empty name",
			store:      &mockBookmarkStore{},
			gh:         newGitHub(),
			body:       `{"name":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantError:  application.MsgValidation,
		},
		{
			name:       "not found",
			store:      &mockBookmarkStore{},
			gh:         newGitHub(),
			body:       `{"name":"nobody/nothing"}`,
			wantStatus: http.StatusNotFound,
			wantError:  application.MsgNotFound,
		},
		{
			name:       "duplicate",
			store:      &mockBookmarkStore{bookmarks: model.Bookmarks{{Name: "facebook/react"}}},
			gh:         newGitHub(),
			body:       `{"name":"Facebook/React"}`,
			wantStatus: http.StatusConflict,
			wantError:  application.MsgDuplicate,
			wantStored: model.Bookmarks{{Name: "facebook/react"}},
		},
		{
			name:       "github failure",
			store:      &mockBookmarkStore{},
			gh:         &mockGitHubClient{repoErr: errors.New("connection refused")},
			body:       `{"name":"facebook/react"}`,
			wantStatus: http.StatusInternalServerError,
			wantError:  application.MsgUnexpected,
		},
		{
			name:       "invalid body",
			store:      &mockBookmarkStore{},
			gh:         newGitHub(),
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(t, tt.store, tt.gh)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				var resp map[string]string
				decodeJSON(t, rec, &resp)
				assert.Equal(t, tt.wantError, resp["error"])
			} else {
				var resp httphandler.BookmarkResponse
				decodeJSON(t, rec, &resp)
				assert.Equal(t, "facebook/react", resp.Name)
			}
			assert.Equal(t, tt.wantStored, tt.store.bookmarks)
		})
	}
}

func TestDeleteBookmark(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStored model.Bookmarks
	}{
		{
			name:       "plain path",
			path:       "/api/v1/bookmarks/golang/go",
			wantStored: model.Bookmarks{{Name: "facebook/react"}},
		},
		{
			name:       "percent-encoded path",
			path:       "/api/v1/bookmarks/golang%2Fgo",
			wantStored: model.Bookmarks{{Name: "facebook/react"}},
		},
		{
			name:       "not bookmarked",
			path:       "/api/v1/bookmarks/rust-lang/rust",
			wantStored: model.Bookmarks{{Name: "golang/go"}, {Name: "facebook/react"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockBookmarkStore{bookmarks: model.Bookmarks{{Name: "golang/go"}, {Name: "facebook/react"}}}
			mux := setupMux(t, store, newGitHub())
			req := httptest.NewRequest(http.MethodDelete, tt.path, nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.wantStored, store.bookmarks)
		})
	}
}

func TestDeleteBookmark_SaveFailure(t *testing.T) {
	store := &mockBookmarkStore{bookmarks: model.Bookmarks{{Name: "golang/go"}}}
	mux := setupMux(t, store, newGitHub())
	store.saveErr = errors.New("disk full")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookmarks/golang/go", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetRepository(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		gh         *mockGitHubClient
		wantStatus int
	}{
		{name: "found", path: "/api/v1/repos/facebook/react", gh: newGitHub(), wantStatus: http.StatusOK},
		{name: "not found", path: "/api/v1/repos/nobody/nothing", gh: newGitHub(), wantStatus: http.StatusNotFound},
		{name: "github failure", path: "/api/v1/repos/facebook/react", gh: &mockGitHubClient{repoErr: errors.New("timeout")}, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(t, &mockBookmarkStore{}, tt.gh)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var resp httphandler.RepositoryResponse
				decodeJSON(t, rec, &resp)
				assert.Equal(t, "facebook/react", resp.FullName)
				assert.Equal(t, "react", resp.Name)
				assert.Equal(t, "facebook", resp.Owner.Login)
				assert.Equal(t, "https://avatars/facebook", resp.Owner.AvatarURL)
			}
		})
	}
}

func TestListIssues(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantQuery  model.IssueQuery
	}{
		{name: "defaults", query: "", wantStatus: http.StatusOK, wantQuery: model.IssueQuery{State: model.IssueStateOpen, Page: 1, PerPage: 5}},
		{name: "closed page 3", query: "?state=closed&page=3", wantStatus: http.StatusOK, wantQuery: model.IssueQuery{State: model.IssueStateClosed, Page: 3, PerPage: 5}},
		{name: "page clamped", query: "?state=all&page=0", wantStatus: http.StatusOK, wantQuery: model.IssueQuery{State: model.IssueStateAll, Page: 1, PerPage: 5}},
		{name: "invalid state", query: "?state=merged", wantStatus: http.StatusBadRequest},
		{name: "invalid page", query: "?page=two", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gh := newGitHub()
			gh.issues = []model.Issue{{
				ID:      11,
				Number:  3,
				Title:   "Bug",
				HTMLURL: "https://github.com/facebook/react/issues/3",
				User:    model.User{Login: "alice"},
				Labels:  []model.Label{{ID: 1, Name: "bug"}},
			}}
			mux := setupMux(t, &mockBookmarkStore{}, gh)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/repos/facebook/react/issues"+tt.query, nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Empty(t, gh.issueCalls)
				return
			}

			require.Equal(t, []model.IssueQuery{tt.wantQuery}, gh.issueCalls)
			assert.Equal(t, "facebook/react", gh.identifier)

			var resp httphandler.IssuePageResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, string(tt.wantQuery.State), resp.State)
			assert.Equal(t, tt.wantQuery.Page, resp.Page)
			assert.Equal(t, 5, resp.PerPage)
			assert.Equal(t, tt.wantQuery.Page > 1, resp.HasPrev)
			require.Len(t, resp.Issues, 1)
			assert.Equal(t, "Bug", resp.Issues[0].Title)
			assert.Equal(t, []httphandler.LabelResponse{{ID: 1, Name: "bug"}}, resp.Issues[0].Labels)
		})
	}
}

func TestListIssues_GitHubFailure(t *testing.T) {
	gh := newGitHub()
	gh.issuesErr = errors.New("502")
	mux := setupMux(t, &mockBookmarkStore{}, gh)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/repos/facebook/react/issues", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealth(t *testing.T) {
	mux := setupMux(t, &mockBookmarkStore{}, newGitHub())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	handler := httphandler.ApplyMiddleware(panicky, logger)

	tests := []struct {
		name        string
		path        string
		contentType string
	}{
		{"api route answers json", "/api/v1/bookmarks", "application/json; charset=utf-8"},
		{"gui route answers text", "/", "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
		})
	}
}
