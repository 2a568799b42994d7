package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/gitshelf/internal/application"
	"github.com/ericfisherdev/gitshelf/internal/domain/model"
	"github.com/ericfisherdev/gitshelf/internal/domain/port/driven"
)

func newLoadedService(t *testing.T, store *mockBookmarkStore, gh *mockGitHubClient) *application.BookmarkService {
	t.Helper()
	svc := application.NewBookmarkService(store, gh, discardLogger())
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestBookmarkService_Load(t *testing.T) {
	tests := []struct {
		name    string
		store   *mockBookmarkStore
		want    model.Bookmarks
		wantErr bool
	}{
		{
			name:  "absent",
			store: &mockBookmarkStore{},
			want:  model.Bookmarks{},
		},
		{
			name:  "stored entries",
			store: &mockBookmarkStore{loaded: model.Bookmarks{{Name: "golang/go"}}},
			want:  model.Bookmarks{{Name: "golang/go"}},
		},
		{
			name:  "malformed is discarded",
			store: &mockBookmarkStore{loadErr: fmt.Errorf("load: %w", driven.ErrCorruptBookmarks)},
			want:  model.Bookmarks{},
		},
		{
			name:    "io failure",
			store:   &mockBookmarkStore{loadErr: errors.New("disk gone")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := application.NewBookmarkService(tt.store, &mockGitHubClient{}, discardLogger())
			err := svc.Load(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, svc.List(context.Background()))
		})
	}
}

func TestBookmarkService_Add_EmptyCollection(t *testing.T) {
	store := &mockBookmarkStore{}
	gh := &mockGitHubClient{}
	svc := newLoadedService(t, store, gh)

	got, err := svc.Add(context.Background(), "facebook/react")

	require.NoError(t, err)
	assert.Equal(t, model.Bookmark{Name: "facebook/react"}, got)
	assert.Equal(t, model.Bookmarks{{Name: "facebook/react"}}, svc.List(context.Background()))
	assert.Equal(t, model.Bookmarks{{Name: "facebook/react"}}, store.lastSaved())
}

func TestBookmarkService_Add_UsesCanonicalName(t *testing.T) {
	gh := &mockGitHubClient{
		fetchRepo: func(_ context.Context, _ string) (*model.RepositoryDetail, error) {
			return &model.RepositoryDetail{FullName: "Microsoft/TypeScript", Name: "TypeScript"}, nil
		},
	}
	svc := newLoadedService(t, &mockBookmarkStore{}, gh)

	got, err := svc.Add(context.Background(), "microsoft/typescript")

	require.NoError(t, err)
	assert.Equal(t, "Microsoft/TypeScript", got.Name)
}

func TestBookmarkService_Add_ValidationSkipsNetwork(t *testing.T) {
	for _, input := range []string{"", " ", "\t\n  "} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			store := &mockBookmarkStore{loaded: model.Bookmarks{{Name: "golang/go"}}}
			gh := &mockGitHubClient{}
			svc := newLoadedService(t, store, gh)

			_, err := svc.Add(context.Background(), input)

			require.ErrorIs(t, err, application.ErrValidation)
			assert.Equal(t, 0, gh.repoCallCount(), "no network call for empty input")
			assert.Empty(t, store.saves)
			assert.Equal(t, model.Bookmarks{{Name: "golang/go"}}, svc.List(context.Background()))
		})
	}
}

func TestBookmarkService_Add_Duplicate(t *testing.T) {
	store := &mockBookmarkStore{loaded: model.Bookmarks{{Name: "facebook/react"}}}
	svc := newLoadedService(t, store, &mockGitHubClient{})

	_, err := svc.Add(context.Background(), "Facebook/React")

	require.ErrorIs(t, err, application.ErrDuplicate)
	assert.Equal(t, application.MsgDuplicate, application.UserMessage(err))
	assert.Equal(t, model.Bookmarks{{Name: "facebook/react"}}, svc.List(context.Background()))
	assert.Empty(t, store.saves)
}

func TestBookmarkService_Add_DuplicateWithDifferentStoredCase(t *testing.T) {
	store := &mockBookmarkStore{loaded: model.Bookmarks{{Name: "Facebook/React"}}}
	svc := newLoadedService(t, store, &mockGitHubClient{})

	_, err := svc.Add(context.Background(), "facebook/react")

	require.ErrorIs(t, err, application.ErrDuplicate)
}

func TestBookmarkService_Add_NotFound(t *testing.T) {
	gh := &mockGitHubClient{
		fetchRepo: func(_ context.Context, id string) (*model.RepositoryDetail, error) {
			return nil, fmt.Errorf("fetching repository %s: %w", id, driven.ErrRepositoryNotFound)
		},
	}
	store := &mockBookmarkStore{}
	svc := newLoadedService(t, store, gh)

	_, err := svc.Add(context.Background(), "nobody/nothing")

	require.ErrorIs(t, err, application.ErrNotFound)
	assert.Equal(t, application.MsgNotFound, application.UserMessage(err))
	assert.Empty(t, svc.List(context.Background()))
	assert.Empty(t, store.saves)
}

func TestBookmarkService_Add_UnexpectedFetchError(t *testing.T) {
	gh := &mockGitHubClient{
		fetchRepo: func(_ context.Context, _ string) (*model.RepositoryDetail, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := newLoadedService(t, &mockBookmarkStore{}, gh)

	_, err := svc.Add(context.Background(), "golang/go")

	require.ErrorIs(t, err, application.ErrUnexpected)
	assert.Equal(t, application.MsgUnexpected, application.UserMessage(err))
}

func TestBookmarkService_Add_WriteFailureKeepsCollection(t *testing.T) {
	store := &mockBookmarkStore{saveErr: errors.New("read-only")}
	svc := newLoadedService(t, store, &mockGitHubClient{})

	_, err := svc.Add(context.Background(), "golang/go")

	require.ErrorIs(t, err, application.ErrUnexpected)
	assert.Empty(t, svc.List(context.Background()))
}

func TestBookmarkService_Add_AppendsInOrder(t *testing.T) {
	store := &mockBookmarkStore{}
	svc := newLoadedService(t, store, &mockGitHubClient{})
	ctx := context.Background()

	for _, name := range []string{"golang/go", "facebook/react", "rust-lang/rust"} {
		_, err := svc.Add(ctx, name)
		require.NoError(t, err)
	}

	want := model.Bookmarks{{Name: "golang/go"}, {Name: "facebook/react"}, {Name: "rust-lang/rust"}}
	assert.Equal(t, want, svc.List(context.Background()))
	assert.Len(t, store.saves, 3, "every mutation rewrites the store")
	assert.Equal(t, want, store.lastSaved())
}

func TestBookmarkService_Delete(t *testing.T) {
	store := &mockBookmarkStore{loaded: model.Bookmarks{
		{Name: "golang/go"},
		{Name: "facebook/react"},
		{Name: "golang/go"},
	}}
	svc := newLoadedService(t, store, &mockGitHubClient{})
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "golang/go"))
	assert.Equal(t, model.Bookmarks{{Name: "facebook/react"}}, svc.List(context.Background()))
	assert.Equal(t, model.Bookmarks{{Name: "facebook/react"}}, store.lastSaved())

	require.NoError(t, svc.Delete(ctx, "golang/go"), "deleting again is a no-op")
	require.NoError(t, svc.Delete(ctx, "Facebook/React"), "delete matches exactly")
	assert.Equal(t, model.Bookmarks{{Name: "facebook/react"}}, svc.List(context.Background()))
	assert.Len(t, store.saves, 1)
}

func TestBookmarkService_Delete_SaveFailureKeepsCollection(t *testing.T) {
	store := &mockBookmarkStore{loaded: model.Bookmarks{{Name: "golang/go"}}}
	svc := newLoadedService(t, store, &mockGitHubClient{})
	store.saveErr = errors.New("read-only")

	err := svc.Delete(context.Background(), "golang/go")

	require.ErrorIs(t, err, application.ErrUnexpected)
	assert.Equal(t, model.Bookmarks{{Name: "golang/go"}}, svc.List(context.Background()))
}

func TestBookmarkService_ListReturnsCopy(t *testing.T) {
	store := &mockBookmarkStore{loaded: model.Bookmarks{{Name: "golang/go"}}}
	svc := newLoadedService(t, store, &mockGitHubClient{})

	list := svc.List(context.Background())
	list[0].Name = "mutated/elsewhere"

	assert.Equal(t, model.Bookmarks{{Name: "golang/go"}}, svc.List(context.Background()))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", application.UserMessage(nil))
	assert.Equal(t, application.MsgValidation, application.UserMessage(application.ErrValidation))
	assert.Equal(t, application.MsgUnexpected, application.UserMessage(errors.New("boom")))
}

func TestBookmarkService_MutationsReadTheStore(t *testing.T) {
	store := &mockBookmarkStore{}
	ctx := context.Background()
	first := newLoadedService(t, store, &mockGitHubClient{})
	second := newLoadedService(t, store, &mockGitHubClient{})

	_, err := first.Add(ctx, "golang/go")
	require.NoError(t, err)
	_, err = second.Add(ctx, "facebook/react")
	require.NoError(t, err)

	want := model.Bookmarks{{Name: "golang/go"}, {Name: "facebook/react"}}
	assert.Equal(t, want, store.lastSaved(), "the second writer keeps the first writer's bookmark")
	assert.Equal(t, want, first.List(ctx), "List reflects the other writer")

	_, err = second.Add(ctx, "GOLANG/go")
	require.ErrorIs(t, err, application.ErrDuplicate)

	require.NoError(t, second.Delete(ctx, "golang/go"))
	assert.Equal(t, model.Bookmarks{{Name: "facebook/react"}}, first.List(ctx))
}

func TestBookmarkService_ListFallsBackToCache(t *testing.T) {
	store := &mockBookmarkStore{loaded: model.Bookmarks{{Name: "golang/go"}}}
	svc := newLoadedService(t, store, &mockGitHubClient{})
	store.loadErr = errors.New("disk gone")

	assert.Equal(t, model.Bookmarks{{Name: "golang/go"}}, svc.List(context.Background()))
}
