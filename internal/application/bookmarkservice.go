package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ericfisherdev/gitshelf/internal/domain/model"
	"github.com/ericfisherdev/gitshelf/internal/domain/port/driven"
)

// BookmarkService owns the bookmark collection. The store is the source of
// truth: every mutation is a read-modify-write through BookmarkStore.Update,
// so other processes writing the same store (gitshelfctl next to the server)
// are never overwritten. The last collection seen is cached for when the
// store cannot be read.
type BookmarkService struct {
	store    driven.BookmarkStore
	ghClient driven.GitHubClient
	logger   *slog.Logger

	mu        sync.Mutex
	bookmarks model.Bookmarks
}

// NewBookmarkService creates a BookmarkService with an empty collection.
// Call Load before serving requests.
func NewBookmarkService(store driven.BookmarkStore, ghClient driven.GitHubClient, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		store:     store,
		ghClient:  ghClient,
		logger:    logger,
		bookmarks: model.Bookmarks{},
	}
}

// Load reads the persisted collection at startup. Missing or malformed data
// starts an empty collection and is only logged. Other store failures are
// returned.
func (s *BookmarkService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return fmt.Errorf("load bookmarks: %w", err)
	}

	s.logger.Info("bookmarks loaded", "count", len(s.bookmarks))
	return nil
}

// List returns the stored collection in insertion order. When the store
// cannot be read it logs and returns the last collection seen.
func (s *BookmarkService) List(ctx context.Context) model.Bookmarks {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		s.logger.Error("failed to reload bookmarks, serving cached list", "error", err)
	}
	return s.bookmarks.Clone()
}

// refresh replaces the cache with the stored collection. Callers hold s.mu.
func (s *BookmarkService) refresh(ctx context.Context) error {
	bookmarks, err := s.store.Load(ctx)
	if errors.Is(err, driven.ErrCorruptBookmarks) {
		s.logger.Warn("discarding malformed bookmarks", "error", err)
		bookmarks = model.Bookmarks{}
	} else if err != nil {
		return err
	}
	if bookmarks == nil {
		bookmarks = model.Bookmarks{}
	}

	s.bookmarks = bookmarks
	return nil
}

// Add resolves input against GitHub and appends the canonical full name.
// Empty input fails with ErrValidation before any request is made. A 404
// yields ErrNotFound, an already bookmarked repository (compared
// case-insensitively against the stored collection) yields ErrDuplicate, and
// everything else ErrUnexpected.
func (s *BookmarkService) Add(ctx context.Context, input string) (model.Bookmark, error) {
	identifier := strings.TrimSpace(input)
	if identifier == "" {
		return model.Bookmark{}, ErrValidation
	}

	repo, err := s.ghClient.FetchRepository(ctx, identifier)
	if err != nil {
		if errors.Is(err, driven.ErrRepositoryNotFound) {
			return model.Bookmark{}, fmt.Errorf("%w: %s", ErrNotFound, identifier)
		}
		s.logger.Error("failed to fetch repository", "identifier", identifier, "error", err)
		return model.Bookmark{}, fmt.Errorf("%w: fetch %s: %w", ErrUnexpected, identifier, err)
	}
	if repo == nil || repo.FullName == "" {
		return model.Bookmark{}, fmt.Errorf("%w: fetch %s: empty full name", ErrUnexpected, identifier)
	}

	bookmark := model.Bookmark{Name: repo.FullName}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.Update(ctx, func(current model.Bookmarks) (model.Bookmarks, bool, error) {
		if current.Contains(bookmark.Name) {
			return nil, false, fmt.Errorf("%w: %s", ErrDuplicate, bookmark.Name)
		}
		return append(current, bookmark), true, nil
	})
	if errors.Is(err, ErrDuplicate) {
		return model.Bookmark{}, err
	}
	if err != nil {
		s.logger.Error("failed to save bookmarks", "error", err)
		return model.Bookmark{}, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	s.bookmarks = stored

	s.logger.Info("bookmark added", "name", bookmark.Name)
	return bookmark, nil
}

// Delete removes every stored entry whose name equals name exactly. Deleting
// a name that is not bookmarked writes nothing.
func (s *BookmarkService) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.Update(ctx, func(current model.Bookmarks) (model.Bookmarks, bool, error) {
		updated := current.Without(name)
		return updated, len(updated) != len(current), nil
	})
	if err != nil {
		s.logger.Error("failed to save bookmarks", "error", err)
		return fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	s.bookmarks = stored

	s.logger.Info("bookmark removed", "name", name)
	return nil
}
