package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/gitshelf/internal/domain/model"
	"github.com/ericfisherdev/gitshelf/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BookmarkStore = (*BookmarkRepo)(nil)

// BookmarkRepo is the SQLite implementation of the BookmarkStore port. The
// collection is kept as one JSON array in the kv table under driven.BookmarksKey.
type BookmarkRepo struct {
	db  *DB
	key string
}

// NewBookmarkRepo creates a new BookmarkRepo backed by the given DB.
func NewBookmarkRepo(db *DB) *BookmarkRepo {
	return &BookmarkRepo{db: db, key: driven.BookmarksKey}
}

// Load reads the stored collection. A missing row yields an empty collection.
func (r *BookmarkRepo) Load(ctx context.Context) (model.Bookmarks, error) {
	const query = `SELECT value FROM kv WHERE key = ?`

	var value string
	err := r.db.Reader.QueryRowContext(ctx, query, r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bookmarks{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}

	bookmarks, err := driven.DecodeBookmarks([]byte(value))
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}

	return bookmarks, nil
}

// Save rewrites the whole stored collection.
func (r *BookmarkRepo) Save(ctx context.Context, bookmarks model.Bookmarks) error {
	if err := r.write(ctx, r.db.Writer, bookmarks); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	return nil
}

// Update runs fn inside one writer transaction. The writer DSN uses
// _txlock=immediate, so the transaction holds the write lock from BEGIN and
// another process cannot write between the read and the write.
func (r *BookmarkRepo) Update(ctx context.Context, fn driven.UpdateFunc) (model.Bookmarks, error) {
	const query = `SELECT value FROM kv WHERE key = ?`

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update bookmarks: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var value string
	err = tx.QueryRowContext(ctx, query, r.key).Scan(&value)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update bookmarks: read: %w", err)
	}
	current := driven.DecodeForUpdate([]byte(value))

	updated, changed, err := fn(current.Clone())
	if err != nil {
		return nil, err
	}
	if !changed {
		return current, nil
	}

	if err := r.write(ctx, tx, updated); err != nil {
		return nil, fmt.Errorf("update bookmarks: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update bookmarks: commit: %w", err)
	}

	return updated.Clone(), nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *BookmarkRepo) write(ctx context.Context, db execer, bookmarks model.Bookmarks) error {
	const query = `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	data, err := driven.EncodeBookmarks(bookmarks)
	if err != nil {
		return err
	}

	updatedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.ExecContext(ctx, query, r.key, string(data), updatedAt); err != nil {
		return err
	}
	return nil
}
