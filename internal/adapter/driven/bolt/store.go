// Package bolt implements the BookmarkStore port on a bbolt key/value file.
package bolt

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/ericfisherdev/gitshelf/internal/domain/model"
	"github.com/ericfisherdev/gitshelf/internal/domain/port/driven"
)

const bucketName = "gitshelf"

// Compile-time interface satisfaction check.
var _ driven.BookmarkStore = (*Store)(nil)

// Store keeps the bookmark collection as a JSON array under driven.BookmarksKey
// in a single bbolt bucket.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the bbolt file at path and ensures the bucket exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the stored collection. A missing key yields an empty collection.
func (s *Store) Load(_ context.Context) (model.Bookmarks, error) {
	var data []byte
	if err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(bucketName)).Get([]byte(driven.BookmarksKey)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}

	bookmarks, err := driven.DecodeBookmarks(data)
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	return bookmarks, nil
}

// Save rewrites the whole stored collection.
func (s *Store) Save(_ context.Context, bookmarks model.Bookmarks) error {
	data, err := driven.EncodeBookmarks(bookmarks)
	if err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}

	if err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(driven.BookmarksKey), data)
	}); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	return nil
}

// Update runs fn inside one bbolt read-write transaction.
func (s *Store) Update(_ context.Context, fn driven.UpdateFunc) (model.Bookmarks, error) {
	var result model.Bookmarks
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		current := driven.DecodeForUpdate(bucket.Get([]byte(driven.BookmarksKey)))

		updated, changed, err := fn(current.Clone())
		if err != nil {
			return err
		}
		if !changed {
			result = current
			return nil
		}

		data, err := driven.EncodeBookmarks(updated)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(driven.BookmarksKey), data); err != nil {
			return err
		}
		result = updated.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
