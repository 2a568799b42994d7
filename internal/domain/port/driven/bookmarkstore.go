package driven

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ericfisherdev/gitshelf/internal/domain/model"
)

// BookmarksKey is the single key under which the bookmark collection is stored.
const BookmarksKey = "repos"

// ErrCorruptBookmarks indicates the stored value could not be decoded as a
// JSON array of bookmarks.
var ErrCorruptBookmarks = errors.New("stored bookmarks are malformed")

// BookmarkStore defines the driven port for bookmark persistence. The whole
// collection is read and written as one JSON-encoded array.
// Load returns an empty collection when nothing has been stored yet and
// ErrCorruptBookmarks when the stored value cannot be decoded.
//
// Update is the read-modify-write path used by every mutation. It reads the
// stored collection, passes it to fn and writes fn's result back when fn
// reports a change, all inside one store transaction, so writers in other
// processes sharing the store are never overwritten. A malformed stored value
// is handed to fn as an empty collection. Update returns the collection as
// stored afterwards; an error from fn aborts without writing and is returned
// unchanged.
type BookmarkStore interface {
	Load(ctx context.Context) (model.Bookmarks, error)
	Save(ctx context.Context, bookmarks model.Bookmarks) error
	Update(ctx context.Context, fn UpdateFunc) (model.Bookmarks, error)
}

// UpdateFunc computes the new collection from the stored one. changed=false
// leaves the store untouched.
type UpdateFunc func(current model.Bookmarks) (updated model.Bookmarks, changed bool, err error)

// DecodeForUpdate decodes a stored value for an Update, treating a malformed
// value as empty so the write that follows replaces it.
func DecodeForUpdate(data []byte) model.Bookmarks {
	bookmarks, err := DecodeBookmarks(data)
	if err != nil {
		return model.Bookmarks{}
	}
	return bookmarks
}

// EncodeBookmarks renders the collection in its persisted form. A nil
// collection is written as an empty array, never as null.
func EncodeBookmarks(bookmarks model.Bookmarks) ([]byte, error) {
	if bookmarks == nil {
		bookmarks = model.Bookmarks{}
	}
	data, err := json.Marshal(bookmarks)
	if err != nil {
		return nil, fmt.Errorf("encode bookmarks: %w", err)
	}
	return data, nil
}

// DecodeBookmarks parses a persisted collection. Empty input decodes to an
// empty collection; anything that is not a JSON array of objects is reported
// as ErrCorruptBookmarks.
func DecodeBookmarks(data []byte) (model.Bookmarks, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return model.Bookmarks{}, nil
	}

	var bookmarks model.Bookmarks
	if err := json.Unmarshal(trimmed, &bookmarks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptBookmarks, err)
	}
	if bookmarks == nil {
		bookmarks = model.Bookmarks{}
	}
	return bookmarks, nil
}
