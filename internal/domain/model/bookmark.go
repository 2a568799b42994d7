package model

import (
	"net/url"
	"strings"
)

// Bookmark is a user-saved reference to a GitHub repository.
// Name is the canonical "owner/name" as returned by GitHub.
type Bookmark struct {
	Name string `json:"name"`
}

// SameRepository reports whether b and name refer to the same repository.
// GitHub owner and repository names are case-insensitive.
func (b Bookmark) SameRepository(name string) bool {
	return strings.EqualFold(b.Name, name)
}

// DetailPath returns the GUI path of the repository detail screen for
// identifier. The identifier is percent-encoded as a single path segment.
func DetailPath(identifier string) string {
	return "/repositorio/" + url.PathEscape(identifier)
}

// Bookmarks is the ordered bookmark collection. It is persisted as a whole.
type Bookmarks []Bookmark

// Contains reports whether any entry matches name case-insensitively.
func (bs Bookmarks) Contains(name string) bool {
	for _, b := range bs {
		if b.SameRepository(name) {
			return true
		}
	}
	return false
}

// Without returns a new collection with every entry named exactly name removed.
func (bs Bookmarks) Without(name string) Bookmarks {
	out := make(Bookmarks, 0, len(bs))
	for _, b := range bs {
		if b.Name != name {
			out = append(out, b)
		}
	}
	return out
}

// Clone returns a copy that shares no backing array with bs.
func (bs Bookmarks) Clone() Bookmarks {
	out := make(Bookmarks, len(bs))
	copy(out, bs)
	return out
}
