// Package application contains use-case orchestration services.
package application

import (
	"errors"
)

// Error kinds surfaced by BookmarkService.Add. Callers match them with errors.Is.
var (
	// ErrValidation indicates the submitted repository name is empty.
	ErrValidation = errors.New("repository name is required")

	// ErrNotFound indicates GitHub has no repository with the submitted name.
	ErrNotFound = errors.New("repository not found")

	// ErrDuplicate indicates the repository is already bookmarked.
	ErrDuplicate = errors.New("repository already bookmarked")

	// ErrUnexpected covers network failures, unexpected responses and
	// persistence failures.
	ErrUnexpected = errors.New("unexpected error")
)

// User-visible messages for each error kind.
const (
	MsgValidation = "You need to enter a repository."
	MsgNotFound   = "Repository not found. Check the name and try again."
	MsgDuplicate  = "Repository already bookmarked."
	MsgUnexpected = "Unexpected error. Try again later."
)

// UserMessage maps an error returned by BookmarkService to the single message
// shown next to the input field. Unknown errors fall back to MsgUnexpected.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return MsgValidation
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	case errors.Is(err, ErrDuplicate):
		return MsgDuplicate
	default:
		return MsgUnexpected
	}
}
