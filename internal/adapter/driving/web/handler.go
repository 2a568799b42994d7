// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/gitshelf/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/gitshelf/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/gitshelf/internal/application"
	"github.com/ericfisherdev/gitshelf/internal/domain/model"
)

const appTitle = "gitshelf"

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	bookmarkSvc *application.BookmarkService
	repoSvc     *application.RepositoryService
	minBusy     time.Duration
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. minBusy is the
// shortest time an add request takes, so the busy indicator stays visible.
func NewHandler(
	bookmarkSvc *application.BookmarkService,
	repoSvc *application.RepositoryService,
	minBusy time.Duration,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		bookmarkSvc: bookmarkSvc,
		repoSvc:     repoSvc,
		minBusy:     minBusy,
		logger:      logger,
	}
}

// BookmarkList renders the bookmark list page with an empty add form.
func (h *Handler) BookmarkList(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	data := toBookmarkListViewModel(h.bookmarkSvc.List(r.Context()), "", "", token)
	h.render(w, r, http.StatusOK, appTitle, pages.BookmarkList(data))
}

// AddBookmark resolves the submitted repository against GitHub and bookmarks
// it. Success redirects back to the list, which clears the input. Failures
// re-render the list with the message and the submitted value.
func (h *Handler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	input := r.PostFormValue("repository")

	err := application.WithMinDuration(r.Context(), h.minBusy, func(ctx context.Context) error {
		_, addErr := h.bookmarkSvc.Add(ctx, input)
		return addErr
	})
	if err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if errors.Is(err, context.Canceled) {
		return
	}

	token := csrfToken(w, r)
	data := toBookmarkListViewModel(h.bookmarkSvc.List(r.Context()), input, application.UserMessage(err), token)
	h.render(w, r, statusForAddError(err), appTitle, pages.BookmarkList(data))
}

// DeleteBookmark removes the named bookmark and redirects back to the list.
func (h *Handler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	if err := h.bookmarkSvc.Delete(r.Context(), r.PostFormValue("name")); err != nil {
		h.logger.Error("failed to delete bookmark", "error", err)
		http.Error(w, application.MsgUnexpected, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RepositoryDetail renders the detail page for the identifier in the path.
// Invalid state or page parameters fall back to the defaults.
func (h *Handler) RepositoryDetail(w http.ResponseWriter, r *http.Request) {
	identifier := r.PathValue("identifier")
	query := parseIssueQuery(r)

	page := h.repoSvc.Detail(r.Context(), identifier, query)
	data := toRepositoryDetailViewModel(page)

	title := appTitle
	if data.Loaded {
		title = data.FullName + " - " + appTitle
	}
	h.render(w, r, http.StatusOK, title, pages.RepositoryDetail(data))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, content templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := templates.Layout(title, content).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
	}
}

func parseIssueQuery(r *http.Request) model.IssueQuery {
	state, err := model.ParseIssueState(r.URL.Query().Get("state"))
	if err != nil {
		state = model.DefaultIssueState
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}

	return model.NewIssueQuery(state, page)
}

func statusForAddError(err error) int {
	switch {
	case errors.Is(err, application.ErrValidation), errors.Is(err, application.ErrDuplicate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
