package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/gitshelf/internal/application"
	"github.com/ericfisherdev/gitshelf/internal/domain/model"
	"github.com/ericfisherdev/gitshelf/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	bookmarkSvc *application.BookmarkService
	repoSvc     *application.RepositoryService
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	bookmarkSvc *application.BookmarkService,
	repoSvc *application.RepositoryService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		bookmarkSvc: bookmarkSvc,
		repoSvc:     repoSvc,
		logger:      logger,
	}
}

// RegisterAPIRoutes registers all /api/v1 routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/bookmarks", h.ListBookmarks)
	mux.HandleFunc("POST /api/v1/bookmarks", h.AddBookmark)
	mux.HandleFunc("DELETE /api/v1/bookmarks/{name...}", h.DeleteBookmark)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}", h.GetRepository)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/issues", h.ListIssues)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// ListBookmarks returns the bookmark collection in insertion order.
func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks := h.bookmarkSvc.List(r.Context())

	resp := make([]BookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		resp = append(resp, toBookmarkResponse(b))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddBookmark resolves the submitted name against GitHub and bookmarks it.
func (h *Handler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	var req AddBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bookmark, err := h.bookmarkSvc.Add(r.Context(), req.Name)
	if err != nil {
		writeError(w, statusForAddError(err), application.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusCreated, toBookmarkResponse(bookmark))
}

// DeleteBookmark removes every bookmark with exactly the given name.
// It answers 204 whether or not the name was bookmarked.
func (h *Handler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := h.bookmarkSvc.Delete(r.Context(), name); err != nil {
		h.logger.Error("failed to delete bookmark", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetRepository returns repository metadata for the detail header.
func (h *Handler) GetRepository(w http.ResponseWriter, r *http.Request) {
	identifier := r.PathValue("owner") + "/" + r.PathValue("repo")

	repo, err := h.repoSvc.Repository(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, driven.ErrRepositoryNotFound) {
			writeError(w, http.StatusNotFound, "repository not found")
			return
		}
		writeError(w, http.StatusBadGateway, "github request failed")
		return
	}

	writeJSON(w, http.StatusOK, toRepositoryResponse(*repo))
}

// ListIssues returns one page of issues. Query parameters: state
// (all|open|closed, default open) and page (default 1, clamped to >= 1).
func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	identifier := r.PathValue("owner") + "/" + r.PathValue("repo")

	query, err := parseIssueQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	issues, err := h.repoSvc.Issues(r.Context(), identifier, query)
	if err != nil {
		writeError(w, http.StatusBadGateway, "github request failed")
		return
	}

	resp := IssuePageResponse{
		State:   string(query.State),
		Page:    query.Page,
		PerPage: query.PerPage,
		HasPrev: query.HasPrev(),
		Issues:  make([]IssueResponse, 0, len(issues)),
	}
	for _, issue := range issues {
		resp.Issues = append(resp.Issues, toIssueResponse(issue))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// statusForAddError maps BookmarkService.Add error kinds to HTTP status codes.
func statusForAddError(err error) int {
	switch {
	case errors.Is(err, application.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseIssueQuery reads the state and page query parameters.
func parseIssueQuery(r *http.Request) (model.IssueQuery, error) {
	state, err := model.ParseIssueState(r.URL.Query().Get("state"))
	if err != nil {
		return model.IssueQuery{}, err
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil {
			return model.IssueQuery{}, errors.New("invalid page number")
		}
	}

	return model.NewIssueQuery(state, page), nil
}
