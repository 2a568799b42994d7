package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/gitshelf/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// AddBookmarkRequest is the JSON body for POST /api/v1/bookmarks.
type AddBookmarkRequest struct {
	Name string `json:"name"`
}

// BookmarkResponse is the JSON representation of a bookmark.
type BookmarkResponse struct {
	Name       string `json:"name"`
	DetailPath string `json:"detail_path"`
}

// UserResponse is the JSON representation of a GitHub account.
type UserResponse struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// RepositoryResponse is the JSON representation of repository metadata.
type RepositoryResponse struct {
	FullName    string       `json:"full_name"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Owner       UserResponse `json:"owner"`
}

// LabelResponse is the JSON representation of an issue label.
type LabelResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IssueResponse is the JSON representation of an issue.
type IssueResponse struct {
	ID      int64           `json:"id"`
	Number  int             `json:"number"`
	Title   string          `json:"title"`
	HTMLURL string          `json:"html_url"`
	User    UserResponse    `json:"user"`
	Labels  []LabelResponse `json:"labels"`
}

// IssuePageResponse is one page of issues plus its cursor.
type IssuePageResponse struct {
	State   string          `json:"state"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	HasPrev bool            `json:"has_prev"`
	Issues  []IssueResponse `json:"issues"`
}

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toBookmarkResponse(b model.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		Name:       b.Name,
		DetailPath: model.DetailPath(b.Name),
	}
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{Login: u.Login, AvatarURL: u.AvatarURL}
}

func toRepositoryResponse(r model.RepositoryDetail) RepositoryResponse {
	return RepositoryResponse{
		FullName:    r.FullName,
		Name:        r.Name,
		Description: r.Description,
		Owner:       toUserResponse(r.Owner),
	}
}

func toIssueResponse(issue model.Issue) IssueResponse {
	labels := make([]LabelResponse, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, LabelResponse{ID: l.ID, Name: l.Name})
	}

	return IssueResponse{
		ID:      issue.ID,
		Number:  issue.Number,
		Title:   issue.Title,
		HTMLURL: issue.HTMLURL,
		User:    toUserResponse(issue.User),
		Labels:  labels,
	}
}
