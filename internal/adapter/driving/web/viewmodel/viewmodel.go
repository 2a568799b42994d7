// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// BookmarkViewModel holds presentation data for one bookmarked repository.
type BookmarkViewModel struct {
	Name       string
	DetailPath string // computed: /repositorio/{percent-encoded name}
}

// BookmarkListViewModel holds all data needed to render the bookmark list page.
type BookmarkListViewModel struct {
	Bookmarks []BookmarkViewModel
	Input     string // value echoed back into the input after a failed add
	Error     string // single user-visible message next to the input
	CSRFToken string
}

// HasError reports whether an add error message should be shown.
func (v BookmarkListViewModel) HasError() bool {
	return v.Error != ""
}

// UserViewModel holds presentation data for an avatar + login pair.
type UserViewModel struct {
	Login     string
	AvatarURL string
}

// LabelViewModel holds presentation data for one issue label tag.
type LabelViewModel struct {
	ID   int64
	Name string
}

// IssueViewModel holds presentation data for one issue row.
type IssueViewModel struct {
	ID     int64
	Title  string
	URL    string
	Author UserViewModel
	Labels []LabelViewModel
}

// FilterTabViewModel holds presentation data for one state filter tab.
type FilterTabViewModel struct {
	Label  string
	State  string
	Active bool
	URL    string
}

// PaginationViewModel holds presentation data for the previous/next controls.
type PaginationViewModel struct {
	Page         int
	PrevDisabled bool
	PrevURL      string
	NextURL      string
}

// RepositoryDetailViewModel holds all data needed to render the repository detail page.
type RepositoryDetailViewModel struct {
	Identifier      string
	Loaded          bool // false renders only the loading indicator
	FullName        string
	Name            string
	DescriptionHTML string // sanitized HTML
	Owner           UserViewModel
	Filters         []FilterTabViewModel
	Issues          []IssueViewModel
	Pagination      PaginationViewModel
}
