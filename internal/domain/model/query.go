package model

// IssuesPerPage is the fixed page size requested from GitHub.
const IssuesPerPage = 5

// IssueQuery is the filter and pagination cursor for an issue list request.
// Page is 1-based and has no upper bound.
type IssueQuery struct {
	State   IssueState
	Page    int
	PerPage int
}

// NewIssueQuery builds a query with the page clamped to at least 1.
func NewIssueQuery(state IssueState, page int) IssueQuery {
	if state == "" {
		state = DefaultIssueState
	}
	if page < 1 {
		page = 1
	}
	return IssueQuery{State: state, Page: page, PerPage: IssuesPerPage}
}

// HasPrev reports whether a previous page exists.
func (q IssueQuery) HasPrev() bool {
	return q.Page > 1
}

// Prev returns the query for the previous page, never below page 1.
func (q IssueQuery) Prev() IssueQuery {
	return NewIssueQuery(q.State, q.Page-1)
}

// Next returns the query for the next page.
func (q IssueQuery) Next() IssueQuery {
	return NewIssueQuery(q.State, q.Page+1)
}

// WithState switches the filter and keeps the current page.
func (q IssueQuery) WithState(state IssueState) IssueQuery {
	return NewIssueQuery(state, q.Page)
}
