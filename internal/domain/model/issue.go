package model

// Label is a single issue label.
type Label struct {
	ID   int64
	Name string
}

// Issue is one entry of a repository's issue list.
type Issue struct {
	ID      int64
	Number  int
	Title   string
	HTMLURL string
	User    User
	Labels  []Label
}
