package model

// User is a GitHub account as shown next to repositories and issues.
type User struct {
	Login     string
	AvatarURL string
}

// RepositoryDetail is the repository metadata shown in the detail header.
// It is fetched on demand and never persisted.
type RepositoryDetail struct {
	FullName    string
	Name        string
	Description string
	Owner       User
}
