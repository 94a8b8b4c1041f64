package provider

import "time"

// Account types as reported by the provider.
const (
	TypeUser = "User"
	TypeBot  = "Bot"
)

// PullRequest represents a merged pull request/merge request.
type PullRequest struct {
	Number   int // PR number (GitHub) or MR IID (GitLab)
	Title    string
	Body     string
	Author   User
	URL      string
	MergedAt *time.Time // nil when the provider did not report one
}

// User represents a provider account.
type User struct {
	Login string
	Name  string
	Type  string // User, Bot
}

// Comment represents a comment on a pull request.
type Comment struct {
	Author User
	Body   string
}
