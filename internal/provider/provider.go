package provider

import (
	"context"
	"errors"
	"time"
)

// ErrAuth indicates the provider rejected the configured credentials.
var ErrAuth = errors.New("authentication failed")

// ErrNotFound indicates the repository does not exist or is not visible
// with the configured credentials.
var ErrNotFound = errors.New("repository not found")

// Provider defines the interface for git provider operations.
type Provider interface {
	// Name returns the provider name (github, gitlab).
	Name() string

	// SearchMergedPullRequests returns pull requests merged at or after
	// since. Results come back in provider order; callers sort.
	SearchMergedPullRequests(ctx context.Context, owner, repo string, since time.Time) ([]PullRequest, error)

	// GetPullRequest fetches a pull request by number, including its body.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)

	// GetUser fetches a user profile by login.
	GetUser(ctx context.Context, login string) (*User, error)

	// GetComments fetches comments on a pull request in creation order.
	GetComments(ctx context.Context, owner, repo string, number int) ([]Comment, error)
}
