package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/drewdunne/recap/internal/provider"
	"github.com/google/go-github/v60/github"
)

// GitHubProvider implements provider.Provider for GitHub.
type GitHubProvider struct {
	client *github.Client
	token  string
}

// Option configures the GitHub provider.
type Option func(*GitHubProvider)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(p *GitHubProvider) {
		p.client.BaseURL, _ = p.client.BaseURL.Parse(url + "/")
	}
}

// New creates a new GitHub provider.
func New(token string, opts ...Option) *GitHubProvider {
	httpClient := &http.Client{
		Transport: &tokenTransport{token: token},
	}
	client := github.NewClient(httpClient)

	p := &GitHubProvider{
		client: client,
		token:  token,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// tokenTransport adds authorization header to requests.
type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}

// Name returns the provider name.
func (p *GitHubProvider) Name() string {
	return "github"
}

// SearchMergedPullRequests queries the issue search API for pull requests
// merged at or after since.
func (p *GitHubProvider) SearchMergedPullRequests(ctx context.Context, owner, repo string, since time.Time) ([]provider.PullRequest, error) {
	query := fmt.Sprintf("repo:%s/%s is:pr is:merged merged:>=%s",
		owner, repo, since.UTC().Format(time.RFC3339))

	opts := &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var prs []provider.PullRequest
	for {
		result, resp, err := p.client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, classify(fmt.Errorf("searching pull requests: %w", err))
		}

		for _, issue := range result.Issues {
			pr := provider.PullRequest{
				Number: issue.GetNumber(),
				Title:  issue.GetTitle(),
				URL:    issue.GetHTMLURL(),
				Author: provider.User{
					Login: issue.GetUser().GetLogin(),
					Type:  issue.GetUser().GetType(),
				},
			}
			// The search API reports closed_at; for a merged PR that is the
			// merge instant.
			if issue.ClosedAt != nil {
				t := issue.ClosedAt.Time
				pr.MergedAt = &t
			}
			prs = append(prs, pr)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return prs, nil
}

// GetPullRequest fetches a pull request by number.
func (p *GitHubProvider) GetPullRequest(ctx context.Context, owner, repo string, number int) (*provider.PullRequest, error) {
	pr, _, err := p.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, classify(fmt.Errorf("fetching pull request: %w", err))
	}

	result := &provider.PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
		URL:    pr.GetHTMLURL(),
		Author: provider.User{
			Login: pr.GetUser().GetLogin(),
			Type:  pr.GetUser().GetType(),
		},
	}
	if pr.MergedAt != nil {
		t := pr.MergedAt.Time
		result.MergedAt = &t
	}
	return result, nil
}

// GetUser fetches a user profile by login.
func (p *GitHubProvider) GetUser(ctx context.Context, login string) (*provider.User, error) {
	u, _, err := p.client.Users.Get(ctx, login)
	if err != nil {
		return nil, classify(fmt.Errorf("fetching user: %w", err))
	}

	return &provider.User{
		Login: u.GetLogin(),
		Name:  u.GetName(),
		Type:  u.GetType(),
	}, nil
}

// GetComments fetches comments on a pull request.
func (p *GitHubProvider) GetComments(ctx context.Context, owner, repo string, number int) ([]provider.Comment, error) {
	comments, _, err := p.client.Issues.ListComments(ctx, owner, repo, number, nil)
	if err != nil {
		return nil, classify(fmt.Errorf("listing comments: %w", err))
	}

	result := make([]provider.Comment, len(comments))
	for i, c := range comments {
		result[i] = provider.Comment{
			Body: c.GetBody(),
			Author: provider.User{
				Login: c.GetUser().GetLogin(),
				Type:  c.GetUser().GetType(),
			},
		}
	}
	return result, nil
}

// classify maps GitHub API status codes onto the provider sentinel errors
// so the caller can report auth and not-found failures specifically.
func classify(err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", provider.ErrAuth, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", provider.ErrNotFound, err)
		}
	}
	return err
}
