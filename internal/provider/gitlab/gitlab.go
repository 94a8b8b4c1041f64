package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/drewdunne/recap/internal/provider"
	"github.com/xanzy/go-gitlab"
)

// GitLabProvider implements provider.Provider for GitLab.
type GitLabProvider struct {
	client *gitlab.Client
	token  string
	// GitLab reports bot-ness on the user record, not on MR authors or
	// note authors, so account types are resolved lazily and cached for
	// the run.
	userTypes map[string]string
}

// Option configures the GitLab provider.
type Option func(*GitLabProvider)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(baseURL string) Option {
	return func(p *GitLabProvider) {
		p.client, _ = gitlab.NewClient(p.token, gitlab.WithBaseURL(baseURL+"/api/v4"))
	}
}

// New creates a new GitLab provider.
func New(token string, opts ...Option) *GitLabProvider {
	client, _ := gitlab.NewClient(token)
	p := &GitLabProvider{client: client, token: token, userTypes: make(map[string]string)}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the provider name.
func (p *GitLabProvider) Name() string {
	return "gitlab"
}

// projectPath encodes owner/repo for GitLab API.
func projectPath(owner, repo string) string {
	return url.PathEscape(owner + "/" + repo)
}

// SearchMergedPullRequests lists merge requests merged at or after since.
// GitLab has no merged_after filter, so the list is narrowed server-side by
// updated_after and filtered here on the actual merge instant.
func (p *GitLabProvider) SearchMergedPullRequests(ctx context.Context, owner, repo string, since time.Time) ([]provider.PullRequest, error) {
	state := "merged"
	opts := &gitlab.ListProjectMergeRequestsOptions{
		State:        &state,
		UpdatedAfter: &since,
		ListOptions:  gitlab.ListOptions{PerPage: 100},
	}

	var prs []provider.PullRequest
	for {
		mrs, resp, err := p.client.MergeRequests.ListProjectMergeRequests(projectPath(owner, repo), opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, classify(fmt.Errorf("listing merge requests: %w", err))
		}

		for _, mr := range mrs {
			if mr.MergedAt != nil && mr.MergedAt.Before(since) {
				continue
			}
			pr, err := p.toPullRequest(ctx, mr)
			if err != nil {
				return nil, err
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

// GetPullRequest fetches a merge request by IID.
func (p *GitLabProvider) GetPullRequest(ctx context.Context, owner, repo string, number int) (*provider.PullRequest, error) {
	mr, _, err := p.client.MergeRequests.GetMergeRequest(projectPath(owner, repo), number, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classify(fmt.Errorf("fetching merge request: %w", err))
	}

	pr, err := p.toPullRequest(ctx, mr)
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

// GetUser looks up a user profile by username.
func (p *GitLabProvider) GetUser(ctx context.Context, login string) (*provider.User, error) {
	users, _, err := p.client.Users.ListUsers(&gitlab.ListUsersOptions{
		Username: &login,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classify(fmt.Errorf("fetching user: %w", err))
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no user with username %q", login)
	}

	kind := accountType(users[0].Bot)
	p.userTypes[users[0].Username] = kind

	return &provider.User{
		Login: users[0].Username,
		Name:  users[0].Name,
		Type:  kind,
	}, nil
}

// GetComments fetches notes on a merge request.
func (p *GitLabProvider) GetComments(ctx context.Context, owner, repo string, number int) ([]provider.Comment, error) {
	notes, _, err := p.client.Notes.ListMergeRequestNotes(projectPath(owner, repo), number, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classify(fmt.Errorf("listing notes: %w", err))
	}

	result := make([]provider.Comment, len(notes))
	for i, n := range notes {
		kind, err := p.userType(ctx, n.Author.Username)
		if err != nil {
			return nil, err
		}
		result[i] = provider.Comment{
			Body: n.Body,
			Author: provider.User{
				Login: n.Author.Username,
				Name:  n.Author.Name,
				Type:  kind,
			},
		}
	}
	return result, nil
}

// userType resolves whether login belongs to a bot account. Note and MR
// payloads omit the bot flag, so the user record is the only place to read
// it; results are cached because the same authors recur across one run.
func (p *GitLabProvider) userType(ctx context.Context, login string) (string, error) {
	if kind, ok := p.userTypes[login]; ok {
		return kind, nil
	}

	users, _, err := p.client.Users.ListUsers(&gitlab.ListUsersOptions{
		Username: &login,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return "", classify(fmt.Errorf("resolving account type for %q: %w", login, err))
	}

	// Accounts the token cannot see (deleted, external) count as users.
	kind := provider.TypeUser
	if len(users) > 0 && users[0].Bot {
		kind = provider.TypeBot
	}
	p.userTypes[login] = kind
	return kind, nil
}

func (p *GitLabProvider) toPullRequest(ctx context.Context, mr *gitlab.MergeRequest) (provider.PullRequest, error) {
	pr := provider.PullRequest{
		Number:   mr.IID,
		Title:    mr.Title,
		Body:     mr.Description,
		URL:      mr.WebURL,
		MergedAt: mr.MergedAt,
	}
	if mr.Author != nil {
		kind, err := p.userType(ctx, mr.Author.Username)
		if err != nil {
			return provider.PullRequest{}, err
		}
		pr.Author = provider.User{
			Login: mr.Author.Username,
			Name:  mr.Author.Name,
			Type:  kind,
		}
	}
	return pr, nil
}

func accountType(bot bool) string {
	if bot {
		return provider.TypeBot
	}
	return provider.TypeUser
}

// classify maps GitLab API status codes onto the provider sentinel errors.
func classify(err error) error {
	var glErr *gitlab.ErrorResponse
	if errors.As(err, &glErr) && glErr.Response != nil {
		switch glErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", provider.ErrAuth, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", provider.ErrNotFound, err)
		}
	}
	return err
}
