package recap

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/drewdunne/recap/internal/provider"
)

// DefaultBotLogin is the integration bot whose comments carry the
// supplementary detail text.
const DefaultBotLogin = "linear[bot]"

// Aggregator collects merged pull requests for one repository and enriches
// them into PullRequest records.
type Aggregator struct {
	provider provider.Provider
	owner    string
	repo     string
	botLogin string
	now      func() time.Time
}

// Option configures the Aggregator.
type Option func(*Aggregator)

// WithBotLogin overrides the bot whose comment supplies supplementary
// details.
func WithBotLogin(login string) Option {
	return func(a *Aggregator) {
		if login != "" {
			a.botLogin = login
		}
	}
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator creates an Aggregator for owner/repo.
func NewAggregator(p provider.Provider, owner, repo string, opts ...Option) *Aggregator {
	a := &Aggregator{
		provider: p,
		owner:    owner,
		repo:     repo,
		botLogin: DefaultBotLogin,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Collect returns the pull requests merged within the window, ascending by
// merge time. Records without a merge time sort last; ties break by PR
// number.
func (a *Aggregator) Collect(ctx context.Context, w Window) ([]*PullRequest, error) {
	now := a.now()
	since := w.Start(now)

	hits, err := a.provider.SearchMergedPullRequests(ctx, a.owner, a.repo, since)
	if err != nil {
		return nil, err
	}

	records := make([]*PullRequest, 0, len(hits))
	for _, hit := range hits {
		record, err := a.build(ctx, hit)
		if err != nil {
			return nil, fmt.Errorf("enriching PR #%d: %w", hit.Number, err)
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		ti, tj := mergedAtOrNow(records[i], now), mergedAtOrNow(records[j], now)
		if ti.Equal(tj) {
			return records[i].Number < records[j].Number
		}
		return ti.Before(tj)
	})

	return records, nil
}

// build fetches the PR body, resolves the author display name, and picks
// the bot comment for one search hit.
func (a *Aggregator) build(ctx context.Context, hit provider.PullRequest) (*PullRequest, error) {
	detail, err := a.provider.GetPullRequest(ctx, a.owner, a.repo, hit.Number)
	if err != nil {
		return nil, err
	}

	displayName, err := a.resolveDisplayName(ctx, hit.Author)
	if err != nil {
		return nil, err
	}

	details, err := a.supplementaryDetails(ctx, hit.Number)
	if err != nil {
		return nil, err
	}

	mergedAt := detail.MergedAt
	if mergedAt == nil {
		mergedAt = hit.MergedAt
	}

	return &PullRequest{
		Number:               hit.Number,
		Title:                hit.Title,
		Author:               hit.Author.Login,
		AuthorDisplayName:    displayName,
		URL:                  hit.URL,
		MergedAt:             mergedAt,
		Description:          detail.Body,
		SupplementaryDetails: details,
	}, nil
}

// resolveDisplayName returns the author's first name when the profile has
// one, falling back to the login. Bot accounts keep their login verbatim.
// Taking the token before the first space is a known limitation.
func (a *Aggregator) resolveDisplayName(ctx context.Context, author provider.User) (string, error) {
	if author.Type == provider.TypeBot {
		return author.Login, nil
	}

	u, err := a.provider.GetUser(ctx, author.Login)
	if err != nil {
		return "", err
	}

	name := u.Name
	if name == "" {
		return author.Login, nil
	}
	if i := strings.Index(name, " "); i >= 0 {
		name = name[:i]
	}
	return name, nil
}

// supplementaryDetails returns the body of the first comment authored by
// the tracked bot, or "" when there is none.
func (a *Aggregator) supplementaryDetails(ctx context.Context, number int) (string, error) {
	comments, err := a.provider.GetComments(ctx, a.owner, a.repo, number)
	if err != nil {
		return "", err
	}

	for _, c := range comments {
		if c.Author.Login == a.botLogin && c.Author.Type == provider.TypeBot {
			return c.Body, nil
		}
	}
	return "", nil
}

func mergedAtOrNow(pr *PullRequest, now time.Time) time.Time {
	if pr.MergedAt == nil {
		return now
	}
	return *pr.MergedAt
}
