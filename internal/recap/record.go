package recap

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// leadingTagPattern matches a bracketed ticket tag at the start of a title,
// e.g. "[WEB-123] Fix login".
var leadingTagPattern = regexp.MustCompile(`^\[[^\]]*\]\s*`)

// Summarizer produces a one-line attributed summary from free text.
type Summarizer interface {
	Summarize(ctx context.Context, text, attribution string) (string, error)
}

// PullRequest is the value built by the Aggregator and consumed by the
// renderers.
type PullRequest struct {
	Number            int
	Title             string
	Author            string // login
	AuthorDisplayName string // first name when resolvable, else login
	URL               string
	MergedAt          *time.Time
	Description       string
	// SupplementaryDetails holds the body of the tracked bot's comment on
	// this PR; empty when no such comment exists.
	SupplementaryDetails string

	summarized bool
	summary    string
}

// DisplayTitle returns the title with the first leading bracketed tag and
// any following whitespace removed. The stored title is never mutated.
func (pr *PullRequest) DisplayTitle() string {
	return leadingTagPattern.ReplaceAllString(pr.Title, "")
}

// Summary returns the computed summary, or "" when none was computed.
func (pr *PullRequest) Summary() string {
	return pr.summary
}

// Summarize computes the record's summary at most once. Repeated calls
// return the memoized value without invoking the generator again, even
// when the first attempt failed. With no description and no supplementary
// details there is nothing to summarize and the generator is never called.
func (pr *PullRequest) Summarize(ctx context.Context, gen Summarizer) (string, error) {
	if pr.summarized {
		return pr.summary, nil
	}
	pr.summarized = true

	input := pr.summaryInput()
	if input == "" {
		return "", nil
	}

	text, err := gen.Summarize(ctx, input, pr.AuthorDisplayName)
	if err != nil {
		return "", err
	}
	pr.summary = strings.TrimSpace(text)
	return pr.summary, nil
}

// summaryInput combines the PR description and the bot-provided details,
// skipping whichever is empty.
func (pr *PullRequest) summaryInput() string {
	var parts []string
	if pr.Description != "" {
		parts = append(parts, pr.Description)
	}
	if pr.SupplementaryDetails != "" {
		parts = append(parts, pr.SupplementaryDetails)
	}
	return strings.Join(parts, "\n\n")
}
