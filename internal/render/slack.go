package render

import (
	"fmt"
	"strings"

	"github.com/drewdunne/recap/internal/recap"
	"github.com/slack-go/slack"
)

// SlackBlocks renders the records as a Slack block list: one fixed
// "PR Details" header, then one section block per record with a
// Slack-flavored link and the summary on a following line.
func SlackBlocks(prs []*recap.PullRequest) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "PR Details", false, false)),
	}

	for _, pr := range prs {
		text := fmt.Sprintf("• <%s|%s>", pr.URL, pr.DisplayTitle())
		if s := pr.Summary(); s != "" {
			text += "\n" + s
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil))
	}

	return blocks
}

// FallbackText returns the plain-text form Slack shows in notifications
// when blocks cannot be rendered.
func FallbackText(prs []*recap.PullRequest) string {
	lines := make([]string, len(prs))
	for i, pr := range prs {
		lines[i] = fmt.Sprintf("• %s (%s)", pr.DisplayTitle(), pr.URL)
	}
	return strings.Join(lines, "\n")
}
