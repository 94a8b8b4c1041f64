// Package render projects PullRequest records into the output formats:
// Markdown, Slack message blocks, and an RTF document. All three display
// the cleaned title (leading bracketed tag stripped).
package render

import (
	"fmt"
	"strings"

	"github.com/drewdunne/recap/internal/recap"
)

// Markdown renders each record as a "[title](url)" line, followed by the
// summary when present. Entries are joined by one blank line.
func Markdown(prs []*recap.PullRequest) string {
	entries := make([]string, len(prs))
	for i, pr := range prs {
		entry := fmt.Sprintf("[%s](%s)", pr.DisplayTitle(), pr.URL)
		if s := pr.Summary(); s != "" {
			entry += "\n" + s
		}
		entries[i] = entry
	}
	return strings.Join(entries, "\n\n")
}
