package render

import (
	"github.com/drewdunne/recap/internal/recap"
	"github.com/drewdunne/recap/internal/rtf"
)

// rtfFont is the single default font the whole document uses.
const rtfFont = "Helvetica"

// RTF renders the records as an RTF document: per record a paragraph with
// the bold title followed by the URL as a parenthesized hyperlink, an
// optional summary paragraph, and a blank spacer paragraph.
func RTF(prs []*recap.PullRequest) string {
	doc := rtf.NewDocument(rtfFont)

	for _, pr := range prs {
		p := doc.AddParagraph()
		p.Bold(pr.DisplayTitle())
		p.Text(" (")
		p.Hyperlink(pr.URL, pr.URL)
		p.Text(")")

		if s := pr.Summary(); s != "" {
			doc.AddParagraph().Text(s)
		}

		doc.AddParagraph()
	}

	return doc.String()
}
