// Package rtf builds minimal RTF documents: one default font, a small
// color table, bold and underlined runs, and HYPERLINK fields. It covers
// exactly what the recap renderer needs and nothing more.
package rtf

import (
	"fmt"
	"strings"
)

// Document is an RTF document with a single default font.
type Document struct {
	font       string
	paragraphs []*Paragraph
}

// Paragraph is a sequence of styled runs ending in a paragraph break.
type Paragraph struct {
	runs []string
}

// NewDocument creates a document using font as the default for all text.
func NewDocument(font string) *Document {
	return &Document{font: font}
}

// AddParagraph appends an empty paragraph and returns it for chaining.
func (d *Document) AddParagraph() *Paragraph {
	p := &Paragraph{}
	d.paragraphs = append(d.paragraphs, p)
	return p
}

// Text appends a plain run.
func (p *Paragraph) Text(s string) *Paragraph {
	p.runs = append(p.runs, escape(s))
	return p
}

// Bold appends a bold run.
func (p *Paragraph) Bold(s string) *Paragraph {
	p.runs = append(p.runs, fmt.Sprintf(`{\b %s}`, escape(s)))
	return p
}

// Hyperlink appends a link field whose visible label is underlined and
// rendered in the document's link color.
func (p *Paragraph) Hyperlink(url, label string) *Paragraph {
	p.runs = append(p.runs, fmt.Sprintf(
		`{\field{\*\fldinst{HYPERLINK "%s"}}{\fldrslt{\ul\cf1 %s}}}`,
		escape(url), escape(label)))
	return p
}

// String serializes the document. Color index 1 is the link blue.
func (d *Document) String() string {
	var b strings.Builder
	b.WriteString(`{\rtf1\ansi\deff0` + "\n")
	b.WriteString(fmt.Sprintf(`{\fonttbl{\f0 %s;}}`+"\n", escape(d.font)))
	b.WriteString(`{\colortbl ;\red0\green0\blue238;}` + "\n")
	b.WriteString(`\f0\fs24` + "\n")
	for _, p := range d.paragraphs {
		for _, run := range p.runs {
			b.WriteString(run)
		}
		b.WriteString(`\par` + "\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// escape protects RTF control characters and encodes non-ASCII runes as
// \uN escapes.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\line `)
		case r > 127:
			b.WriteString(fmt.Sprintf(`\u%d?`, int16(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
