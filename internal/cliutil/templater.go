package cliutil

import "strings"

// Templater renders a natural-language prompt from a task, for handing
// off to an external agent. Out of core scope; declared as a seam.
type Templater interface {
	Render(title, description string) string
}

// PlainTemplater concatenates title and description with no further
// formatting, sufficient to exercise the seam.
type PlainTemplater struct{}

func (PlainTemplater) Render(title, description string) string {
	var b strings.Builder
	b.WriteString(title)
	if description != "" {
		b.WriteString("\n\n")
		b.WriteString(description)
	}
	return b.String()
}
