// Package goldmark renders answers to ANSI-styled terminal output using
// goldmark for parsing and lipgloss for styling.
package goldmark

import (
	"fmt"
	"strings"

	"github.com/adamani-ai/rag"
	"github.com/rivo/uniseg"
)

const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, quotes and list items are word-wrapped to width. Code blocks
// are rendered without reflow.
func Render(source string, width int, theme rag.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return newRenderer(theme).render([]byte(Sanitize(source)), width)
}

// RenderAnswer renders the answer text followed by a numbered list of its
// sources. Each source shows its label and, when excerpt is positive, up to
// excerpt characters of its content as a quote.
func RenderAnswer(ans rag.Answer, width int, theme rag.Theme, excerpt int) string {
	if width <= 0 {
		width = defaultWidth
	}
	r := newRenderer(theme)
	var b strings.Builder
	if ans.Text != "" {
		b.WriteString(r.render([]byte(Sanitize(ans.Text)), width))
	}
	if len(ans.Sources) == 0 {
		return b.String()
	}
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
	b.WriteString(r.accent.Render("Sources"))
	for i, src := range ans.Sources {
		b.WriteString("\n")
		b.WriteString(r.source.Render(fmt.Sprintf("[%d] %s", i+1, Sanitize(src.Label("excerpt")))))
		if excerpt > 0 && src.Content != "" {
			b.WriteString("\n")
			b.WriteString(r.quote(Excerpt(src.Content, excerpt), width))
		}
	}
	return b.String()
}

// Excerpt collapses whitespace in s and truncates it to n grapheme
// clusters, marking a cut with an ellipsis.
func Excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(Sanitize(s)), " ")
	if uniseg.GraphemeClusterCount(s) <= n {
		return s
	}
	var (
		b       strings.Builder
		cluster string
		state   = -1
	)
	rest := s
	for i := 0; i < n && rest != ""; i++ {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		b.WriteString(cluster)
	}
	return strings.TrimRight(b.String(), " ") + "…"
}
