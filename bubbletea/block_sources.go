package bubbletea

import (
	"fmt"
	"strings"

	"github.com/adamani-ai/rag"
	"github.com/adamani-ai/rag/goldmark"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*SourcesBlock)(nil)

// excerptLen is the number of characters of each excerpt shown when
// expanded.
const excerptLen = 240

// SourcesBlock lists the excerpts supporting an answer with a collapsible
// toggle. It starts collapsed.
type SourcesBlock struct {
	sources   []rag.Source
	collapsed bool
	styles    Styles
}

// NewSourcesBlock creates a collapsed SourcesBlock.
func NewSourcesBlock(sources []rag.Source, styles Styles) *SourcesBlock {
	return &SourcesBlock{sources: sources, collapsed: true, styles: styles}
}

// Collapsed reports whether the excerpts are hidden.
func (b *SourcesBlock) Collapsed() bool { return b.collapsed }

func (b *SourcesBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *SourcesBlock) View(width int) string {
	indicator := "▶"
	if !b.collapsed {
		indicator = "▼"
	}
	header := b.styles.Source.Render(fmt.Sprintf("%s Sources (%d)", indicator, len(b.sources)))
	if b.collapsed {
		return header
	}

	wrap := lipgloss.NewStyle().Width(max(width-4, 10))
	var s strings.Builder
	s.WriteString(header)
	for i, src := range b.sources {
		s.WriteString("\n")
		s.WriteString(b.styles.Source.Render(fmt.Sprintf("  [%d] %s", i+1, goldmark.Sanitize(src.Label("excerpt")))))
		if src.Content == "" {
			continue
		}
		for _, line := range strings.Split(wrap.Render(goldmark.Excerpt(src.Content, excerptLen)), "\n") {
			s.WriteString("\n")
			s.WriteString(b.styles.Muted.Render("  │ " + line))
		}
	}
	return s.String()
}
