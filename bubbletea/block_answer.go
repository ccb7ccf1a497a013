package bubbletea

import (
	"strings"

	"github.com/adamani-ai/rag"
	"github.com/adamani-ai/rag/goldmark"
	tea "github.com/charmbracelet/bubbletea"
)

var _ MessageBlock = (*AnswerBlock)(nil)

// AnswerBlock renders answer text as markdown. Tokens are appended as they
// stream in.
type AnswerBlock struct {
	content strings.Builder
	theme   rag.Theme
}

// NewAnswerBlock creates an empty AnswerBlock.
func NewAnswerBlock(theme rag.Theme) *AnswerBlock {
	return &AnswerBlock{theme: theme}
}

// Append adds a token.
func (b *AnswerBlock) Append(token string) {
	b.content.WriteString(token)
}

// Text returns the accumulated answer text.
func (b *AnswerBlock) Text() string {
	return b.content.String()
}

func (b *AnswerBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AnswerBlock) View(width int) string {
	return goldmark.Render(b.content.String(), width, b.theme)
}
