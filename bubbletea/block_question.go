package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*QuestionBlock)(nil)

// QuestionBlock renders a question asked by the user.
type QuestionBlock struct {
	text   string
	styles Styles
}

// NewQuestionBlock creates a QuestionBlock.
func NewQuestionBlock(text string, styles Styles) *QuestionBlock {
	return &QuestionBlock{text: text, styles: styles}
}

func (b *QuestionBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *QuestionBlock) View(width int) string {
	prompt := b.styles.Question.Render("›") + " "
	body := lipgloss.NewStyle().Width(max(width-2, 1)).Render(b.text)
	return lipgloss.JoinHorizontal(lipgloss.Top, prompt, b.styles.Question.Render(body))
}
