package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// MessageBlock is one rendered element of the transcript. The model owns
// layout, so View receives the available width.
type MessageBlock interface {
	Update(tea.Msg) (MessageBlock, tea.Cmd)
	View(width int) string
}

// collapsible blocks take Tab focus and respond to ToggleMsg.
type collapsible interface {
	MessageBlock
	Collapsed() bool
}

// ToggleMsg asks the focused block to expand or collapse.
type ToggleMsg struct{}

var _ collapsible = (*SourcesBlock)(nil)
