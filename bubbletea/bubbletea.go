// Package bubbletea provides a Bubble Tea TUI for chatting with the knowledge
// base.
package bubbletea

import (
	"context"

	"github.com/adamani-ai/rag"
	tea "github.com/charmbracelet/bubbletea"
)

// AskFunc answers one question. The onEvent callback is called for each
// answer event. The function blocks until the answer completes or the
// context is cancelled. rag.Assistant.Ask satisfies it.
type AskFunc func(ctx context.Context, q rag.Query, onEvent func(rag.Event)) (rag.Answer, error)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. When ctx is cancelled, the program quits.
func Run(ctx context.Context, m Model) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	return m, err
}

// StreamEventMsg wraps an answer event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event rag.Event
}

// AnswerDoneMsg signals that the current question has been answered or has
// failed.
type AnswerDoneMsg struct {
	Answer rag.Answer
	Err    error
}
