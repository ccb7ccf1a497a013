package bubbletea_test

import (
	"context"
	"testing"

	"github.com/adamani-ai/rag"
	bt "github.com/adamani-ai/rag/bubbletea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, ask bt.AskFunc, opts ...bt.ModelOption) bt.Model {
	t.Helper()
	return initModelWithSession(t, ask, &rag.Session{}, 80, 24, opts...)
}

func initModelWithSession(t *testing.T, ask bt.AskFunc, session *rag.Session, width, height int, opts ...bt.ModelOption) bt.Model {
	t.Helper()
	m := bt.New(ask, session, rag.DefaultTheme(), opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// typeInput types a string into the model one rune at a time.
func typeInput(t *testing.T, m bt.Model, s string) bt.Model {
	t.Helper()
	for _, r := range s {
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// nopAsk answers every question with an empty answer.
func nopAsk(_ context.Context, q rag.Query, _ func(rag.Event)) (rag.Answer, error) {
	return rag.Answer{SessionID: q.SessionID}, nil
}
