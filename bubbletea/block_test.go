package bubbletea_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/adamani-ai/rag"
	bt "github.com/adamani-ai/rag/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestQuestionBlock_View(t *testing.T) {
	t.Parallel()

	b := bt.NewQuestionBlock("How are documents chunked?", bt.NewStyles(rag.DefaultTheme()))
	view := b.View(80)

	assert.Contains(t, view, "›")
	assert.Contains(t, view, "How are documents chunked?")
}

func TestAnswerBlock(t *testing.T) {
	t.Parallel()

	b := bt.NewAnswerBlock(rag.DefaultTheme())
	b.Append("**Chunks** are ")
	b.Append("512 tokens.")

	assert.Equal(t, "**Chunks** are 512 tokens.", b.Text())
	view := b.View(80)
	assert.Contains(t, view, "Chunks")
	assert.NotContains(t, view, "**")
}

func TestSourcesBlock(t *testing.T) {
	t.Parallel()

	sources := []rag.Source{
		{Content: strings.Repeat("long excerpt ", 40), Metadata: map[string]any{"source": "a/b/manual.pdf", "page": 7}},
		{Content: ""},
	}

	t.Run("starts collapsed", func(t *testing.T) {
		t.Parallel()

		b := bt.NewSourcesBlock(sources, bt.NewStyles(rag.DefaultTheme()))
		assert.True(t, b.Collapsed())
		assert.Equal(t, "▶ Sources (2)", b.View(80))
	})

	t.Run("toggle expands with labels and truncated excerpts", func(t *testing.T) {
		t.Parallel()

		b := bt.NewSourcesBlock(sources, bt.NewStyles(rag.DefaultTheme()))
		_, _ = b.Update(bt.ToggleMsg{})

		assert.False(t, b.Collapsed())
		view := b.View(80)
		assert.Contains(t, view, "▼ Sources (2)")
		assert.Contains(t, view, "[1] manual.pdf (page 7)")
		assert.Contains(t, view, "[2] excerpt")
		assert.Contains(t, view, "…")
	})

	t.Run("toggle twice collapses", func(t *testing.T) {
		t.Parallel()

		b := bt.NewSourcesBlock(sources, bt.NewStyles(rag.DefaultTheme()))
		_, _ = b.Update(bt.ToggleMsg{})
		_, _ = b.Update(bt.ToggleMsg{})
		assert.True(t, b.Collapsed())
	})
}

func TestErrorBlock_View(t *testing.T) {
	t.Parallel()

	b := bt.NewErrorBlock(errors.New("query job q-1 failed: index missing"), bt.NewStyles(rag.DefaultTheme()))
	assert.Contains(t, b.View(80), "Error: query job q-1 failed: index missing")
}
