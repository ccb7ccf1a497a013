package bubbletea

import (
	"context"
	"time"
)

// SetRunningWithCancel puts the model in a running state with a cancel function.
func SetRunningWithCancel(m Model, cancel context.CancelFunc) Model {
	m.running = true
	m.cancel = cancel
	return m
}

// SetClock replaces the clock used to timestamp turns.
func SetClock(m Model, now func() time.Time) Model {
	m.now = now
	return m
}

// BlockFocus returns the index of the focused sources block.
func BlockFocus(m Model) int { return m.blockFocus }

// BlockCount returns the number of rendered blocks.
func BlockCount(m Model) int { return len(m.blocks) }
