package rag

// Event is a sealed interface representing one decoded stream frame.
// Events are purely semantic. Transport errors come from Stream.Next's
// error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventToken is a text fragment to append to the growing answer.
type EventToken struct {
	Token string
}

func (EventToken) event() {}

// EventSources carries the complete ordered list of supporting excerpts.
type EventSources struct {
	Sources []Source
}

func (EventSources) event() {}

// EventEnd signals terminal success. It is the last event of a stream.
type EventEnd struct{}

func (EventEnd) event() {}

// EventError signals terminal failure with the server's diagnostic.
// It is the last event of a stream.
type EventError struct {
	Message string
}

func (EventError) event() {}

// Interface compliance checks.
var (
	_ Event = EventToken{}
	_ Event = EventSources{}
	_ Event = EventEnd{}
	_ Event = EventError{}
)
