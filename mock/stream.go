package mock

import (
	"io"

	"github.com/adamani-ai/rag"
)

// Interface compliance check.
var _ rag.Stream = (*Stream)(nil)

// Stream is a test double for rag.Stream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe because
// consumers always defer Close.
type Stream struct {
	NextFn  func() (rag.Event, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (rag.Event, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Events returns a Stream that yields events in order and then err. A nil
// err ends the stream with io.EOF, i.e. a silent closure.
func Events(err error, events ...rag.Event) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (rag.Event, error) {
			if i < len(events) {
				evt := events[i]
				i++
				return evt, nil
			}
			if err != nil {
				return nil, err
			}
			return nil, io.EOF
		},
	}
}
