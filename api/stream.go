package api

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/adamani-ai/rag"
)

// Interface compliance check.
var _ rag.Stream = (*stream)(nil)

// stream reads answer events from an event-stream response body.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  *slog.Logger
	done    bool
	closed  bool
	err     error
}

func newStream(body io.ReadCloser, logger *slog.Logger) *stream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64<<10), maxFrameSize)
	sc.Split(splitFrames)
	return &stream{body: body, scanner: sc, logger: logger}
}

// Next returns the next event. Malformed frames are logged and skipped.
func (s *stream) Next() (rag.Event, error) {
	switch {
	case s.done:
		return nil, io.EOF
	case s.err != nil:
		return nil, s.err
	case s.closed:
		return nil, rag.ErrStreamClosed
	}

	for s.scanner.Scan() {
		payload, ok := framePayload(s.scanner.Bytes())
		if !ok {
			continue
		}
		evt, err := decodeFrame(payload)
		if err != nil {
			s.logger.Warn("skipping malformed stream frame", "error", err)
			continue
		}
		if evt == nil {
			s.logger.Debug("ignoring unknown stream frame", "frame", payload)
			continue
		}
		switch evt.(type) {
		case rag.EventEnd, rag.EventError:
			s.done = true
		}
		return evt, nil
	}

	if err := s.scanner.Err(); err != nil {
		if s.closed {
			return nil, rag.ErrStreamClosed
		}
		s.err = &rag.StreamTransportError{Err: fmt.Errorf("api: read stream: %w", err)}
		return nil, s.err
	}
	s.done = true
	return nil, io.EOF
}

// Close releases the response body. It is safe to call more than once.
func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}
