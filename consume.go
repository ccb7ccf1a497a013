package rag

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// Handlers receives the events of one streamed query. Any field may be nil.
//
// OnToken fires zero or more times and OnSources at most once, both before
// the terminal handler. Exactly one of OnComplete or OnError fires, once.
type Handlers struct {
	OnToken    func(token string)
	OnSources  func(sources []Source)
	OnComplete func()
	OnError    func(err error)
}

func (h Handlers) token(t string) {
	if h.OnToken != nil {
		h.OnToken(t)
	}
}

func (h Handlers) sources(s []Source) {
	if h.OnSources != nil {
		h.OnSources(s)
	}
}

func (h Handlers) complete() {
	if h.OnComplete != nil {
		h.OnComplete()
	}
}

func (h Handlers) fail(err error) {
	if h.OnError != nil {
		h.OnError(err)
	}
}

// ConsumeOption configures a single Consume or Drain invocation.
type ConsumeOption func(*consumeConfig)

type consumeConfig struct {
	logger *slog.Logger
}

// WithConsumeLogger sets the logger for dropped events.
func WithConsumeLogger(l *slog.Logger) ConsumeOption {
	return func(c *consumeConfig) { c.logger = l }
}

// Consume opens the token stream for q and dispatches its events to h.
// Completion is signaled only through h; Consume returns once the terminal
// handler has fired. Failing to open the stream fires OnError with a
// *StreamTransportError.
func Consume(ctx context.Context, opener StreamOpener, q Query, h Handlers, opts ...ConsumeOption) {
	s, err := opener.StreamQuery(ctx, q)
	if err != nil {
		h.fail(transportError(err))
		return
	}
	defer s.Close()
	Drain(s, h, opts...)
}

// Drain dispatches every event of an already open stream to h.
//
// EventEnd, or the channel closing without a terminal frame, fires
// OnComplete. EventError fires OnError with a *JobError. A read failure
// fires OnError with a *StreamTransportError. A second sources event is
// dropped.
func Drain(s Stream, h Handlers, opts ...ConsumeOption) {
	cfg := consumeConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	sourcesSeen := false
	for {
		evt, err := s.Next()
		if err == io.EOF {
			h.complete()
			return
		}
		if err != nil {
			h.fail(transportError(err))
			return
		}

		switch e := evt.(type) {
		case EventToken:
			h.token(e.Token)
		case EventSources:
			if sourcesSeen {
				cfg.logger.Warn("dropping duplicate sources event", "count", len(e.Sources))
				continue
			}
			sourcesSeen = true
			h.sources(e.Sources)
		case EventEnd:
			h.complete()
			return
		case EventError:
			h.fail(&JobError{Message: e.Message})
			return
		}
	}
}

func transportError(err error) error {
	var te *StreamTransportError
	if errors.As(err, &te) {
		return err
	}
	return &StreamTransportError{Err: err}
}
