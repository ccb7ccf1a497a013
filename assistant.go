package rag

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Assistant orchestrates document ingestion and question answering on top
// of a DocumentService and a ChatService.
type Assistant struct {
	documents DocumentService
	chat      ChatService
	cfg       assistantConfig
}

// Option configures an Assistant.
type Option func(*assistantConfig)

type assistantConfig struct {
	ingestPolicy PollPolicy
	queryPolicy  PollPolicy
	streaming    bool
	logger       *slog.Logger
	observe      func(Attempt)
	newSessionID func() string
}

// WithIngestPolicy sets the poll budget for ingestion jobs.
func WithIngestPolicy(p PollPolicy) Option {
	return func(c *assistantConfig) { c.ingestPolicy = p }
}

// WithQueryPolicy sets the poll budget for polled query jobs.
func WithQueryPolicy(p PollPolicy) Option {
	return func(c *assistantConfig) { c.queryPolicy = p }
}

// WithStreaming selects the streaming path for Ask. Enabled by default.
// When disabled, Ask always submits and polls.
func WithStreaming(enabled bool) Option {
	return func(c *assistantConfig) { c.streaming = enabled }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *assistantConfig) { c.logger = l }
}

// WithPollObserver sets a callback invoked after every status lookup of
// both ingestion and polled query jobs.
func WithPollObserver(fn func(Attempt)) Option {
	return func(c *assistantConfig) { c.observe = fn }
}

// NewAssistant creates an Assistant with the default poll budgets and
// streaming enabled.
func NewAssistant(documents DocumentService, chat ChatService, opts ...Option) *Assistant {
	cfg := assistantConfig{
		ingestPolicy: DefaultIngestPolicy,
		queryPolicy:  DefaultQueryPolicy,
		streaming:    true,
		logger:       slog.Default(),
		newSessionID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Assistant{documents: documents, chat: chat, cfg: cfg}
}

// Ingest uploads a document and waits for the ingestion job to finish.
func (a *Assistant) Ingest(ctx context.Context, doc DocumentUpload) (IngestResult, error) {
	if err := doc.Validate(); err != nil {
		return IngestResult{}, err
	}
	jobID, err := a.documents.SubmitDocument(ctx, doc)
	if err != nil {
		return IngestResult{}, err
	}
	a.cfg.logger.Info("document submitted", "job_id", jobID, "filename", doc.Filename, "ocr", doc.UseOCR)
	return Await[IngestResult](ctx, jobID, a.documents.DocumentStatus, a.cfg.ingestPolicy, a.awaitOptions()...)
}

// Ask answers a question. Events are forwarded to onEvent as they arrive;
// onEvent may be nil.
//
// The streaming endpoint is preferred. When streaming is disabled or the
// backend reports ErrStreamingUnsupported, the query is submitted and
// polled instead, and the result is replayed as EventToken, EventSources and
// EventEnd so callers observe the same event shape on both paths.
//
// An empty SessionID is replaced with a fresh one, returned in the Answer.
// On a stream failure the partial answer received so far is returned
// alongside the error.
func (a *Assistant) Ask(ctx context.Context, q Query, onEvent func(Event)) (Answer, error) {
	if err := q.Validate(); err != nil {
		return Answer{}, err
	}
	if q.SessionID == "" {
		q.SessionID = a.cfg.newSessionID()
	}
	emit := func(e Event) {
		if onEvent != nil {
			onEvent(e)
		}
	}

	if a.cfg.streaming {
		ans, err := a.askStream(ctx, q, emit)
		if !errors.Is(err, ErrStreamingUnsupported) {
			return ans, err
		}
		a.cfg.logger.Info("streaming unsupported, falling back to polling", "session_id", q.SessionID)
	}
	return a.askPoll(ctx, q, emit)
}

func (a *Assistant) askStream(ctx context.Context, q Query, emit func(Event)) (Answer, error) {
	s, err := a.chat.StreamQuery(ctx, q)
	if err != nil {
		return Answer{}, transportError(err)
	}
	defer s.Close()

	var (
		text   strings.Builder
		ans    = Answer{SessionID: q.SessionID}
		result error
	)
	Drain(s, Handlers{
		OnToken: func(t string) {
			text.WriteString(t)
			emit(EventToken{Token: t})
		},
		OnSources: func(src []Source) {
			ans.Sources = src
			emit(EventSources{Sources: src})
		},
		OnComplete: func() {
			emit(EventEnd{})
		},
		OnError: func(err error) {
			result = err
			var je *JobError
			if errors.As(err, &je) {
				emit(EventError{Message: je.Message})
			}
		},
	}, WithConsumeLogger(a.cfg.logger))

	ans.Text = text.String()
	return ans, result
}

func (a *Assistant) askPoll(ctx context.Context, q Query, emit func(Event)) (Answer, error) {
	requestID, err := a.chat.SubmitQuery(ctx, q)
	if err != nil {
		return Answer{}, err
	}
	a.cfg.logger.Info("query submitted", "request_id", requestID, "session_id", q.SessionID)

	ans, err := Await[Answer](ctx, requestID, a.chat.QueryStatus, a.cfg.queryPolicy, a.awaitOptions()...)
	if err != nil {
		var je *JobError
		if errors.As(err, &je) {
			emit(EventError{Message: je.Message})
		}
		return Answer{}, err
	}
	if ans.SessionID == "" {
		ans.SessionID = q.SessionID
	}

	if ans.Text != "" {
		emit(EventToken{Token: ans.Text})
	}
	if len(ans.Sources) > 0 {
		emit(EventSources{Sources: ans.Sources})
	}
	emit(EventEnd{})
	return ans, nil
}

func (a *Assistant) awaitOptions() []AwaitOption {
	opts := []AwaitOption{WithAwaitLogger(a.cfg.logger)}
	if a.cfg.observe != nil {
		opts = append(opts, WithAttemptObserver(a.cfg.observe))
	}
	return opts
}
