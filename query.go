package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultTopK is the number of supporting excerpts retrieved per question
// when Query.K is zero.
const DefaultTopK = 3

// Query is one conversational question.
type Query struct {
	Question  string
	SessionID string // server-side conversation memory key
	K         int    // 0 = DefaultTopK
}

// Validate checks universal constraints on Query.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question is required: %w", ErrValidation)
	}
	if q.K < 0 {
		return fmt.Errorf("k must be non-negative, got %d: %w", q.K, ErrValidation)
	}
	return nil
}

// TopK returns K, or DefaultTopK when K is zero.
func (q Query) TopK() int {
	if q.K == 0 {
		return DefaultTopK
	}
	return q.K
}

// Source is one retrieved excerpt supporting an answer.
type Source struct {
	Content  string
	Metadata map[string]any
}

// Label names the excerpt's origin from its "source" and "page" metadata,
// or returns fallback when the metadata has no source.
func (s Source) Label(fallback string) string {
	label := fallback
	if name, ok := s.Metadata["source"].(string); ok && name != "" {
		label = filepath.Base(name)
	}
	if page, ok := s.Metadata["page"]; ok && page != nil {
		label += fmt.Sprintf(" (page %v)", page)
	}
	return label
}

// Answer is the terminal result of a query job, whether it was streamed or
// polled.
type Answer struct {
	Text      string
	Sources   []Source
	SessionID string
}

// StreamOpener opens the token stream for a query.
type StreamOpener interface {
	StreamQuery(ctx context.Context, q Query) (Stream, error)
}

// ChatService submits and observes query jobs.
type ChatService interface {
	StreamOpener
	// SubmitQuery starts a polled query job and returns its request id.
	SubmitQuery(ctx context.Context, q Query) (string, error)
	// QueryStatus returns a snapshot of the job; Succeeded carries an Answer.
	// A job with no record yields an error wrapping ErrNotFound.
	QueryStatus(ctx context.Context, requestID string) (Snapshot, error)
	// ForgetSession clears the server-side memory of a conversation.
	ForgetSession(ctx context.Context, sessionID string) error
	// ForgetAllSessions clears the server-side memory of every conversation
	// and returns the server's confirmation message.
	ForgetAllSessions(ctx context.Context) (string, error)
}
