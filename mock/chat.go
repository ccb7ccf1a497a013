package mock

import (
	"context"

	"github.com/adamani-ai/rag"
)

// Interface compliance check.
var _ rag.ChatService = (*ChatService)(nil)

// ChatService is a test double for rag.ChatService.
// Set the function fields for the methods you need.
type ChatService struct {
	StreamQueryFn       func(ctx context.Context, q rag.Query) (rag.Stream, error)
	SubmitQueryFn       func(ctx context.Context, q rag.Query) (string, error)
	QueryStatusFn       func(ctx context.Context, requestID string) (rag.Snapshot, error)
	ForgetSessionFn     func(ctx context.Context, sessionID string) error
	ForgetAllSessionsFn func(ctx context.Context) (string, error)
}

// StreamQuery delegates to StreamQueryFn.
func (s *ChatService) StreamQuery(ctx context.Context, q rag.Query) (rag.Stream, error) {
	return s.StreamQueryFn(ctx, q)
}

// SubmitQuery delegates to SubmitQueryFn.
func (s *ChatService) SubmitQuery(ctx context.Context, q rag.Query) (string, error) {
	return s.SubmitQueryFn(ctx, q)
}

// QueryStatus delegates to QueryStatusFn.
func (s *ChatService) QueryStatus(ctx context.Context, requestID string) (rag.Snapshot, error) {
	return s.QueryStatusFn(ctx, requestID)
}

// ForgetSession delegates to ForgetSessionFn.
func (s *ChatService) ForgetSession(ctx context.Context, sessionID string) error {
	return s.ForgetSessionFn(ctx, sessionID)
}

// ForgetAllSessions delegates to ForgetAllSessionsFn.
func (s *ChatService) ForgetAllSessions(ctx context.Context) (string, error) {
	return s.ForgetAllSessionsFn(ctx)
}
