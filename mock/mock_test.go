package mock_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/adamani-ai/rag"
	"github.com/adamani-ai/rag/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService(t *testing.T) {
	t.Parallel()
	t.Run("delegates to SubmitDocumentFn", func(t *testing.T) {
		t.Parallel()
		s := mock.DocumentService{
			SubmitDocumentFn: func(ctx context.Context, doc rag.DocumentUpload) (string, error) {
				assert.Equal(t, "a.pdf", doc.Filename)
				return "job-1", nil
			},
		}
		id, err := s.SubmitDocument(context.Background(), rag.DocumentUpload{Filename: "a.pdf"})
		require.NoError(t, err)
		assert.Equal(t, "job-1", id)
	})

	t.Run("delegates to DocumentStatusFn", func(t *testing.T) {
		t.Parallel()
		s := mock.DocumentService{
			DocumentStatusFn: func(ctx context.Context, jobID string) (rag.Snapshot, error) {
				return rag.Processing{}, nil
			},
		}
		snap, err := s.DocumentStatus(context.Background(), "job-1")
		require.NoError(t, err)
		assert.Equal(t, rag.Processing{}, snap)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("clear failed")
		s := mock.DocumentService{
			ClearKnowledgeBaseFn: func(ctx context.Context) error { return wantErr },
		}
		assert.ErrorIs(t, s.ClearKnowledgeBase(context.Background()), wantErr)
	})

	t.Run("panics when AddTextsFn not set", func(t *testing.T) {
		t.Parallel()
		s := mock.DocumentService{}
		assert.Panics(t, func() {
			_, _ = s.AddTexts(context.Background(), nil)
		})
	})
}

func TestChatService(t *testing.T) {
	t.Parallel()
	t.Run("delegates to StreamQueryFn", func(t *testing.T) {
		t.Parallel()
		var st mock.Stream
		s := mock.ChatService{
			StreamQueryFn: func(ctx context.Context, q rag.Query) (rag.Stream, error) {
				return &st, nil
			},
		}
		got, err := s.StreamQuery(context.Background(), rag.Query{Question: "q"})
		require.NoError(t, err)
		assert.Equal(t, &st, got)
	})

	t.Run("delegates to ForgetSessionFn", func(t *testing.T) {
		t.Parallel()
		var got string
		s := mock.ChatService{
			ForgetSessionFn: func(ctx context.Context, sessionID string) error {
				got = sessionID
				return nil
			},
		}
		require.NoError(t, s.ForgetSession(context.Background(), "s1"))
		assert.Equal(t, "s1", got)
	})

	t.Run("delegates to ForgetAllSessionsFn", func(t *testing.T) {
		t.Parallel()
		s := mock.ChatService{
			ForgetAllSessionsFn: func(ctx context.Context) (string, error) {
				return "Cleared 2 session histories", nil
			},
		}
		msg, err := s.ForgetAllSessions(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Cleared 2 session histories", msg)
	})

	t.Run("panics when SubmitQueryFn not set", func(t *testing.T) {
		t.Parallel()
		s := mock.ChatService{}
		assert.Panics(t, func() {
			_, _ = s.SubmitQuery(context.Background(), rag.Query{})
		})
	})
}

func TestInvoiceService(t *testing.T) {
	t.Parallel()
	s := mock.InvoiceService{
		ListInvoicesFn: func(ctx context.Context, page rag.InvoicePage) ([]rag.Invoice, error) {
			assert.Equal(t, rag.InvoicePage{Skip: 10, Limit: 5}, page)
			return []rag.Invoice{{ID: "inv-1"}}, nil
		},
	}
	got, err := s.ListInvoices(context.Background(), rag.InvoicePage{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []rag.Invoice{{ID: "inv-1"}}, got)
}

func TestStream(t *testing.T) {
	t.Parallel()
	t.Run("panics when NextFn not set", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{}
		assert.Panics(t, func() {
			_, _ = s.Next()
		})
	})

	t.Run("Close is nil-safe", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{}
		assert.NoError(t, s.Close())
	})

	t.Run("Events yields in order then EOF", func(t *testing.T) {
		t.Parallel()
		s := mock.Events(nil, rag.EventToken{Token: "a"}, rag.EventEnd{})
		evt, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, rag.EventToken{Token: "a"}, evt)
		evt, err = s.Next()
		require.NoError(t, err)
		assert.Equal(t, rag.EventEnd{}, evt)
		_, err = s.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("Events ends with error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("reset")
		s := mock.Events(wantErr)
		_, err := s.Next()
		assert.ErrorIs(t, err, wantErr)
	})
}
