package api_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adamani-ai/rag"
	"github.com/adamani-ai/rag/api"
	"github.com/stretchr/testify/require"
)

// sseResponse is a helper to build event-stream responses for tests.
type sseResponse struct {
	frames []string
}

func (s sseResponse) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for _, f := range s.frames {
			fmt.Fprintf(w, "data: %s\n\n", f)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

func answerStreamResponse() sseResponse {
	return sseResponse{frames: []string{
		`{"type":"token","token":"Hello"}`,
		`{"type":"token","token":" world"}`,
		`{"type":"sources","sources":[{"content":"excerpt","metadata":{"source":"a.pdf","page":2}}]}`,
		`{"type":"end"}`,
	}}
}

func newTestClient(t *testing.T, h http.Handler, opts ...api.Option) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]api.Option{api.WithLogger(discardLogger())}, opts...)
	return api.New(srv.URL, opts...)
}

func collectEvents(t *testing.T, s rag.Stream) []rag.Event {
	t.Helper()
	var events []rag.Event
	for {
		evt, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		events = append(events, evt)
	}
	return events
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// chunkedBody delivers a body in fixed chunks, one per Read, then err.
type chunkedBody struct {
	chunks []string
	err    error
	closed bool
}

func (b *chunkedBody) Read(p []byte) (int, error) {
	if len(b.chunks) == 0 {
		if b.err != nil {
			return 0, b.err
		}
		return 0, io.EOF
	}
	n := copy(p, b.chunks[0])
	if n < len(b.chunks[0]) {
		b.chunks[0] = b.chunks[0][n:]
	} else {
		b.chunks = b.chunks[1:]
	}
	return n, nil
}

func (b *chunkedBody) Close() error {
	b.closed = true
	return nil
}

var errConnReset = errors.New("connection reset by peer")

func statusHandler(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}
}

func background() context.Context { return context.Background() }
