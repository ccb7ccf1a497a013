package api_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adamani-ai/rag"
	"github.com/adamani-ai/rag/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func credentialHeader() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret-token")
	return h
}

func TestClient_SubmitDocument(t *testing.T) {
	t.Parallel()

	var (
		gotMethod, gotPath, gotOCR, gotAuth string
		gotName                             string
		gotData                             []byte
	)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotOCR = r.URL.Query().Get("use_ocr")
		gotAuth = r.Header.Get("Authorization")
		file, header, err := r.FormFile("file")
		if err == nil {
			gotName = header.Filename
			gotData, _ = io.ReadAll(file)
		}
		statusHandler(http.StatusOK, `{"status":"processing","upload_id":"abc123","message":"queued"}`)(w, r)
	}), api.WithHeader(credentialHeader()))

	id, err := client.SubmitDocument(background(), rag.DocumentUpload{
		Filename: "report.pdf",
		Data:     []byte("%PDF-1.7"),
		UseOCR:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/documents/upload", gotPath)
	assert.Equal(t, "true", gotOCR)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "report.pdf", gotName)
	assert.Equal(t, []byte("%PDF-1.7"), gotData)
}

func TestClient_SubmitDocumentRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		code       int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "http error with detail",
			code:       http.StatusBadRequest,
			body:       `{"detail":"Unsupported file format"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Unsupported file format",
		},
		{
			name:       "http error plain text",
			code:       http.StatusBadGateway,
			body:       "upstream down",
			wantStatus: http.StatusBadGateway,
			wantMsg:    "upstream down",
		},
		{
			name:       "ack not processing",
			code:       http.StatusOK,
			body:       `{"status":"error","message":"disk full"}`,
			wantStatus: http.StatusOK,
			wantMsg:    `unexpected acknowledgement status "error": disk full`,
		},
		{
			name:       "ack without id",
			code:       http.StatusOK,
			body:       `{"status":"processing"}`,
			wantStatus: http.StatusOK,
			wantMsg:    "acknowledgement has no job id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, statusHandler(tt.code, tt.body))

			_, err := client.SubmitDocument(background(), rag.DocumentUpload{Filename: "a.pdf", Data: []byte("x")})
			var se *rag.SubmissionError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantStatus, se.StatusCode)
			assert.Equal(t, tt.wantMsg, se.Message)
		})
	}
}

func TestClient_SubmitDocumentUnreachable(t *testing.T) {
	t.Parallel()

	client := api.New("http://127.0.0.1:1")
	_, err := client.SubmitDocument(background(), rag.DocumentUpload{Filename: "a.pdf", Data: []byte("x")})
	var se *rag.SubmissionError
	require.True(t, errors.As(err, &se))
	assert.Zero(t, se.StatusCode)
	assert.Error(t, se.Err)
}

func TestClient_DocumentStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		code      int
		body      string
		want      rag.Snapshot
		wantErrIs error
		wantErr   bool
	}{
		{name: "404", code: http.StatusNotFound, body: `{"status":"not_found"}`, wantErrIs: rag.ErrNotFound},
		{name: "not_found body", code: http.StatusOK, body: `{"status":"not_found"}`, wantErrIs: rag.ErrNotFound},
		{name: "processing", code: http.StatusOK, body: `{"status":"processing"}`, want: rag.Processing{}},
		{
			name: "success",
			code: http.StatusOK,
			body: `{"status":"success","documents_added":3,"chunks_created":12,"message":"done"}`,
			want: rag.Succeeded[rag.IngestResult]{
				Result:   rag.IngestResult{DocumentsAdded: 3, ChunksCreated: 12, Message: "done"},
				Terminal: rag.StatusSuccess,
			},
		},
		{name: "error", code: http.StatusOK, body: `{"status":"error","message":"corrupt pdf"}`, want: rag.Failed{Message: "corrupt pdf"}},
		{name: "unknown status", code: http.StatusOK, body: `{"status":"queued"}`, wantErr: true},
		{name: "server error", code: http.StatusInternalServerError, body: `{"detail":"boom"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var gotPath string
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				statusHandler(tt.code, tt.body)(w, r)
			}))

			snap, err := client.DocumentStatus(background(), "abc123")
			assert.Equal(t, "/documents/status/abc123", gotPath)
			switch {
			case tt.wantErrIs != nil:
				assert.ErrorIs(t, err, tt.wantErrIs)
			case tt.wantErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, rag.ErrNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, snap)
			}
		})
	}
}

func TestClient_SubmitQuery(t *testing.T) {
	t.Parallel()

	var body map[string]any
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		statusHandler(http.StatusOK, `{"status":"processing","request_id":"req-7"}`)(w, r)
	}))

	id, err := client.SubmitQuery(background(), rag.Query{Question: "What is RAG?", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "req-7", id)
	assert.Equal(t, "/chat/", gotPath)
	assert.Equal(t, map[string]any{"question": "What is RAG?", "session_id": "s1", "k": float64(3)}, body)
}

func TestClient_QueryStatusCompleted(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, statusHandler(http.StatusOK,
		`{"status":"completed","answer":"42","sources":[{"content":"c","metadata":{"source":"a.pdf"}}],"session_id":"s1"}`))

	snap, err := client.QueryStatus(background(), "req-7")
	require.NoError(t, err)
	assert.Equal(t, rag.Succeeded[rag.Answer]{
		Result: rag.Answer{
			Text:      "42",
			Sources:   []rag.Source{{Content: "c", Metadata: map[string]any{"source": "a.pdf"}}},
			SessionID: "s1",
		},
		Terminal: rag.StatusCompleted,
	}, snap)
	assert.Equal(t, rag.StatusCompleted, snap.Status())
}

func TestClient_StreamQuery(t *testing.T) {
	t.Parallel()

	var gotAccept string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		answerStreamResponse().handler()(w, r)
	}))

	s, err := client.StreamQuery(background(), rag.Query{Question: "hi"})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	events := collectEvents(t, s)
	assert.Equal(t, "text/event-stream", gotAccept)
	assert.Equal(t, []rag.Event{
		rag.EventToken{Token: "Hello"},
		rag.EventToken{Token: " world"},
		rag.EventSources{Sources: []rag.Source{
			{Content: "excerpt", Metadata: map[string]any{"source": "a.pdf", "page": float64(2)}},
		}},
		rag.EventEnd{},
	}, events)
}

func TestClient_StreamQueryOpenFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		code            int
		wantUnsupported bool
	}{
		{name: "not found", code: http.StatusNotFound, wantUnsupported: true},
		{name: "method not allowed", code: http.StatusMethodNotAllowed, wantUnsupported: true},
		{name: "not implemented", code: http.StatusNotImplemented, wantUnsupported: true},
		{name: "server error", code: http.StatusInternalServerError},
		{name: "unauthorized", code: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, statusHandler(tt.code, `{"detail":"nope"}`))

			_, err := client.StreamQuery(background(), rag.Query{Question: "hi"})
			var te *rag.StreamTransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.code, te.StatusCode)
			assert.Equal(t, tt.wantUnsupported, errors.Is(err, rag.ErrStreamingUnsupported))
		})
	}
}

func TestClient_AddTexts(t *testing.T) {
	t.Parallel()

	var body map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/texts", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&body)
		statusHandler(http.StatusOK, `{"status":"success","documents_added":2,"chunks_created":2}`)(w, r)
	}))

	res, err := client.AddTexts(background(), []rag.Text{
		{Content: "alpha", Metadata: map[string]any{"source": "notes"}},
		{Content: "beta"},
	})
	require.NoError(t, err)
	assert.Equal(t, rag.IngestResult{DocumentsAdded: 2, ChunksCreated: 2}, res)
	assert.Equal(t, []any{"alpha", "beta"}, body["texts"])
	assert.Equal(t, []any{map[string]any{"source": "notes"}, map[string]any{}}, body["metadatas"])
}

func TestClient_AddTextsEmpty(t *testing.T) {
	t.Parallel()

	client := api.New("http://unused")
	_, err := client.AddTexts(background(), nil)
	assert.ErrorIs(t, err, rag.ErrValidation)
}

func TestClient_DeleteEndpoints(t *testing.T) {
	t.Parallel()

	var calls []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.ClearKnowledgeBase(background()))
	require.NoError(t, client.ForgetSession(background(), "s1"))
	assert.Equal(t, []string{"DELETE /documents/clear", "DELETE /chat/memory/s1"}, calls)

	assert.ErrorIs(t, client.ForgetSession(background(), ""), rag.ErrValidation)
}

func TestClient_ForgetAllSessions(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		statusHandler(http.StatusOK, `{"status":"success","message":"Cleared 3 session histories"}`)(w, r)
	}))

	msg, err := client.ForgetAllSessions(background())
	require.NoError(t, err)
	assert.Equal(t, "Cleared 3 session histories", msg)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/chat/memory", gotPath)
}

func TestClient_ForgetAllSessionsHTTPError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, statusHandler(http.StatusInternalServerError, `{"detail":"memory backend down"}`))

	_, err := client.ForgetAllSessions(background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500: memory backend down")
}

func TestClient_DeleteHTTPError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, statusHandler(http.StatusForbidden, `{"detail":"forbidden"}`))

	err := client.ClearKnowledgeBase(background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403: forbidden")
}

func TestClient_IngestEndToEnd(t *testing.T) {
	t.Parallel()

	var lookups atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /documents/upload", statusHandler(http.StatusOK, `{"status":"processing","upload_id":"abc123"}`))
	mux.HandleFunc("GET /documents/status/abc123", func(w http.ResponseWriter, r *http.Request) {
		switch lookups.Add(1) {
		case 1:
			statusHandler(http.StatusNotFound, `{"status":"not_found"}`)(w, r)
		case 2:
			statusHandler(http.StatusOK, `{"status":"processing"}`)(w, r)
		default:
			statusHandler(http.StatusOK, `{"status":"success","documents_added":3,"chunks_created":12}`)(w, r)
		}
	})
	client := newTestClient(t, mux)
	assistant := rag.NewAssistant(client, client,
		rag.WithIngestPolicy(rag.PollPolicy{Interval: time.Millisecond, MaxAttempts: 5}),
		rag.WithLogger(discardLogger()),
	)

	res, err := assistant.Ingest(background(), rag.DocumentUpload{Filename: "doc.pdf", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, rag.IngestResult{DocumentsAdded: 3, ChunksCreated: 12}, res)
	assert.Equal(t, int32(3), lookups.Load())
}

func TestClient_AskFallsBackToPolling(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/{$}", statusHandler(http.StatusOK, `{"status":"processing","request_id":"r1"}`))
	mux.HandleFunc("GET /chat/status/r1", statusHandler(http.StatusOK,
		`{"status":"completed","answer":"polled","sources":[],"session_id":"s1"}`))
	client := newTestClient(t, mux)
	assistant := rag.NewAssistant(client, client,
		rag.WithQueryPolicy(rag.PollPolicy{Interval: time.Millisecond, MaxAttempts: 3}),
		rag.WithLogger(discardLogger()),
	)

	var events []rag.Event
	ans, err := assistant.Ask(background(), rag.Query{Question: "q", SessionID: "s1"}, func(e rag.Event) {
		events = append(events, e)
	})
	require.NoError(t, err)
	assert.Equal(t, "polled", ans.Text)
	assert.Equal(t, []rag.Event{rag.EventToken{Token: "polled"}, rag.EventEnd{}}, events)
}
