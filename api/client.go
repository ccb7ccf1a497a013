// Package api implements the rag services over the Adamani RAG HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adamani-ai/rag"
)

// Interface compliance checks.
var (
	_ rag.DocumentService = (*Client)(nil)
	_ rag.ChatService     = (*Client)(nil)
	_ rag.InvoiceService  = (*Client)(nil)
)

const (
	uploadPath         = "/documents/upload"
	documentStatusPath = "/documents/status/"
	textsPath          = "/documents/texts"
	clearPath          = "/documents/clear"
	chatPath           = "/chat/"
	chatStatusPath     = "/chat/status/"
	chatStreamPath     = "/chat/stream"
	chatMemoryPath     = "/chat/memory/"
	allMemoryPath      = "/chat/memory"
	invoicesPath       = "/invoices/"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Client talks to the RAG HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	header     http.Header
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. The client should not set an
// overall timeout: streamed answers have no upper bound on duration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithHeader sets headers attached to every request, typically the bearer
// credential. The header set is copied and otherwise treated as opaque.
func WithHeader(h http.Header) Option {
	return func(c *Client) { c.header = h.Clone() }
}

// WithLogger sets the logger used for skipped stream frames.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new [Client] for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		header:     http.Header{},
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, v any) (*http.Request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return c.newRequest(ctx, method, path, bytes.NewReader(body), "application/json")
}

// getStatus fetches a job status document into v. A 404 response, or a body
// reporting "not_found", yields an error wrapping rag.ErrNotFound.
func (c *Client) getStatus(ctx context.Context, path, jobID string, v *statusEnvelope) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("api: job %s: %w", jobID, rag.ErrNotFound)
	}
	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("api: HTTP %d: %s", resp.StatusCode, errorMessage(resp))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("api: decode status: %w", err)
	}
	if v.Status == statusNotFound {
		return fmt.Errorf("api: job %s: %w", jobID, rag.ErrNotFound)
	}
	return nil
}

// doSimple performs a request whose success body is irrelevant.
func (c *Client) doSimple(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("api: HTTP %d: %s", resp.StatusCode, errorMessage(resp))
	}
	return nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// errorMessage extracts a diagnostic from an error response. FastAPI
// answers with {"detail": ...}; the upload routes with {"message": ...}.
func errorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Sprintf("failed to read body: %v", err)
	}
	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		switch {
		case apiErr.Message != "":
			return apiErr.Message
		case apiErr.Detail != "":
			return apiErr.Detail
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return http.StatusText(resp.StatusCode)
}

// acceptAck checks a submission acknowledgement and returns the job id.
func acceptAck(code int, status, id, message string) (string, error) {
	if rag.Status(status) != rag.StatusProcessing {
		msg := fmt.Sprintf("unexpected acknowledgement status %q", status)
		if message != "" {
			msg += ": " + message
		}
		return "", &rag.SubmissionError{StatusCode: code, Message: msg}
	}
	if id == "" {
		return "", &rag.SubmissionError{StatusCode: code, Message: "acknowledgement has no job id"}
	}
	return id, nil
}
