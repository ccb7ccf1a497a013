package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/adamani-ai/rag"
)

// SubmitQuery submits q for background answering and returns the request id.
func (c *Client) SubmitQuery(ctx context.Context, q rag.Query) (string, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, chatPath, toQueryRequest(q))
	if err != nil {
		return "", &rag.SubmissionError{Message: "build request", Err: err}
	}
	return c.submit(req, func(a ackResponse) string { return a.RequestID })
}

// QueryStatus reports the state of a submitted query.
func (c *Client) QueryStatus(ctx context.Context, jobID string) (rag.Snapshot, error) {
	var env statusEnvelope
	if err := c.getStatus(ctx, chatStatusPath+url.PathEscape(jobID), jobID, &env); err != nil {
		return nil, err
	}
	return env.querySnapshot()
}

// StreamQuery opens the token stream for q. A backend without a streaming
// endpoint (404, 405 or 501) yields an error wrapping
// rag.ErrStreamingUnsupported. Any other failure to open is a
// *rag.StreamTransportError.
func (c *Client) StreamQuery(ctx context.Context, q rag.Query) (rag.Stream, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, chatStreamPath, toQueryRequest(q))
	if err != nil {
		return nil, &rag.StreamTransportError{Err: fmt.Errorf("api: %w", err)}
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &rag.StreamTransportError{Err: fmt.Errorf("api: %w", err)}
	}

	if !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		msg := errorMessage(resp)
		switch resp.StatusCode {
		case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
			return nil, &rag.StreamTransportError{
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("%w: %s", rag.ErrStreamingUnsupported, msg),
			}
		default:
			return nil, &rag.StreamTransportError{StatusCode: resp.StatusCode, Err: errors.New(msg)}
		}
	}

	return newStream(resp.Body, c.logger), nil
}

// ForgetSession clears the server-side memory of a conversation.
func (c *Client) ForgetSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is empty", rag.ErrValidation)
	}
	req, err := c.newRequest(ctx, http.MethodDelete, chatMemoryPath+url.PathEscape(sessionID), nil, "")
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return c.doSimple(req)
}

// ForgetAllSessions clears the server-side memory of every conversation.
func (c *Client) ForgetAllSessions(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, allMemoryPath, nil, "")
	if err != nil {
		return "", fmt.Errorf("api: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return "", fmt.Errorf("api: HTTP %d: %s", resp.StatusCode, errorMessage(resp))
	}

	var ack ackResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", fmt.Errorf("api: decode memory response: %w", err)
	}
	return ack.Message, nil
}

func toQueryRequest(q rag.Query) queryRequest {
	return queryRequest{Question: q.Question, SessionID: q.SessionID, K: q.TopK()}
}
