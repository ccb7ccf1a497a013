package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adamani-ai/rag"
)

// SubmitDocument uploads doc as multipart form data and returns the
// ingestion job id from the acknowledgement.
func (c *Client) SubmitDocument(ctx context.Context, doc rag.DocumentUpload) (string, error) {
	body, contentType, err := multipartBody(doc)
	if err != nil {
		return "", &rag.SubmissionError{Message: "encode upload", Err: err}
	}
	q := url.Values{"use_ocr": {strconv.FormatBool(doc.UseOCR)}}
	req, err := c.newRequest(ctx, http.MethodPost, uploadPath+"?"+q.Encode(), body, contentType)
	if err != nil {
		return "", &rag.SubmissionError{Message: "build request", Err: err}
	}
	return c.submit(req, func(a ackResponse) string { return a.UploadID })
}

// DocumentStatus reports the state of an ingestion job.
func (c *Client) DocumentStatus(ctx context.Context, jobID string) (rag.Snapshot, error) {
	var env statusEnvelope
	if err := c.getStatus(ctx, documentStatusPath+url.PathEscape(jobID), jobID, &env); err != nil {
		return nil, err
	}
	return env.ingestSnapshot()
}

// AddTexts ingests raw texts synchronously.
func (c *Client) AddTexts(ctx context.Context, texts []rag.Text) (rag.IngestResult, error) {
	if len(texts) == 0 {
		return rag.IngestResult{}, fmt.Errorf("%w: no texts", rag.ErrValidation)
	}
	payload := textsRequest{Texts: make([]string, len(texts))}
	hasMeta := false
	for i, t := range texts {
		payload.Texts[i] = t.Content
		if t.Metadata != nil {
			hasMeta = true
		}
	}
	if hasMeta {
		payload.Metadatas = make([]map[string]any, len(texts))
		for i, t := range texts {
			payload.Metadatas[i] = t.Metadata
			if payload.Metadatas[i] == nil {
				payload.Metadatas[i] = map[string]any{}
			}
		}
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, textsPath, payload)
	if err != nil {
		return rag.IngestResult{}, fmt.Errorf("api: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return rag.IngestResult{}, fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return rag.IngestResult{}, fmt.Errorf("api: HTTP %d: %s", resp.StatusCode, errorMessage(resp))
	}

	var env statusEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return rag.IngestResult{}, fmt.Errorf("api: decode texts response: %w", err)
	}
	if rag.Status(env.Status) == rag.StatusError {
		return rag.IngestResult{}, &rag.JobError{Message: env.failure().Message}
	}
	return rag.IngestResult{
		DocumentsAdded: env.DocumentsAdded,
		ChunksCreated:  env.ChunksCreated,
		Message:        env.Message,
	}, nil
}

// ClearKnowledgeBase removes every ingested document.
func (c *Client) ClearKnowledgeBase(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodDelete, clearPath, nil, "")
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return c.doSimple(req)
}

// submit sends a job submission and validates its acknowledgement.
func (c *Client) submit(req *http.Request, jobID func(ackResponse) string) (string, error) {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &rag.SubmissionError{Message: "send request", Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", &rag.SubmissionError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}
	var ack ackResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", &rag.SubmissionError{StatusCode: resp.StatusCode, Message: "decode acknowledgement", Err: err}
	}
	return acceptAck(resp.StatusCode, ack.Status, jobID(ack), ack.Message)
}

func multipartBody(doc rag.DocumentUpload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", doc.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
