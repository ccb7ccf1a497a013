package api

import (
	"fmt"

	"github.com/adamani-ai/rag"
)

const statusNotFound = "not_found"

// Wire types for the JSON bodies of the RAG API.

type errorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

type ackResponse struct {
	Status    string `json:"status"`
	UploadID  string `json:"upload_id"`
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}

type queryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
	K         int    `json:"k"`
}

type textsRequest struct {
	Texts     []string         `json:"texts"`
	Metadatas []map[string]any `json:"metadatas,omitempty"`
}

type invoiceDTO struct {
	ID            string  `json:"id"`
	VendorName    string  `json:"vendor_name"`
	InvoiceNumber string  `json:"invoice_number"`
	TotalAmount   float64 `json:"total_amount"`
	Currency      string  `json:"currency"`
	InvoiceDate   string  `json:"invoice_date"`
	DueDate       *string `json:"due_date"`
	Status        string  `json:"status"`
}

func (d invoiceDTO) invoice() rag.Invoice {
	inv := rag.Invoice{
		ID:            d.ID,
		VendorName:    d.VendorName,
		InvoiceNumber: d.InvoiceNumber,
		TotalAmount:   d.TotalAmount,
		Currency:      d.Currency,
		InvoiceDate:   d.InvoiceDate,
		Status:        rag.InvoiceStatus(d.Status),
	}
	if d.DueDate != nil {
		inv.DueDate = *d.DueDate
	}
	return inv
}

type sourceDTO struct {
	Content     string         `json:"content"`
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata"`
}

// statusEnvelope covers both job kinds; each kind reads its own fields.
type statusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`

	// Ingestion results.
	DocumentsAdded int `json:"documents_added"`
	ChunksCreated  int `json:"chunks_created"`

	// Query results.
	Answer    string      `json:"answer"`
	Sources   []sourceDTO `json:"sources"`
	SessionID string      `json:"session_id"`
}

func (e statusEnvelope) failure() rag.Failed {
	msg := e.Message
	if msg == "" {
		msg = "job failed without a message"
	}
	return rag.Failed{Message: msg}
}

func (e statusEnvelope) ingestSnapshot() (rag.Snapshot, error) {
	switch rag.Status(e.Status) {
	case rag.StatusProcessing:
		return rag.Processing{}, nil
	case rag.StatusSuccess, rag.StatusCompleted:
		return rag.Succeeded[rag.IngestResult]{
			Result: rag.IngestResult{
				DocumentsAdded: e.DocumentsAdded,
				ChunksCreated:  e.ChunksCreated,
				Message:        e.Message,
			},
			Terminal: rag.Status(e.Status),
		}, nil
	case rag.StatusError:
		return e.failure(), nil
	default:
		return nil, fmt.Errorf("api: unknown job status %q", e.Status)
	}
}

func (e statusEnvelope) querySnapshot() (rag.Snapshot, error) {
	switch rag.Status(e.Status) {
	case rag.StatusProcessing:
		return rag.Processing{}, nil
	case rag.StatusCompleted, rag.StatusSuccess:
		return rag.Succeeded[rag.Answer]{
			Result: rag.Answer{
				Text:      e.Answer,
				Sources:   toSources(e.Sources),
				SessionID: e.SessionID,
			},
			Terminal: rag.Status(e.Status),
		}, nil
	case rag.StatusError:
		return e.failure(), nil
	default:
		return nil, fmt.Errorf("api: unknown job status %q", e.Status)
	}
}

func toSources(in []sourceDTO) []rag.Source {
	if in == nil {
		return nil
	}
	out := make([]rag.Source, len(in))
	for i, s := range in {
		content := s.Content
		if content == "" {
			content = s.PageContent
		}
		out[i] = rag.Source{Content: content, Metadata: s.Metadata}
	}
	return out
}
