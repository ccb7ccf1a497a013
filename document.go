package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// SupportedFormats lists the file extensions the ingestion endpoint accepts.
var SupportedFormats = []string{".pdf", ".png", ".jpg", ".jpeg", ".tiff", ".bmp"}

// DocumentUpload is one file submitted for ingestion.
type DocumentUpload struct {
	Filename string
	Data     []byte
	UseOCR   bool // force OCR on PDFs; images are always OCR'd
}

// Validate checks that the upload has a name, content and a supported format.
func (d DocumentUpload) Validate() error {
	if d.Filename == "" {
		return fmt.Errorf("filename is required: %w", ErrValidation)
	}
	if len(d.Data) == 0 {
		return fmt.Errorf("%s is empty: %w", d.Filename, ErrValidation)
	}
	ext := strings.ToLower(filepath.Ext(d.Filename))
	if !slices.Contains(SupportedFormats, ext) {
		return fmt.Errorf("unsupported format %q (supported: %s): %w",
			ext, strings.Join(SupportedFormats, ", "), ErrValidation)
	}
	return nil
}

// IngestResult is the payload of a successful ingestion job.
type IngestResult struct {
	DocumentsAdded int
	ChunksCreated  int
	Message        string
}

// Text is a raw text document added without a file upload.
type Text struct {
	Content  string
	Metadata map[string]any
}

// DocumentService submits and observes ingestion jobs.
type DocumentService interface {
	// SubmitDocument uploads a document and returns the job id.
	SubmitDocument(ctx context.Context, doc DocumentUpload) (string, error)
	// DocumentStatus returns a snapshot of the job; Succeeded carries an
	// IngestResult. A job with no record yields an error wrapping ErrNotFound.
	DocumentStatus(ctx context.Context, jobID string) (Snapshot, error)
	// AddTexts synchronously chunks and indexes raw texts.
	AddTexts(ctx context.Context, texts []Text) (IngestResult, error)
	// ClearKnowledgeBase removes every indexed document.
	ClearKnowledgeBase(ctx context.Context) error
}
