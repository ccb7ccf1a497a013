// Package mock provides test doubles for rag interfaces using function fields.
package mock

import (
	"context"

	"github.com/adamani-ai/rag"
)

// Interface compliance check.
var _ rag.DocumentService = (*DocumentService)(nil)

// DocumentService is a test double for rag.DocumentService.
// Set the function fields for the methods you need.
type DocumentService struct {
	SubmitDocumentFn     func(ctx context.Context, doc rag.DocumentUpload) (string, error)
	DocumentStatusFn     func(ctx context.Context, jobID string) (rag.Snapshot, error)
	AddTextsFn           func(ctx context.Context, texts []rag.Text) (rag.IngestResult, error)
	ClearKnowledgeBaseFn func(ctx context.Context) error
}

// SubmitDocument delegates to SubmitDocumentFn.
func (s *DocumentService) SubmitDocument(ctx context.Context, doc rag.DocumentUpload) (string, error) {
	return s.SubmitDocumentFn(ctx, doc)
}

// DocumentStatus delegates to DocumentStatusFn.
func (s *DocumentService) DocumentStatus(ctx context.Context, jobID string) (rag.Snapshot, error) {
	return s.DocumentStatusFn(ctx, jobID)
}

// AddTexts delegates to AddTextsFn.
func (s *DocumentService) AddTexts(ctx context.Context, texts []rag.Text) (rag.IngestResult, error) {
	return s.AddTextsFn(ctx, texts)
}

// ClearKnowledgeBase delegates to ClearKnowledgeBaseFn.
func (s *DocumentService) ClearKnowledgeBase(ctx context.Context) error {
	return s.ClearKnowledgeBaseFn(ctx)
}
