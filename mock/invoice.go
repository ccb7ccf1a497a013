package mock

import (
	"context"

	"github.com/adamani-ai/rag"
)

// Interface compliance check.
var _ rag.InvoiceService = (*InvoiceService)(nil)

// InvoiceService is a test double for rag.InvoiceService.
type InvoiceService struct {
	ListInvoicesFn func(ctx context.Context, page rag.InvoicePage) ([]rag.Invoice, error)
}

// ListInvoices delegates to ListInvoicesFn.
func (s *InvoiceService) ListInvoices(ctx context.Context, page rag.InvoicePage) ([]rag.Invoice, error) {
	return s.ListInvoicesFn(ctx, page)
}
