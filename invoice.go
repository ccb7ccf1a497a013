package rag

import (
	"context"
	"fmt"
)

// Invoice page bounds accepted by the listing endpoint.
const (
	DefaultInvoiceLimit = 10
	MaxInvoiceLimit     = 100
)

// InvoiceStatus is the payment state the server derives from the due date.
type InvoiceStatus string

const (
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceUnpaid InvoiceStatus = "unpaid"
)

// Invoice is one invoice extracted from an uploaded document and owned by
// the authenticated account. Dates are kept as the server formats them.
type Invoice struct {
	ID            string
	VendorName    string
	InvoiceNumber string
	TotalAmount   float64
	Currency      string
	InvoiceDate   string
	DueDate       string // empty when the invoice has none
	Status        InvoiceStatus
}

// InvoicePage selects a window of invoices, newest first.
type InvoicePage struct {
	Skip  int
	Limit int // 0 means DefaultInvoiceLimit
}

// Validate checks the page bounds.
func (p InvoicePage) Validate() error {
	if p.Skip < 0 {
		return fmt.Errorf("skip must not be negative, got %d: %w", p.Skip, ErrValidation)
	}
	if p.Limit < 0 || p.Limit > MaxInvoiceLimit {
		return fmt.Errorf("limit must be between 1 and %d, got %d: %w", MaxInvoiceLimit, p.Limit, ErrValidation)
	}
	return nil
}

// PageLimit returns the effective limit.
func (p InvoicePage) PageLimit() int {
	if p.Limit == 0 {
		return DefaultInvoiceLimit
	}
	return p.Limit
}

// InvoiceService lists the invoices of the authenticated account.
type InvoiceService interface {
	ListInvoices(ctx context.Context, page InvoicePage) ([]Invoice, error)
}
