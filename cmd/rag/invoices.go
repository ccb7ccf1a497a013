package main

import (
	"strconv"

	"github.com/adamani-ai/rag"
	"github.com/adamani-ai/rag/goldmark"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// renderInvoices lays invoices out as a bordered table.
func renderInvoices(invoices []rag.Invoice) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NUMBER", "VENDOR", "DATE", "DUE", "AMOUNT", "STATUS")
	for _, inv := range invoices {
		due := dateOnly(inv.DueDate)
		if due == "" {
			due = "-"
		}
		t.Row(
			goldmark.Sanitize(inv.InvoiceNumber),
			goldmark.Sanitize(inv.VendorName),
			dateOnly(inv.InvoiceDate),
			due,
			strconv.FormatFloat(inv.TotalAmount, 'f', 2, 64)+" "+goldmark.Sanitize(inv.Currency),
			string(inv.Status),
		)
	}
	return t.String()
}

// dateOnly trims an ISO timestamp to its calendar date.
func dateOnly(s string) string {
	s = goldmark.Sanitize(s)
	if len(s) > 10 && s[10] == 'T' {
		return s[:10]
	}
	return s
}
