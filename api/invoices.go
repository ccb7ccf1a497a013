package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adamani-ai/rag"
)

// ListInvoices returns a page of the account's invoices, newest first. The
// endpoint requires the bearer credential set with WithHeader.
func (c *Client) ListInvoices(ctx context.Context, page rag.InvoicePage) ([]rag.Invoice, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("skip", strconv.Itoa(page.Skip))
	q.Set("limit", strconv.Itoa(page.PageLimit()))

	req, err := c.newRequest(ctx, http.MethodGet, invoicesPath+"?"+q.Encode(), nil, "")
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("api: HTTP %d: %s", resp.StatusCode, errorMessage(resp))
	}

	var dtos []invoiceDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("api: decode invoices: %w", err)
	}
	invoices := make([]rag.Invoice, len(dtos))
	for i, d := range dtos {
		invoices[i] = d.invoice()
	}
	return invoices, nil
}
