// Package transport is the agent's HTTP client for the ingestion service.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/erp/syncbridge/internal/domain/syncrec"
)

// Client posts record chunks to the ingestion endpoints. One network call
// per chunk, no in-run retry: a failed chunk is retried wholesale on the
// next scheduled run because its cache entries stay uncommitted.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the ingestion service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// collection endpoint paths, one per entity collection
var collectionPaths = map[syncrec.Collection]string{
	syncrec.CollectionCustomers:    "/api/v1/sync/customers",
	syncrec.CollectionInventory:    "/api/v1/sync/inventory",
	syncrec.CollectionVehicles:     "/api/v1/sync/vehicles",
	syncrec.CollectionInvoices:     "/api/v1/sync/invoices",
	syncrec.CollectionInvoiceLines: "/api/v1/sync/invoice-lines",
	syncrec.CollectionCategories:   "/api/v1/sync/categories",
	syncrec.CollectionBrands:       "/api/v1/sync/brands",
	syncrec.CollectionStockLevels:  "/api/v1/sync/inventory-quantities",
	syncrec.CollectionEmployees:    "/api/v1/sync/employees",
}

// PushResult is the ingestion service's per-chunk response.
type PushResult struct {
	Count int `json:"count"`
}

// Push transmits one chunk of records for a collection and returns the
// number of records the service applied.
func (c *Client) Push(ctx context.Context, collection syncrec.Collection, records []syncrec.Record) (int, error) {
	path, ok := collectionPaths[collection]
	if !ok {
		return 0, fmt.Errorf("no endpoint for collection %q", collection)
	}

	body, err := json.Marshal(map[syncrec.Collection][]syncrec.Record{collection: records})
	if err != nil {
		return 0, fmt.Errorf("encode %s chunk: %w", collection, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("push %s chunk: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("push %s chunk: status %d: %s", collection, resp.StatusCode, snippet)
	}

	var result PushResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode %s response: %w", collection, err)
	}
	return result.Count, nil
}

// OpenRun registers a run-status record with the service and returns its id.
func (c *Client) OpenRun(ctx context.Context, agentHost string) (string, error) {
	body, _ := json.Marshal(map[string]string{"agent_host": agentHost})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/sync/runs", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("open run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("open run: status %d", resp.StatusCode)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode run response: %w", err)
	}
	return out.ID, nil
}

// RunSummary reports a finished run's counters.
type RunSummary struct {
	RecordsExtracted int `json:"records_extracted"`
	RecordsFiltered  int `json:"records_filtered"`
	RecordsApplied   int `json:"records_applied"`
	BatchesFailed    int `json:"batches_failed"`
}

// CompleteRun marks a run-status record finished.
func (c *Client) CompleteRun(ctx context.Context, runID string, summary RunSummary) error {
	body, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/api/v1/sync/runs/"+runID+"/complete", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("complete run: status %d", resp.StatusCode)
	}
	return nil
}
