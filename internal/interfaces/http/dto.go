package http

import "github.com/erp/syncbridge/internal/domain/syncrec"

// Each sync endpoint binds the agent's wire envelope: one JSON object whose
// single key is the collection name. The envelope key doubles as a guard
// against a chunk posted to the wrong endpoint.

// CustomerSyncRequest carries one chunk of customer records.
type CustomerSyncRequest struct {
	Customers []syncrec.Customer `json:"customers" binding:"required"`
}

// ProductSyncRequest carries one chunk of inventory records.
type ProductSyncRequest struct {
	Inventory []syncrec.Product `json:"inventory" binding:"required"`
}

// VehicleSyncRequest carries one chunk of vehicle records.
type VehicleSyncRequest struct {
	Vehicles []syncrec.Vehicle `json:"vehicles" binding:"required"`
}

// InvoiceSyncRequest carries one chunk of invoice header records.
type InvoiceSyncRequest struct {
	Invoices []syncrec.Invoice `json:"invoices" binding:"required"`
}

// InvoiceLineSyncRequest carries one chunk of invoice line records.
type InvoiceLineSyncRequest struct {
	InvoiceLineItems []syncrec.InvoiceLine `json:"invoiceLineItems" binding:"required"`
}

// CategorySyncRequest carries one chunk of category records.
type CategorySyncRequest struct {
	Categories []syncrec.Category `json:"categories" binding:"required"`
}

// BrandSyncRequest carries one chunk of brand records.
type BrandSyncRequest struct {
	Brands []syncrec.Brand `json:"brands" binding:"required"`
}

// StockLevelSyncRequest carries one chunk of inventory quantity records.
type StockLevelSyncRequest struct {
	InventoryQuantities []syncrec.StockLevel `json:"inventoryQuantities" binding:"required"`
}

// EmployeeSyncRequest carries one chunk of employee records.
type EmployeeSyncRequest struct {
	Employees []syncrec.Employee `json:"employees" binding:"required"`
}

// CountResponse reports how many records of a chunk were applied.
type CountResponse struct {
	Count int `json:"count"`
}

// ErrorResponse is the error envelope for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AgentLogContext carries the metadata shipped alongside a log line.
type AgentLogContext struct {
	AgentHost string `json:"agent_host"`
}

// AgentLogRequest is one shipped agent log line.
type AgentLogRequest struct {
	Timestamp string          `json:"timestamp"`
	Level     string          `json:"level"`
	Message   string          `json:"message" binding:"required"`
	Context   AgentLogContext `json:"context"`
}

// OpenRunRequest registers a new sync run.
type OpenRunRequest struct {
	AgentHost string `json:"agent_host"`
}

// CompleteRunRequest closes a sync run with its counters.
type CompleteRunRequest struct {
	RecordsExtracted int `json:"records_extracted"`
	RecordsFiltered  int `json:"records_filtered"`
	RecordsApplied   int `json:"records_applied"`
	BatchesFailed    int `json:"batches_failed"`
}

// RunResponse reports one sync run.
type RunResponse struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	AgentHost        string `json:"agent_host,omitempty"`
	RecordsExtracted int    `json:"records_extracted"`
	RecordsFiltered  int    `json:"records_filtered"`
	RecordsApplied   int    `json:"records_applied"`
	BatchesFailed    int    `json:"batches_failed"`
	StartedAt        string `json:"started_at"`
	FinishedAt       string `json:"finished_at,omitempty"`
}
