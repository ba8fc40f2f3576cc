// Package http is the ingestion service's REST surface.
package http

import (
	"context"
	"net/http"

	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/erp/syncbridge/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Per-collection ingestion contracts, satisfied by the application services.
type (
	customerIngester interface {
		IngestBatch(ctx context.Context, records []syncrec.Customer) (int, error)
	}
	productIngester interface {
		IngestBatch(ctx context.Context, records []syncrec.Product) (int, error)
	}
	vehicleIngester interface {
		IngestBatch(ctx context.Context, records []syncrec.Vehicle) (int, error)
	}
	invoiceIngester interface {
		IngestBatch(ctx context.Context, records []syncrec.Invoice) (int, error)
	}
	invoiceLineIngester interface {
		IngestBatch(ctx context.Context, records []syncrec.InvoiceLine) (int, error)
	}
	taxonomyIngester interface {
		IngestCategories(ctx context.Context, records []syncrec.Category) (int, error)
		IngestBrands(ctx context.Context, records []syncrec.Brand) (int, error)
	}
	stockIngester interface {
		IngestBatch(ctx context.Context, records []syncrec.StockLevel) (int, error)
	}
	employeeIngester interface {
		IngestBatch(ctx context.Context, records []syncrec.Employee) (int, error)
	}
)

// SyncHandler serves the per-collection sync endpoints.
type SyncHandler struct {
	customers customerIngester
	products  productIngester
	vehicles  vehicleIngester
	invoices  invoiceIngester
	lines     invoiceLineIngester
	taxonomy  taxonomyIngester
	stock     stockIngester
	employees employeeIngester
}

// NewSyncHandler creates a SyncHandler over the ingestion services.
func NewSyncHandler(
	customers customerIngester,
	products productIngester,
	vehicles vehicleIngester,
	invoices invoiceIngester,
	lines invoiceLineIngester,
	taxonomy taxonomyIngester,
	stock stockIngester,
	employees employeeIngester,
) *SyncHandler {
	return &SyncHandler{
		customers: customers,
		products:  products,
		vehicles:  vehicles,
		invoices:  invoices,
		lines:     lines,
		taxonomy:  taxonomy,
		stock:     stock,
		employees: employees,
	}
}

// ingest binds the envelope, runs the batch and writes the count. Batch
// processing itself never fails on a bad record; an error here means the
// whole chunk could not be applied and the agent must not commit it.
func ingest[Req any, T any](c *gin.Context, extract func(Req) []T, apply func(context.Context, []T) (int, error)) {
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	count, err := apply(c.Request.Context(), extract(req))
	if err != nil {
		logger.GetGinLogger(c).Error("batch ingestion failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "batch could not be applied"})
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// SyncCustomers handles POST /api/v1/sync/customers.
func (h *SyncHandler) SyncCustomers(c *gin.Context) {
	ingest(c, func(r CustomerSyncRequest) []syncrec.Customer { return r.Customers }, h.customers.IngestBatch)
}

// SyncInventory handles POST /api/v1/sync/inventory.
func (h *SyncHandler) SyncInventory(c *gin.Context) {
	ingest(c, func(r ProductSyncRequest) []syncrec.Product { return r.Inventory }, h.products.IngestBatch)
}

// SyncVehicles handles POST /api/v1/sync/vehicles.
func (h *SyncHandler) SyncVehicles(c *gin.Context) {
	ingest(c, func(r VehicleSyncRequest) []syncrec.Vehicle { return r.Vehicles }, h.vehicles.IngestBatch)
}

// SyncInvoices handles POST /api/v1/sync/invoices.
func (h *SyncHandler) SyncInvoices(c *gin.Context) {
	ingest(c, func(r InvoiceSyncRequest) []syncrec.Invoice { return r.Invoices }, h.invoices.IngestBatch)
}

// SyncInvoiceLines handles POST /api/v1/sync/invoice-lines.
func (h *SyncHandler) SyncInvoiceLines(c *gin.Context) {
	ingest(c, func(r InvoiceLineSyncRequest) []syncrec.InvoiceLine { return r.InvoiceLineItems }, h.lines.IngestBatch)
}

// SyncCategories handles POST /api/v1/sync/categories.
func (h *SyncHandler) SyncCategories(c *gin.Context) {
	ingest(c, func(r CategorySyncRequest) []syncrec.Category { return r.Categories }, h.taxonomy.IngestCategories)
}

// SyncBrands handles POST /api/v1/sync/brands.
func (h *SyncHandler) SyncBrands(c *gin.Context) {
	ingest(c, func(r BrandSyncRequest) []syncrec.Brand { return r.Brands }, h.taxonomy.IngestBrands)
}

// SyncStockLevels handles POST /api/v1/sync/inventory-quantities.
func (h *SyncHandler) SyncStockLevels(c *gin.Context) {
	ingest(c, func(r StockLevelSyncRequest) []syncrec.StockLevel { return r.InventoryQuantities }, h.stock.IngestBatch)
}

// SyncEmployees handles POST /api/v1/sync/employees.
func (h *SyncHandler) SyncEmployees(c *gin.Context) {
	ingest(c, func(r EmployeeSyncRequest) []syncrec.Employee { return r.Employees }, h.employees.IngestBatch)
}
