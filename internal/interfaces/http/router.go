package http

import (
	"net/http"

	"github.com/erp/syncbridge/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Router wires the ingestion service's endpoints.
type Router struct {
	sync   *SyncHandler
	runs   *RunHandler
	logs   *LogHandler
	health func() error
	logger *zap.Logger
}

// NewRouter creates a Router. healthCheck reports readiness of the canonical
// store; nil means always ready.
func NewRouter(sync *SyncHandler, runs *RunHandler, logs *LogHandler, healthCheck func() error, log *zap.Logger) *Router {
	return &Router{
		sync:   sync,
		runs:   runs,
		logs:   logs,
		health: healthCheck,
		logger: log,
	}
}

// Engine builds the gin engine with all routes and middleware registered.
func (r *Router) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(logger.GinMiddleware(r.logger))
	engine.Use(logger.Recovery(r.logger))

	engine.GET("/health", r.healthHandler)

	api := engine.Group("/api/v1/sync")
	{
		api.POST("/customers", r.sync.SyncCustomers)
		api.POST("/inventory", r.sync.SyncInventory)
		api.POST("/vehicles", r.sync.SyncVehicles)
		api.POST("/invoices", r.sync.SyncInvoices)
		api.POST("/invoice-lines", r.sync.SyncInvoiceLines)
		api.POST("/categories", r.sync.SyncCategories)
		api.POST("/brands", r.sync.SyncBrands)
		api.POST("/inventory-quantities", r.sync.SyncStockLevels)
		api.POST("/employees", r.sync.SyncEmployees)

		api.POST("/logs", r.logs.Receive)

		api.POST("/runs", r.runs.OpenRun)
		api.PUT("/runs/:id/complete", r.runs.CompleteRun)
		api.GET("/runs/active", r.runs.ActiveRuns)
	}

	return engine
}

func (r *Router) healthHandler(c *gin.Context) {
	if r.health != nil {
		if err := r.health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
