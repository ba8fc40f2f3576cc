// The ingestion server receives record chunks from extraction agents and
// upserts them into the canonical store.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/syncbridge/internal/application/ingest"
	"github.com/erp/syncbridge/internal/application/reconcile"
	"github.com/erp/syncbridge/internal/infrastructure/classification"
	"github.com/erp/syncbridge/internal/infrastructure/config"
	"github.com/erp/syncbridge/internal/infrastructure/logger"
	"github.com/erp/syncbridge/internal/infrastructure/persistence"
	resthttp "github.com/erp/syncbridge/internal/interfaces/http"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("connect to canonical store", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	vehicleRepo := persistence.NewGormVehicleRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	stockRepo := persistence.NewGormStockLevelRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	lineRepo := persistence.NewGormInvoiceLineRepository(db.DB)
	runRepo := persistence.NewGormRunRepository(db.DB)

	taxRate := decimal.NewFromFloat(cfg.Pipeline.TaxRate)
	reconciler := reconcile.NewService(invoiceRepo, lineRepo, taxRate, log)

	classifier := classification.NewRuleClassifier()
	syncHandler := resthttp.NewSyncHandler(
		ingest.NewCustomerService(customerRepo, log),
		ingest.NewProductService(productRepo, categoryRepo, brandRepo, classifier, log),
		ingest.NewVehicleService(vehicleRepo, log),
		ingest.NewInvoiceService(invoiceRepo, customerRepo, vehicleRepo, employeeRepo, log),
		ingest.NewInvoiceLineService(lineRepo, invoiceRepo, productRepo, reconciler, log),
		ingest.NewTaxonomyService(categoryRepo, brandRepo, log),
		ingest.NewStockService(stockRepo, productRepo, log),
		ingest.NewEmployeeService(employeeRepo, log),
	)
	runHandler := resthttp.NewRunHandler(runRepo, cfg.SyncRun.TTL)
	logHandler := resthttp.NewLogHandler(log)

	router := resthttp.NewRouter(syncHandler, runHandler, logHandler, db.Ping, log)
	engine := router.Engine()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("ingestion server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
