// Package pipeline is the extraction agent's run orchestration: read the
// legacy source, transform rows into typed records, drop unchanged records
// via the change-detection cache, and transmit the rest in bounded-width
// concurrent batches.
package pipeline

import (
	"context"
	"sync"

	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/erp/syncbridge/internal/infrastructure/legacy"
	"github.com/erp/syncbridge/internal/infrastructure/synccache"
	"github.com/erp/syncbridge/internal/infrastructure/transport"
	"go.uber.org/zap"
)

// Extractor reads the legacy source. A nil filter slice reads everything.
type Extractor interface {
	ReadCustomers(ctx context.Context, custNos []string) ([]legacy.CustomerRow, error)
	ReadProducts(ctx context.Context, partNos []string) ([]legacy.ProductRow, error)
	ReadInvoices(ctx context.Context, invNos []string) ([]legacy.InvoiceRow, error)
	ReadInvoiceLines(ctx context.Context, invNos []string) ([]legacy.LineRow, error)
	ReadEmployees(ctx context.Context, empNos []string) ([]legacy.EmployeeRow, error)
}

// Transmitter sends records and run status to the ingestion service.
type Transmitter interface {
	Push(ctx context.Context, collection syncrec.Collection, records []syncrec.Record) (int, error)
	OpenRun(ctx context.Context, agentHost string) (string, error)
	CompleteRun(ctx context.Context, runID string, summary transport.RunSummary) error
}

// Options configures a Runner.
type Options struct {
	BatchSize     int
	MaxConcurrent int
	AgentHost     string
}

// Runner executes one full sync run.
type Runner struct {
	extractor Extractor
	cache     *synccache.Cache
	client    Transmitter
	opts      Options
	logger    *zap.Logger
}

// NewRunner creates a Runner.
func NewRunner(extractor Extractor, cache *synccache.Cache, client Transmitter, opts Options, logger *zap.Logger) *Runner {
	return &Runner{
		extractor: extractor,
		cache:     cache,
		client:    client,
		opts:      opts,
		logger:    logger.Named("pipeline"),
	}
}

// Summary reports one run's counters.
type Summary struct {
	RecordsExtracted int
	RecordsFiltered  int
	RecordsApplied   int
	BatchesFailed    int
}

// counters accumulates run totals across concurrent batch jobs.
type counters struct {
	mu      sync.Mutex
	summary Summary
}

func (c *counters) addExtracted(n int) {
	c.mu.Lock()
	c.summary.RecordsExtracted += n
	c.mu.Unlock()
}

func (c *counters) addFiltered(n int) {
	c.mu.Lock()
	c.summary.RecordsFiltered += n
	c.mu.Unlock()
}

func (c *counters) addApplied(n int) {
	c.mu.Lock()
	c.summary.RecordsApplied += n
	c.mu.Unlock()
}

func (c *counters) addFailedBatch() {
	c.mu.Lock()
	c.summary.BatchesFailed++
	c.mu.Unlock()
}

// Run executes one extraction-to-transmission cycle. Collections are
// submitted parents before children so placeholder creation stays the
// exception rather than the rule, though correctness never depends on it.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if err := r.cache.Load(ctx); err != nil {
		return Summary{}, err
	}

	runID, err := r.client.OpenRun(ctx, r.opts.AgentHost)
	if err != nil {
		// status tracking is advisory; extraction still runs
		r.logger.Warn("could not open run record", zap.Error(err))
	}

	c := &counters{}
	d := newDispatcher(r.opts.MaxConcurrent)

	r.syncEmployees(ctx, d, c)
	r.syncCustomers(ctx, d, c)
	r.syncInventory(ctx, d, c)
	r.syncInvoices(ctx, d, c)
	r.syncInvoiceLines(ctx, d, c)

	d.wait()

	if err := r.cache.Persist(ctx); err != nil {
		r.logger.Error("persisting change cache failed", zap.Error(err))
	}

	c.mu.Lock()
	summary := c.summary
	c.mu.Unlock()

	if runID != "" {
		if err := r.client.CompleteRun(ctx, runID, transport.RunSummary{
			RecordsExtracted: summary.RecordsExtracted,
			RecordsFiltered:  summary.RecordsFiltered,
			RecordsApplied:   summary.RecordsApplied,
			BatchesFailed:    summary.BatchesFailed,
		}); err != nil {
			r.logger.Warn("could not complete run record", zap.Error(err))
		}
	}

	r.logger.Info("run finished",
		zap.Int("extracted", summary.RecordsExtracted),
		zap.Int("filtered", summary.RecordsFiltered),
		zap.Int("applied", summary.RecordsApplied),
		zap.Int("failed_batches", summary.BatchesFailed),
	)
	return summary, nil
}

func (r *Runner) syncEmployees(ctx context.Context, d *dispatcher, c *counters) {
	rows, err := r.extractor.ReadEmployees(ctx, nil)
	if err != nil {
		r.logger.Error("employee extraction failed", zap.Error(err))
		return
	}
	submitCollection(ctx, r, d, c, syncrec.CollectionEmployees, TransformEmployees(rows))
}

func (r *Runner) syncCustomers(ctx context.Context, d *dispatcher, c *counters) {
	rows, err := r.extractor.ReadCustomers(ctx, nil)
	if err != nil {
		r.logger.Error("customer extraction failed", zap.Error(err))
		return
	}
	submitCollection(ctx, r, d, c, syncrec.CollectionCustomers, TransformCustomers(rows))
}

func (r *Runner) syncInventory(ctx context.Context, d *dispatcher, c *counters) {
	rows, err := r.extractor.ReadProducts(ctx, nil)
	if err != nil {
		r.logger.Error("inventory extraction failed", zap.Error(err))
		return
	}
	products, categories, brands, levels := TransformProducts(rows)
	submitCollection(ctx, r, d, c, syncrec.CollectionCategories, categories)
	submitCollection(ctx, r, d, c, syncrec.CollectionBrands, brands)
	submitCollection(ctx, r, d, c, syncrec.CollectionInventory, products)
	submitCollection(ctx, r, d, c, syncrec.CollectionStockLevels, levels)
}

func (r *Runner) syncInvoices(ctx context.Context, d *dispatcher, c *counters) {
	rows, err := r.extractor.ReadInvoices(ctx, nil)
	if err != nil {
		r.logger.Error("invoice extraction failed", zap.Error(err))
		return
	}
	invoices, vehicles := TransformInvoices(rows)
	submitCollection(ctx, r, d, c, syncrec.CollectionVehicles, vehicles)
	submitCollection(ctx, r, d, c, syncrec.CollectionInvoices, invoices)
}

func (r *Runner) syncInvoiceLines(ctx context.Context, d *dispatcher, c *counters) {
	rows, err := r.extractor.ReadInvoiceLines(ctx, nil)
	if err != nil {
		r.logger.Error("invoice line extraction failed", zap.Error(err))
		return
	}
	submitCollection(ctx, r, d, c, syncrec.CollectionInvoiceLines, TransformLines(rows))
}

type pendingRecord struct {
	rec  syncrec.Record
	key  string
	hash string
}

// submitCollection filters unchanged records out and queues the remainder
// in batches. Cache entries are committed per record only after the chunk
// carrying them was accepted, so a failed chunk retransmits wholesale on
// the next run.
func submitCollection[T syncrec.Record](ctx context.Context, r *Runner, d *dispatcher, c *counters, collection syncrec.Collection, records []T) {
	c.addExtracted(len(records))

	var pending []pendingRecord
	for _, rec := range records {
		should, hash, err := r.cache.ShouldSync(ctx, string(collection), rec)
		if err != nil {
			r.logger.Warn("hashing record failed, skipping",
				zap.String("collection", string(collection)),
				zap.String("natural_key", rec.NaturalKey()),
				zap.Error(err),
			)
			continue
		}
		if !should {
			c.addFiltered(1)
			continue
		}
		pending = append(pending, pendingRecord{rec: rec, key: rec.NaturalKey(), hash: hash})
	}

	for _, batch := range chunk(pending, r.opts.BatchSize) {
		batch := batch
		d.submit(func() {
			recs := make([]syncrec.Record, len(batch))
			for i, p := range batch {
				recs[i] = p.rec
			}
			applied, err := r.client.Push(ctx, collection, recs)
			if err != nil {
				r.logger.Error("batch transmission failed",
					zap.String("collection", string(collection)),
					zap.Int("batch_size", len(batch)),
					zap.Error(err),
				)
				c.addFailedBatch()
				return
			}
			c.addApplied(applied)
			for _, p := range batch {
				if err := r.cache.Commit(ctx, string(collection), p.key, p.hash); err != nil {
					r.logger.Warn("cache commit failed",
						zap.String("collection", string(collection)),
						zap.String("natural_key", p.key),
						zap.Error(err),
					)
				}
			}
		})
	}
}
