package application

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/ports"
)

// idBatchSize bounds how many natural keys go into one fetch-by-ids
// disjunction, keeping the filter inside the remote's query-length limit.
const idBatchSize = 40

// OutcomeObserver receives per-record outcomes, typically a metrics
// collector.
type OutcomeObserver interface {
	ObserveOutcome(entity string, outcome domain.SyncOutcome)
}

type nopObserver struct{}

func (nopObserver) ObserveOutcome(string, domain.SyncOutcome) {}

// SyncRunnerConfig tunes the batch runs.
type SyncRunnerConfig struct {
	// Lookback is the change-log window. It is deliberately wider than
	// the sync cadence so a failed run self-heals on the next one.
	Lookback time.Duration
	// RecordDelay is slept between records; both remote systems apply
	// coarse rate limiting and the volumes involved do not justify
	// anything faster.
	RecordDelay time.Duration
}

// SyncRunner drives incremental batch runs: change detection, fetch by
// IDs, then sequential reconciliation one record at a time. Per-record
// failures become skip/error outcomes and the batch continues; only an
// authentication failure surfacing after the bounded relogin aborts a run,
// because every remaining record would fail against the same dead
// credential.
type SyncRunner struct {
	erp       ports.ERPClient
	detector  ports.ChangeDetector
	catalog   *CatalogReconciler
	customers *CustomerReconciler
	inventory *InventorySynchronizer
	reports   ports.RunReportRepository
	observer  OutcomeObserver
	cfg       SyncRunnerConfig
	logger    zerolog.Logger
}

// NewSyncRunner creates a sync runner. observer and reports may be nil.
func NewSyncRunner(
	erp ports.ERPClient,
	detector ports.ChangeDetector,
	catalog *CatalogReconciler,
	customers *CustomerReconciler,
	inventory *InventorySynchronizer,
	reports ports.RunReportRepository,
	observer OutcomeObserver,
	cfg SyncRunnerConfig,
	logger zerolog.Logger,
) *SyncRunner {
	if observer == nil {
		observer = nopObserver{}
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 48 * time.Hour
	}
	return &SyncRunner{
		erp:       erp,
		detector:  detector,
		catalog:   catalog,
		customers: customers,
		inventory: inventory,
		reports:   reports,
		observer:  observer,
		cfg:       cfg,
		logger:    logger,
	}
}

// RunCatalogSync reconciles every part group touched inside the lookback
// window.
func (r *SyncRunner) RunCatalogSync(ctx context.Context) (*domain.RunReport, error) {
	report := r.newReport("catalog")

	ids, err := r.detector.ChangedEntityIDs(ctx, domain.EntityTypePart, r.cfg.Lookback)
	if err != nil {
		return report, err
	}
	items, err := r.fetchPartBatches(ctx, setToSlice(ids))
	if err != nil {
		return report, err
	}
	return r.reconcileGroups(ctx, report, domain.GroupByProductName(items))
}

// RunFullCatalogSync reconciles every active part group, ignoring the
// change log. Used for initial seeding and for recovery after the link
// cache or the commerce side has drifted.
func (r *SyncRunner) RunFullCatalogSync(ctx context.Context) (*domain.RunReport, error) {
	report := r.newReport("catalog")

	items, err := r.erp.FetchParts(ctx)
	if err != nil {
		return report, err
	}
	return r.reconcileGroups(ctx, report, domain.GroupByProductName(items))
}

func (r *SyncRunner) reconcileGroups(ctx context.Context, report *domain.RunReport, groups []domain.PartGroup) (*domain.RunReport, error) {
	for _, group := range groups {
		outcome, err := r.catalog.ReconcileGroup(ctx, group)
		if abort := r.record(report, "catalog", group.Name, outcome, err); abort != nil {
			return r.finish(ctx, report), abort
		}
		if err := r.pause(ctx); err != nil {
			return r.finish(ctx, report), err
		}
	}
	return r.finish(ctx, report), nil
}

// RunCustomerSync reconciles every eligible reference person of every
// customer touched inside the lookback window.
func (r *SyncRunner) RunCustomerSync(ctx context.Context) (*domain.RunReport, error) {
	report := r.newReport("customer")

	ids, err := r.detector.ChangedEntityIDs(ctx, domain.EntityTypeCustomer, r.cfg.Lookback)
	if err != nil {
		return report, err
	}

	for _, batch := range chunk(setToSlice(ids), idBatchSize) {
		customers, err := r.erp.FetchCustomersByIDs(ctx, batch)
		if err != nil {
			return r.finish(ctx, report), err
		}
		if done, err := r.reconcileCustomers(ctx, report, customers); done {
			return r.finish(ctx, report), err
		}
	}
	return r.finish(ctx, report), nil
}

// RunFullCustomerSync reconciles every reference person of every ERP
// customer, ignoring the change log.
func (r *SyncRunner) RunFullCustomerSync(ctx context.Context) (*domain.RunReport, error) {
	report := r.newReport("customer")

	customers, err := r.erp.FetchCustomers(ctx)
	if err != nil {
		return report, err
	}
	if done, err := r.reconcileCustomers(ctx, report, customers); done {
		return r.finish(ctx, report), err
	}
	return r.finish(ctx, report), nil
}

// reconcileCustomers runs one pass over the given customers. done reports
// that the caller must stop (abort or cancellation), with the error to
// surface.
func (r *SyncRunner) reconcileCustomers(ctx context.Context, report *domain.RunReport, customers []domain.CustomerRecord) (done bool, _ error) {
	for _, customer := range customers {
		persons, err := r.erp.FetchReferencePersons(ctx, customer.ID)
		if err != nil {
			if abort := r.record(report, "customer", customer.ID, domain.OutcomeError, err); abort != nil {
				return true, abort
			}
			continue
		}
		for _, person := range persons {
			outcome, err := r.customers.ReconcileCustomer(ctx, customer, person)
			if abort := r.record(report, "customer", person.Email, outcome, err); abort != nil {
				return true, abort
			}
			if err := r.pause(ctx); err != nil {
				return true, err
			}
		}
	}
	return false, nil
}

// RunInventorySync writes the stock balance of every part touched inside
// the lookback window.
func (r *SyncRunner) RunInventorySync(ctx context.Context) (*domain.RunReport, error) {
	report := r.newReport("inventory")

	ids, err := r.detector.ChangedEntityIDs(ctx, domain.EntityTypePart, r.cfg.Lookback)
	if err != nil {
		return report, err
	}

	for _, partID := range setToSlice(ids) {
		outcome, err := r.inventory.SyncStockLevel(ctx, partID)
		if abort := r.record(report, "inventory", partID, outcome, err); abort != nil {
			return r.finish(ctx, report), abort
		}
		if err := r.pause(ctx); err != nil {
			return r.finish(ctx, report), err
		}
	}
	return r.finish(ctx, report), nil
}

func (r *SyncRunner) fetchPartBatches(ctx context.Context, ids []string) ([]domain.CatalogItem, error) {
	var items []domain.CatalogItem
	for _, batch := range chunk(ids, idBatchSize) {
		fetched, err := r.erp.FetchPartsByIDs(ctx, batch)
		if err != nil {
			return nil, err
		}
		items = append(items, fetched...)
	}
	return items, nil
}

// record classifies one per-record result. It returns a non-nil error
// only when the whole run must abort.
func (r *SyncRunner) record(report *domain.RunReport, entity, key string, outcome domain.SyncOutcome, err error) error {
	if err != nil {
		var authErr *domain.AuthenticationError
		if errors.As(err, &authErr) {
			r.logger.Error().Err(err).Str("entity", entity).Msg("Authentication failed, aborting run")
			return err
		}
		var valErr *domain.ValidationError
		var mapErr *domain.MappingError
		switch {
		case errors.As(err, &valErr):
			r.logger.Warn().Err(err).Str("entity", entity).Str("record", key).Msg("Record rejected by commerce platform, skipped")
			outcome = domain.OutcomeSkipped
		case errors.As(err, &mapErr):
			// Already logged at the point of detection.
		default:
			r.logger.Error().Err(err).Str("entity", entity).Str("record", key).Msg("Record failed")
		}
	}
	report.Add(outcome)
	r.observer.ObserveOutcome(entity, outcome)
	return nil
}

func (r *SyncRunner) newReport(entity string) *domain.RunReport {
	return &domain.RunReport{Entity: entity, StartedAt: time.Now()}
}

// finish stamps, logs and persists a run report.
func (r *SyncRunner) finish(ctx context.Context, report *domain.RunReport) *domain.RunReport {
	report.FinishedAt = time.Now()
	r.logger.Info().
		Str("entity", report.Entity).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("skipped", report.Skipped).
		Int("errors", report.Errors).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("Sync run completed")
	if r.reports != nil {
		if err := r.reports.Save(ctx, report); err != nil {
			r.logger.Warn().Err(err).Msg("Failed to persist run report")
		}
	}
	return report
}

func (r *SyncRunner) pause(ctx context.Context) error {
	if r.cfg.RecordDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.cfg.RecordDelay):
		return nil
	}
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func chunk(ids []string, size int) [][]string {
	var batches [][]string
	for len(ids) > size {
		batches = append(batches, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		batches = append(batches, ids)
	}
	return batches
}
