package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	stdsync "sync"
	"time"

	"estaty_sync/estaty"
	"estaty_sync/models"
)

// Client is the upstream API surface the orchestrator needs. Satisfied
// by estaty.Client.
type Client interface {
	GetFilters(ctx context.Context) (*estaty.Filters, error)
	FilterProperties(ctx context.Context, criteria estaty.FilterCriteria) ([]estaty.Property, error)
	GetProperty(ctx context.Context, id int64) (*estaty.Property, error)
	LatestCreated(ctx context.Context) ([]estaty.Property, error)
	LatestUpdated(ctx context.Context) ([]estaty.Property, error)
}

// Options tune one sync execution.
type Options struct {
	BatchSize      int
	BatchDelay     time.Duration
	IncludeDrafts  bool
	SkipImages     bool
	SkipFloorPlans bool
}

const (
	defaultBatchSize  = 10
	defaultBatchDelay = 100 * time.Millisecond
)

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	if o.BatchDelay <= 0 {
		o.BatchDelay = defaultBatchDelay
	}
	return o
}

// Orchestrator drives full and incremental syncs: reference data first,
// then properties in concurrent batches, each property reconciled
// best-effort so one bad record never aborts the run.
type Orchestrator struct {
	client     Client
	store      Store
	reconciler *Reconciler
	options    Options
}

func NewOrchestrator(client Client, store Store, options Options) *Orchestrator {
	options = options.withDefaults()
	return &Orchestrator{
		client:     client,
		store:      store,
		reconciler: NewReconciler(store, options),
		options:    options,
	}
}

// SyncAll runs a full synchronization: getFilters reference data, the
// complete filtered property list in batches, then a latest-updates pass
// to catch records that changed while the full pass was running.
func (o *Orchestrator) SyncAll(ctx context.Context, triggeredBy string) (*Stats, error) {
	stats := NewStats()

	run := o.startRun(ctx, triggeredBy, "full")
	var runErr error
	defer func() {
		o.finishRun(ctx, run, stats, runErr)
	}()

	// A reference-data failure is not fatal: the property pass resolves
	// missing developers and cities through placeholder parents.
	if err := o.syncReferenceData(ctx, stats); err != nil {
		log.Printf("Warning: sync reference data: %v", err)
		stats.RecordError("reference data: %v", err)
	}

	properties, err := o.client.FilterProperties(ctx, estaty.FilterCriteria{})
	if err != nil {
		runErr = fmt.Errorf("fetch property list: %w", err)
		return stats, runErr
	}
	log.Printf("Full sync: %d properties to process", len(properties))

	if err := o.processBatches(ctx, properties, stats); err != nil {
		runErr = err
		return stats, err
	}

	// Catch anything created or updated upstream mid-run.
	if err := o.syncLatest(ctx, stats); err != nil {
		log.Printf("Warning: latest-updates pass after full sync: %v", err)
		stats.RecordError("latest-updates pass: %v", err)
	}

	stats.Finish()
	return stats, nil
}

// SyncLatestUpdates runs an incremental synchronization over the bounded
// latest-created and latest-updated lists.
func (o *Orchestrator) SyncLatestUpdates(ctx context.Context, triggeredBy string) (*Stats, error) {
	stats := NewStats()

	run := o.startRun(ctx, triggeredBy, "incremental")
	var runErr error
	defer func() {
		o.finishRun(ctx, run, stats, runErr)
	}()

	if err := o.syncLatest(ctx, stats); err != nil {
		runErr = err
		return stats, err
	}

	stats.Finish()
	return stats, nil
}

func (o *Orchestrator) syncReferenceData(ctx context.Context, stats *Stats) error {
	filters, err := o.client.GetFilters(ctx)
	if err != nil {
		return fmt.Errorf("fetch filters: %w", err)
	}

	// Cities before districts, districts need their parent rows.
	for _, ref := range filters.Cities {
		if err := o.reconciler.UpsertCityRef(ctx, ref, stats); err != nil {
			log.Printf("Warning: sync city %d: %v", ref.ID, err)
			stats.RecordCityError("city %d: %v", ref.ID, err)
		}
	}
	for _, ref := range filters.Developers {
		if err := o.reconciler.UpsertDeveloperRef(ctx, ref, stats); err != nil {
			log.Printf("Warning: sync developer %d: %v", ref.ID, err)
			stats.RecordDeveloperError("developer %d: %v", ref.ID, err)
		}
	}
	for _, ref := range filters.Districts {
		if err := o.reconciler.UpsertDistrictRef(ctx, ref, stats); err != nil {
			log.Printf("Warning: sync district %d: %v", ref.ID, err)
			stats.RecordDistrictError("district %d: %v", ref.ID, err)
		}
	}
	return nil
}

func (o *Orchestrator) processBatches(ctx context.Context, properties []estaty.Property, stats *Stats) error {
	for start := 0; start < len(properties); start += o.options.BatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + o.options.BatchSize
		if end > len(properties) {
			end = len(properties)
		}

		var wg stdsync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(p *estaty.Property) {
				defer wg.Done()
				o.processProperty(ctx, p, stats)
			}(&properties[i])
		}
		wg.Wait()

		if end < len(properties) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(o.options.BatchDelay):
			}
		}
	}
	return nil
}

// processProperty reconciles one property best-effort. The per-id detail
// call is skipped when the summary already embeds media fields; when the
// detail call fails the summary is reconciled as-is rather than losing
// the record.
func (o *Orchestrator) processProperty(ctx context.Context, p *estaty.Property, stats *Stats) {
	if p.IsDraft && !o.options.IncludeDrafts {
		stats.RecordProperty(OutcomeSkipped)
		return
	}

	record := p
	if !p.HasMediaFields() {
		detail, err := o.client.GetProperty(ctx, p.ID)
		if err != nil {
			log.Printf("Warning: fetch property %d detail: %v", p.ID, err)
			stats.RecordPropertyError("property %d detail: %v", p.ID, err)
		} else if detail != nil {
			record = detail
		}
	}

	if record.IsDraft && !o.options.IncludeDrafts {
		stats.RecordProperty(OutcomeSkipped)
		return
	}

	outcome, err := o.reconciler.UpsertProperty(ctx, record)
	if err != nil {
		log.Printf("Warning: sync property %d: %v", p.ID, err)
		stats.RecordPropertyError("property %d: %v", p.ID, err)
	}
	stats.RecordProperty(outcome)
}

func (o *Orchestrator) syncLatest(ctx context.Context, stats *Stats) error {
	created, err := o.client.LatestCreated(ctx)
	if err != nil {
		return fmt.Errorf("fetch latest created: %w", err)
	}
	updated, err := o.client.LatestUpdated(ctx)
	if err != nil {
		return fmt.Errorf("fetch latest updated: %w", err)
	}

	seen := make(map[int64]bool)
	var properties []estaty.Property
	for _, p := range append(created, updated...) {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		properties = append(properties, p)
	}

	log.Printf("Incremental sync: %d properties to process", len(properties))
	for i := range properties {
		if err := ctx.Err(); err != nil {
			return err
		}
		o.processProperty(ctx, &properties[i], stats)
	}
	return nil
}

// =============================================================================
// Run bookkeeping
// =============================================================================

func (o *Orchestrator) startRun(ctx context.Context, triggeredBy, mode string) *models.SyncRun {
	run := &models.SyncRun{
		TriggeredBy: triggeredBy,
		Mode:        mode,
		StartedAt:   time.Now(),
		Status:      models.RunStatusRunning,
	}
	if err := o.store.CreateSyncRun(ctx, run); err != nil {
		// Bookkeeping failure should not block the sync itself.
		log.Printf("Warning: create sync run: %v", err)
		run.ID = 0
	}
	return run
}

func (o *Orchestrator) finishRun(ctx context.Context, run *models.SyncRun, stats *Stats, runErr error) {
	if run.ID == 0 {
		return
	}

	// Finalize even when the run context was cancelled.
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	snap := stats.Snapshot()
	now := time.Now()
	run.FinishedAt = &now
	run.Status = models.RunStatusCompleted
	if runErr != nil {
		run.Status = models.RunStatusFailed
	}
	run.PropertiesCreated = snap.PropertiesCreated
	run.PropertiesUpdated = snap.PropertiesUpdated
	run.ErrorsCount = snap.ErrorsCount

	if meta, err := json.Marshal(snap); err == nil {
		run.Metadata = meta
	}

	if err := o.store.UpdateSyncRun(ctx, run); err != nil {
		log.Printf("Warning: update sync run %d: %v", run.ID, err)
	}
}
