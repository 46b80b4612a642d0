// Package scheduler runs the periodic syncs: an incremental pass on
// SYNC_CRON and an optional full pass on FULL_SYNC_CRON. Scheduled runs
// share the trigger lock with the HTTP endpoint, so a cron tick landing
// inside a manual sync's cooldown is dropped rather than queued.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"estaty_sync/config"
	"estaty_sync/models"
	"estaty_sync/sync"
)

type Scheduler struct {
	cfg          *config.Config
	orchestrator *sync.Orchestrator
	lock         *sync.Lock
	cron         *cron.Cron
	stopCh       chan struct{}
}

func New(cfg *config.Config, orchestrator *sync.Orchestrator, lock *sync.Lock) *Scheduler {
	return &Scheduler{
		cfg:          cfg,
		orchestrator: orchestrator,
		lock:         lock,
		cron:         cron.New(),
		stopCh:       make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduled := false

	if expr := s.cfg.Scheduler.Cron; expr != "" {
		log.Printf("Scheduling incremental sync: %s", expr)
		_, err := s.cron.AddFunc(expr, func() {
			s.run(ctx, false)
		})
		if err != nil {
			return fmt.Errorf("invalid SYNC_CRON expression: %w", err)
		}
		scheduled = true
	}

	if expr := s.cfg.Scheduler.FullCron; expr != "" {
		log.Printf("Scheduling full sync: %s", expr)
		_, err := s.cron.AddFunc(expr, func() {
			s.run(ctx, true)
		})
		if err != nil {
			return fmt.Errorf("invalid FULL_SYNC_CRON expression: %w", err)
		}
		scheduled = true
	}

	if !scheduled {
		log.Println("No sync schedule configured, daemon will only respond to HTTP triggers")
		return nil
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	close(s.stopCh)
}

func (s *Scheduler) run(ctx context.Context, full bool) {
	select {
	case <-s.stopCh:
		return
	case <-ctx.Done():
		return
	default:
	}

	ok, wait := s.lock.TryAcquire()
	if !ok {
		log.Printf("Scheduled sync skipped, another sync ran recently (%s left)", wait.Round(time.Second))
		return
	}
	defer s.lock.Release()

	var stats *sync.Stats
	var err error
	if full {
		stats, err = s.orchestrator.SyncAll(ctx, models.RunTriggerCron)
	} else {
		stats, err = s.orchestrator.SyncLatestUpdates(ctx, models.RunTriggerCron)
	}
	if err != nil {
		log.Printf("Scheduled sync error: %v", err)
		return
	}

	snap := stats.Snapshot()
	log.Printf("Scheduled sync finished: %d created, %d updated, %d skipped, %d errors",
		snap.PropertiesCreated, snap.PropertiesUpdated, snap.PropertiesSkipped, snap.ErrorsCount)
}
