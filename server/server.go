// Package server exposes the HTTP trigger surface: manual sync kicks,
// sync status, and a liveness probe.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"estaty_sync/models"
	"estaty_sync/sync"
)

type Server struct {
	client      sync.Client
	store       sync.Store
	runs        RunLister
	baseOptions sync.Options
	lock        *sync.Lock
	engine      *gin.Engine
	httpServer  *http.Server
}

// RunLister is the read side of the sync_runs history, used by the
// status endpoint. Separate from sync.Store because only the HTTP layer
// reads history.
type RunLister interface {
	GetRecentSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error)
}

func New(client sync.Client, store sync.Store, runs RunLister, baseOptions sync.Options, lock *sync.Lock) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		client:      client,
		store:       store,
		runs:        runs,
		baseOptions: baseOptions,
		lock:        lock,
		engine:      engine,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthcheck", s.handleHealthcheck)

	api := s.engine.Group("/api")
	api.POST("/sync", s.handleTriggerSync)
	api.GET("/sync", s.handleSyncStatus)
}

func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("HTTP server listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

type triggerRequest struct {
	Type           string `json:"type"`
	BatchSize      int    `json:"batch_size"`
	IncludeDrafts  *bool  `json:"include_drafts"`
	SkipImages     *bool  `json:"skip_images"`
	SkipFloorPlans *bool  `json:"skip_floor_plans"`
}

func (s *Server) handleTriggerSync(c *gin.Context) {
	var req triggerRequest
	// An empty body means "incremental sync with defaults".
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	mode := req.Type
	switch mode {
	case "", "incremental":
		mode = "incremental"
	case "full":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be \"full\" or \"incremental\""})
		return
	}

	ok, wait := s.lock.TryAcquire()
	if !ok {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":          "a sync ran recently, try again later",
			"retry_after_ms": wait.Milliseconds(),
		})
		return
	}

	options := s.baseOptions
	if req.BatchSize > 0 {
		options.BatchSize = req.BatchSize
	}
	if req.IncludeDrafts != nil {
		options.IncludeDrafts = *req.IncludeDrafts
	}
	if req.SkipImages != nil {
		options.SkipImages = *req.SkipImages
	}
	if req.SkipFloorPlans != nil {
		options.SkipFloorPlans = *req.SkipFloorPlans
	}

	orchestrator := sync.NewOrchestrator(s.client, s.store, options)

	go func() {
		defer s.lock.Release()

		// Independent of the request context, the sync outlives it.
		ctx := context.Background()

		var stats *sync.Stats
		var err error
		if mode == "full" {
			stats, err = orchestrator.SyncAll(ctx, models.RunTriggerHTTP)
		} else {
			stats, err = orchestrator.SyncLatestUpdates(ctx, models.RunTriggerHTTP)
		}
		if err != nil {
			log.Printf("HTTP-triggered %s sync error: %v", mode, err)
			return
		}
		snap := stats.Snapshot()
		log.Printf("HTTP-triggered %s sync finished: %d created, %d updated, %d errors",
			mode, snap.PropertiesCreated, snap.PropertiesUpdated, snap.ErrorsCount)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status": "started",
		"mode":   mode,
	})
}

func (s *Server) handleSyncStatus(c *gin.Context) {
	resp := gin.H{
		"running": s.lock.Busy(),
	}
	if last := s.lock.LastStart(); !last.IsZero() {
		resp["last_started_at"] = last
	}
	// A finished sync can still hold the trigger path closed, report the
	// window so callers know when a new trigger will be accepted.
	if remaining := s.lock.CooldownRemaining(); remaining > 0 {
		resp["cooldown_remaining_ms"] = remaining.Milliseconds()
	}

	runs, err := s.runs.GetRecentSyncRuns(c.Request.Context(), 10)
	if err != nil {
		log.Printf("Warning: list sync runs: %v", err)
	} else {
		resp["recent_runs"] = runs
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
