package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estaty_sync/config"
	"estaty_sync/estaty"
	"estaty_sync/logging"
	"estaty_sync/models"
	"estaty_sync/scheduler"
	"estaty_sync/server"
	"estaty_sync/storage"
	"estaty_sync/sync"
)

var (
	syncFull   = flag.Bool("sync-full", false, "Run a full sync once and exit")
	syncLatest = flag.Bool("sync-latest", false, "Run an incremental sync once and exit")
	batchSize  = flag.Int("batch-size", 0, "Override sync batch size")
	initSchema = flag.Bool("init-schema", false, "Create database tables and exit")
	logFile    = flag.String("log-file", "estaty_sync.log", "Log file path (empty for stdout only)")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logWriter, err := logging.Setup(*logFile)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logWriter.Close()
	}

	log.Println("Starting estaty_sync...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx := context.Background()

	store, err := storage.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer store.Close()
	log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.Database.URL))

	if *initSchema {
		if err := store.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		log.Println("Schema initialized")
		return
	}

	client := estaty.NewClient(cfg.Estaty.BaseURL, cfg.Estaty.APIKey)

	options := sync.Options{
		BatchSize:      cfg.Sync.BatchSize,
		BatchDelay:     cfg.Sync.BatchDelay,
		IncludeDrafts:  cfg.Sync.IncludeDrafts,
		SkipImages:     cfg.Sync.SkipImages,
		SkipFloorPlans: cfg.Sync.SkipFloorPlans,
	}
	if *batchSize > 0 {
		options.BatchSize = *batchSize
	}

	// One-shot modes
	if *syncFull || *syncLatest {
		orchestrator := sync.NewOrchestrator(client, store, options)

		var stats *sync.Stats
		if *syncFull {
			log.Println("Running full sync...")
			stats, err = orchestrator.SyncAll(ctx, models.RunTriggerCLI)
		} else {
			log.Println("Running incremental sync...")
			stats, err = orchestrator.SyncLatestUpdates(ctx, models.RunTriggerCLI)
		}
		if err != nil {
			log.Fatalf("Sync failed: %v", err)
		}

		fmt.Println(stats.ToJSON())
		log.Println("Sync complete!")
		return
	}

	// Daemon mode: HTTP trigger endpoint plus cron schedules, sharing one
	// trigger lock.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lock := sync.NewLock(cfg.Sync.Cooldown)
	orchestrator := sync.NewOrchestrator(client, store, options)

	sched := scheduler.New(cfg, orchestrator, lock)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	srv := server.New(client, store, store, options, lock)
	go func() {
		if err := srv.Start(cfg.Server.Addr); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: HTTP shutdown: %v", err)
	}
	log.Println("Goodbye!")
}

// maskConnectionString masks password in connection string for logging
func maskConnectionString(connStr string) string {
	// Simple mask - find :// and mask until @
	start := 0
	for i := 0; i < len(connStr)-3; i++ {
		if connStr[i:i+3] == "://" {
			start = i + 3
			break
		}
	}
	if start == 0 {
		return connStr
	}

	// Find : after user
	colonIdx := -1
	atIdx := -1
	for i := start; i < len(connStr); i++ {
		if connStr[i] == ':' && colonIdx == -1 {
			colonIdx = i
		}
		if connStr[i] == '@' {
			atIdx = i
			break
		}
	}

	if colonIdx > 0 && atIdx > colonIdx {
		return connStr[:colonIdx+1] + "****" + connStr[atIdx:]
	}
	return connStr
}
