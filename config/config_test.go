package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ESTATY_API_KEY", "k")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("SYNC_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr %q", cfg.Server.Addr)
	}
	if cfg.Sync.BatchSize != 10 {
		t.Fatalf("unexpected default batch size %d", cfg.Sync.BatchSize)
	}
	if cfg.Sync.Cooldown != 5*time.Minute {
		t.Fatalf("unexpected default cooldown %s", cfg.Sync.Cooldown)
	}
}

func TestLoad_SyncFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sync.yaml")
	yaml := "batch_size: 15\nbatch_delay_ms: 250\nskip_images: true\ncron: \"*/30 * * * *\"\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	t.Setenv("ESTATY_API_KEY", "k")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("SYNC_CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Sync.BatchSize != 15 {
		t.Fatalf("expected yaml batch size, got %d", cfg.Sync.BatchSize)
	}
	if cfg.Sync.BatchDelay != 250*time.Millisecond {
		t.Fatalf("expected yaml batch delay, got %s", cfg.Sync.BatchDelay)
	}
	if !cfg.Sync.SkipImages {
		t.Fatal("expected yaml skip_images")
	}
	if cfg.Scheduler.Cron != "*/30 * * * *" {
		t.Fatalf("expected yaml cron, got %q", cfg.Scheduler.Cron)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing API key")
	}
	cfg.Estaty.APIKey = "k"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database url")
	}
}
