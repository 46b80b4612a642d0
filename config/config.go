package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Estaty    EstatyConfig
	Database  DatabaseConfig
	Server    ServerConfig
	Scheduler SchedulerConfig
	Sync      SyncConfig
	LogLevel  string
}

type EstatyConfig struct {
	BaseURL string
	APIKey  string
}

type DatabaseConfig struct {
	URL string
}

type ServerConfig struct {
	Addr string
}

type SchedulerConfig struct {
	Cron     string
	FullCron string
}

type SyncConfig struct {
	BatchSize      int
	BatchDelay     time.Duration
	Cooldown       time.Duration
	IncludeDrafts  bool
	SkipImages     bool
	SkipFloorPlans bool
}

// syncFile is the optional sync.yaml override, layered on top of the
// environment for knobs that get tuned more often than deployed.
type syncFile struct {
	BatchSize      int    `yaml:"batch_size"`
	BatchDelayMS   int    `yaml:"batch_delay_ms"`
	CooldownMin    int    `yaml:"cooldown_minutes"`
	IncludeDrafts  *bool  `yaml:"include_drafts"`
	SkipImages     *bool  `yaml:"skip_images"`
	SkipFloorPlans *bool  `yaml:"skip_floor_plans"`
	Cron           string `yaml:"cron"`
	FullCron       string `yaml:"full_cron"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Estaty: EstatyConfig{
			BaseURL: getEnv("ESTATY_API_URL", "https://panel.estaty.app"),
			APIKey:  os.Getenv("ESTATY_API_KEY"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Scheduler: SchedulerConfig{
			Cron:     os.Getenv("SYNC_CRON"),
			FullCron: os.Getenv("FULL_SYNC_CRON"),
		},
		Sync: SyncConfig{
			BatchSize:      getEnvInt("SYNC_BATCH_SIZE", 10),
			BatchDelay:     time.Duration(getEnvInt("SYNC_BATCH_DELAY_MS", 100)) * time.Millisecond,
			Cooldown:       time.Duration(getEnvInt("SYNC_COOLDOWN_MINUTES", 5)) * time.Minute,
			IncludeDrafts:  os.Getenv("SYNC_INCLUDE_DRAFTS") == "true",
			SkipImages:     os.Getenv("SYNC_SKIP_IMAGES") == "true",
			SkipFloorPlans: os.Getenv("SYNC_SKIP_FLOOR_PLANS") == "true",
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.loadSyncFile(getEnv("SYNC_CONFIG_PATH", "sync.yaml")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings without which the daemon cannot do
// anything useful.
func (c *Config) Validate() error {
	if c.Estaty.APIKey == "" {
		return fmt.Errorf("ESTATY_API_KEY is required")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

func (c *Config) loadSyncFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var f syncFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if f.BatchSize > 0 {
		c.Sync.BatchSize = f.BatchSize
	}
	if f.BatchDelayMS > 0 {
		c.Sync.BatchDelay = time.Duration(f.BatchDelayMS) * time.Millisecond
	}
	if f.CooldownMin > 0 {
		c.Sync.Cooldown = time.Duration(f.CooldownMin) * time.Minute
	}
	if f.IncludeDrafts != nil {
		c.Sync.IncludeDrafts = *f.IncludeDrafts
	}
	if f.SkipImages != nil {
		c.Sync.SkipImages = *f.SkipImages
	}
	if f.SkipFloorPlans != nil {
		c.Sync.SkipFloorPlans = *f.SkipFloorPlans
	}
	if f.Cron != "" {
		c.Scheduler.Cron = f.Cron
	}
	if f.FullCron != "" {
		c.Scheduler.FullCron = f.FullCron
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
