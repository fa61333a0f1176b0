// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds configuration shared by the API and worker binaries.
type AppConfig struct {
	// Port is the HTTP listen port.
	Port string

	// Environment is the deployment environment name.
	Environment string

	// GencatBaseURL overrides the Gencat open-data base URL.
	GencatBaseURL string

	// GencatAppToken is the Socrata application token.
	GencatAppToken string

	// ImportInterval controls the periodic ingestion schedule.
	ImportInterval time.Duration

	// BackfillPacing is the delay between provider calls during backfill.
	BackfillPacing time.Duration

	// PubSubProjectID and PubSubSubscription configure the worker's job
	// subscription; ingestion jobs are disabled when either is empty.
	PubSubProjectID    string
	PubSubSubscription string
}

// Load reads configuration from the environment, tolerating a missing
// .env file.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port:               getenvDefault("APP_PORT", "8080"),
		Environment:        getenvDefault("APP_ENV", "development"),
		GencatBaseURL:      os.Getenv("GENCAT_API_URL"),
		GencatAppToken:     os.Getenv("GENCAT_API_TOKEN"),
		PubSubProjectID:    os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubSubscription: os.Getenv("PUBSUB_SUBSCRIPTION"),
	}

	interval, err := time.ParseDuration(getenvDefault("IMPORT_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMPORT_INTERVAL: %w", err)
	}
	cfg.ImportInterval = interval

	pacing, err := time.ParseDuration(getenvDefault("BACKFILL_PACING", "500ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKFILL_PACING: %w", err)
	}
	cfg.BackfillPacing = pacing

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
