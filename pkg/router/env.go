package router

import (
	"os"
	"strconv"
	"time"
)

// Environment variables read by ConfigFromEnv
const (
	EnvDataFile        = "TRANSIT_DATA_FILE"
	EnvUpdateInterval  = "TRANSIT_UPDATE_INTERVAL"
	EnvPredictorURL    = "PREDICTOR_URL"
	EnvPredictorAPIKey = "PREDICTOR_API_KEY"
	EnvModelFile       = "PREDICTOR_MODEL_FILE"
	EnvConcurrency     = "TRANSIT_CONCURRENCY"
	EnvWorkers         = "TRANSIT_WORKERS"
)

// ConfigFromEnv returns DefaultConfig overridden by any environment
// variables that are set. Unparseable numbers and durations are ignored.
func ConfigFromEnv() Config {
	c := DefaultConfig()

	if v := os.Getenv(EnvDataFile); v != "" {
		c.DataFile = v
	}
	if v, err := time.ParseDuration(os.Getenv(EnvUpdateInterval)); err == nil {
		c.UpdateInterval = v
	}
	if v := os.Getenv(EnvPredictorURL); v != "" {
		c.PredictorURL = v
	}
	if v := os.Getenv(EnvPredictorAPIKey); v != "" {
		c.PredictorAPIKey = v
	}
	if v := os.Getenv(EnvModelFile); v != "" {
		c.ModelFile = v
	}
	if v, err := strconv.Atoi(os.Getenv(EnvConcurrency)); err == nil && v > 0 {
		c.Concurrency = v
	}
	if v, err := strconv.Atoi(os.Getenv(EnvWorkers)); err == nil && v > 0 {
		c.Workers = v
	}

	return c
}
