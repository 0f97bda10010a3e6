package router

import (
	"context"
	"runtime"
	"time"

	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/predictor"
)

// Client defines the interface for querying a transit network
// Abstracts how the network is loaded and kept current behind common interface
type Client interface {
	ComputeRoute(ctx context.Context, origin, destination string) (models.RouteResult, error)
	ComputeAll(ctx context.Context) (BatchReport, error)

	GetStations() ([]models.Station, error)
	GetStationsByLine(line string) ([]models.Station, error)
	GetLines() ([]string, error)

	GetLastUpdate() time.Time
}

// Config holds configuration for the routing client
// PredictorURL selects the remote model; ModelFile a local linear model;
// with neither, edges cost their rule-adjusted nominal time
type Config struct {
	DataFile         string
	UpdateInterval   time.Duration
	PredictorURL     string
	PredictorAPIKey  string
	PredictorTimeout time.Duration
	ModelFile        string
	Concurrency      int
	Workers          int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		DataFile:         "datos.json",
		UpdateInterval:   60 * time.Second,
		PredictorTimeout: 10 * time.Second,
		Concurrency:      runtime.GOMAXPROCS(0),
		Workers:          runtime.GOMAXPROCS(0),
	}
}

// Predictor builds the cost predictor selected by the configuration
func (c Config) Predictor() (predictor.Predictor, error) {
	switch {
	case c.PredictorURL != "":
		return predictor.NewRemote(c.PredictorURL, c.PredictorAPIKey, c.PredictorTimeout), nil
	case c.ModelFile != "":
		model, err := predictor.LoadLinear(c.ModelFile)
		if err != nil {
			return nil, err
		}
		return model, nil
	default:
		return predictor.NominalTime{}, nil
	}
}
