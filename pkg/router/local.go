package router

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jusunglee/transit-router/internal/dataset"
	"github.com/jusunglee/transit-router/internal/feed"
	"github.com/jusunglee/transit-router/internal/logging"
	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/predictor"
)

// LocalClient implements the Client interface over an in-process Engine
// Rebuilds the engine in the background whenever the dataset file changes
type LocalClient struct {
	engine      atomic.Pointer[Engine]
	feedManager *feed.Manager
	workers     int
}

// NewLocal loads config.DataFile and starts watching it.
// The first load must succeed; later failures keep the previous engine.
func NewLocal(config Config, logger logrus.FieldLogger) (*LocalClient, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	pred, err := config.Predictor()
	if err != nil {
		return nil, err
	}

	c := &LocalClient{workers: config.Workers}
	c.feedManager = feed.NewManager(config.DataFile, config.UpdateInterval, func(ds *dataset.Dataset) error {
		engine, err := New(ds, pred, WithLogger(logger), WithConcurrency(config.Concurrency))
		if err != nil {
			return err
		}
		c.engine.Store(engine)
		return nil
	}, logger)

	if _, err := c.feedManager.Refresh(); err != nil {
		return nil, err
	}
	c.feedManager.Start()

	return c, nil
}

// NewStatic wraps an already built engine without file watching
func NewStatic(engine *Engine, workers int) *LocalClient {
	c := &LocalClient{workers: workers}
	c.engine.Store(engine)
	return c
}

// Close gracefully shuts down the local client
// Must be called to stop background goroutines and prevent leaks
func (c *LocalClient) Close() {
	if c.feedManager != nil {
		c.feedManager.Stop()
	}
}

// Engine returns the engine currently serving queries
func (c *LocalClient) Engine() *Engine {
	return c.engine.Load()
}

func (c *LocalClient) ComputeRoute(ctx context.Context, origin, destination string) (models.RouteResult, error) {
	return c.Engine().ComputeRoute(ctx, origin, destination)
}

// ComputeRouteWith answers one query with a caller-supplied predictor
func (c *LocalClient) ComputeRouteWith(ctx context.Context, pred predictor.Predictor, origin, destination string) (models.RouteResult, error) {
	return c.Engine().ComputeRouteWith(ctx, pred, origin, destination)
}

func (c *LocalClient) ComputeAll(ctx context.Context) (BatchReport, error) {
	return c.Engine().ComputeAll(ctx, c.workers)
}

func (c *LocalClient) GetStations() ([]models.Station, error) {
	return c.Engine().GetStations(), nil
}

func (c *LocalClient) GetStationsByLine(line string) ([]models.Station, error) {
	return c.Engine().GetStationsByLine(line)
}

func (c *LocalClient) GetLines() ([]string, error) {
	return c.Engine().GetLines(), nil
}

func (c *LocalClient) GetLastUpdate() time.Time {
	return c.Engine().BuiltAt()
}
