// Package router is the public entry point of the routing engine.
//
// An Engine is built once from a dataset and answers route queries
// concurrently. LocalClient wraps an Engine with background reloading of
// the dataset file.
package router

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jusunglee/transit-router/internal/dataset"
	"github.com/jusunglee/transit-router/internal/format"
	"github.com/jusunglee/transit-router/internal/graph"
	"github.com/jusunglee/transit-router/internal/logging"
	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/planner"
	"github.com/jusunglee/transit-router/internal/predictor"
	"github.com/jusunglee/transit-router/internal/rules"
	"github.com/jusunglee/transit-router/internal/store"
)

// Engine answers route queries over one immutable network
type Engine struct {
	registry  *store.Registry
	rules     *rules.Set
	graph     *graph.Graph
	planner   *planner.Planner
	predictor predictor.Predictor
	logger    logrus.FieldLogger
	builtAt   time.Time
}

type options struct {
	logger      logrus.FieldLogger
	concurrency int
}

// Option configures an Engine
type Option func(*options)

// WithLogger sets the engine logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConcurrency bounds concurrent predictor calls within one query
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// New builds the registry, rule set and graph for ds. Any data error is
// returned and no engine is created. A nil pred predicts nominal times.
func New(ds *dataset.Dataset, pred predictor.Predictor, opts ...Option) (*Engine, error) {
	if pred == nil {
		pred = predictor.NominalTime{}
	}
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	registry, err := store.NewRegistry(ds.Stations)
	if err != nil {
		return nil, err
	}
	ruleSet, err := rules.NewSet(ds.Rules)
	if err != nil {
		return nil, err
	}
	g, err := graph.Build(registry, ds.Connections, ruleSet)
	if err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"stations":    registry.Len(),
		"connections": len(ds.Connections),
		"edges":       g.Len(),
		"rules":       ruleSet.Len(),
	}).Info("network built")

	return &Engine{
		registry:  registry,
		rules:     ruleSet,
		graph:     g,
		planner:   planner.New(g, registry, planner.WithConcurrency(o.concurrency), planner.WithLogger(o.logger)),
		predictor: pred,
		logger:    o.logger,
		builtAt:   time.Now(),
	}, nil
}

// ComputeRoute finds the fastest route between two stations using the
// engine's predictor
func (e *Engine) ComputeRoute(ctx context.Context, origin, destination string) (models.RouteResult, error) {
	return e.ComputeRouteWith(ctx, e.predictor, origin, destination)
}

// ComputeRouteWith is ComputeRoute with an explicit predictor; nil falls
// back to the engine's own
func (e *Engine) ComputeRouteWith(ctx context.Context, pred predictor.Predictor, origin, destination string) (models.RouteResult, error) {
	if pred == nil {
		pred = e.predictor
	}
	path, err := e.planner.Route(ctx, pred, origin, destination)
	if err != nil {
		return models.RouteResult{}, err
	}
	return format.Route(e.registry, origin, destination, path)
}

// Graph returns the base graph
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// Rules returns the rules the graph was built with
func (e *Engine) Rules() []models.Rule {
	return e.rules.Rules()
}

func (e *Engine) GetStations() []models.Station {
	return e.registry.GetStations()
}

func (e *Engine) GetStationsByLine(line string) ([]models.Station, error) {
	return e.registry.GetStationsByLine(line)
}

func (e *Engine) GetLines() []string {
	return e.registry.GetLines()
}

// BuiltAt returns when the engine was constructed
func (e *Engine) BuiltAt() time.Time {
	return e.builtAt
}
