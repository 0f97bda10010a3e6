// Package planner computes shortest routes over predicted edge weights.
//
// The base graph is shared and read-only. Every query computes its own
// weight overlay (one slot per edge id) before searching, so concurrent
// queries, including ones using different predictors, never observe each
// other's weights.
package planner

import (
	"context"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/transit-router/internal/graph"
	"github.com/jusunglee/transit-router/internal/logging"
	"github.com/jusunglee/transit-router/internal/predictor"
	"github.com/jusunglee/transit-router/internal/routeerr"
	"github.com/jusunglee/transit-router/internal/store"
)

// MinWeight is the floor applied to every predicted edge weight
const MinWeight = 5.0

// Path is an ordered station sequence with the weight of each traversed edge.
// Costs[i] and Edges[i] describe the hop Stations[i] -> Stations[i+1].
type Path struct {
	Stations []string
	Costs    []float64
	Edges    []int
}

// Planner answers route queries against one base graph
type Planner struct {
	graph       *graph.Graph
	registry    *store.Registry
	concurrency int
	logger      logrus.FieldLogger
}

// Option configures a Planner
type Option func(*Planner)

// WithConcurrency bounds the number of in-flight predictor calls per query
func WithConcurrency(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLogger sets the logger used for query diagnostics
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a planner over g. registry supplies the origin line counts
// used as predictor features.
func New(g *graph.Graph, registry *store.Registry, opts ...Option) *Planner {
	p := &Planner{
		graph:       g,
		registry:    registry,
		concurrency: runtime.GOMAXPROCS(0),
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Weights asks pred for the cost of every edge and returns the clamped
// weights indexed by edge id.
func (p *Planner) Weights(ctx context.Context, pred predictor.Predictor) ([]float64, error) {
	weights := make([]float64, p.graph.Len())

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.concurrency)

	for id := 0; id < p.graph.Len(); id++ {
		if egCtx.Err() != nil {
			break
		}
		id := id
		eg.Go(func() error {
			e := p.graph.Edge(id)
			lineCount, ok := p.registry.LineCount(e.Origin)
			if !ok {
				return routeerr.UnknownStation(e.Origin)
			}

			raw, err := pred.Predict(egCtx, predictor.Features{
				Distance:        e.Distance,
				NominalTime:     e.AdjustedTime,
				OriginLineCount: lineCount,
			})
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return routeerr.Predictor(e.Origin, e.Destination, err)
			}
			if err := predictor.Validate(raw); err != nil {
				return routeerr.Predictor(e.Origin, e.Destination, err)
			}

			weights[id] = math.Max(MinWeight, raw)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return weights, nil
}

// Route finds the cheapest path from origin to destination under the
// weights produced by pred.
func (p *Planner) Route(ctx context.Context, pred predictor.Predictor, origin, destination string) (Path, error) {
	if !p.registry.Has(origin) {
		return Path{}, routeerr.UnknownStation(origin)
	}
	if !p.registry.Has(destination) {
		return Path{}, routeerr.UnknownStation(destination)
	}

	weights, err := p.Weights(ctx, pred)
	if err != nil {
		return Path{}, err
	}

	path, err := shortestPath(ctx, p.graph, weights, origin, destination)
	if err != nil {
		return Path{}, err
	}

	p.logger.WithFields(logrus.Fields{
		"origin":      origin,
		"destination": destination,
		"hops":        len(path.Edges),
	}).Debug("route computed")

	return path, nil
}
