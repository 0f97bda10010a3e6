package router

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/routeerr"
)

// Failure records a query that produced no route
type Failure struct {
	Origen  string `json:"origen"`
	Destino string `json:"destino"`
	Error   string `json:"error"`
}

// BatchReport collects the outcome of ComputeAll in pair order
type BatchReport struct {
	Resultados []models.RouteResult `json:"resultados"`
	Fallos     []Failure            `json:"fallos"`
}

// ComputeAll computes a route for every ordered pair of distinct stations,
// in registry order, running up to workers queries at once. Query-scoped
// errors are reported as failures; cancellation aborts the batch.
func (e *Engine) ComputeAll(ctx context.Context, workers int) (BatchReport, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ids := e.registry.IDs()
	type pair struct{ origin, destination string }
	pairs := make([]pair, 0, len(ids)*(len(ids)-1))
	for _, origin := range ids {
		for _, destination := range ids {
			if origin != destination {
				pairs = append(pairs, pair{origin, destination})
			}
		}
	}

	results := make([]models.RouteResult, len(pairs))
	errs := make([]error, len(pairs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, p := range pairs {
		if egCtx.Err() != nil {
			break
		}
		i, p := i, p
		eg.Go(func() error {
			result, err := e.ComputeRoute(egCtx, p.origin, p.destination)
			if err != nil {
				if routeerr.IsQueryError(err) {
					errs[i] = err
					return nil
				}
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return BatchReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return BatchReport{}, err
	}

	report := BatchReport{
		Resultados: make([]models.RouteResult, 0, len(pairs)),
		Fallos:     []Failure{},
	}
	for i, p := range pairs {
		if errs[i] != nil {
			report.Fallos = append(report.Fallos, Failure{
				Origen:  p.origin,
				Destino: p.destination,
				Error:   errs[i].Error(),
			})
			continue
		}
		report.Resultados = append(report.Resultados, results[i])
	}

	e.logger.WithFields(logrus.Fields{
		"pairs":    len(pairs),
		"routes":   len(report.Resultados),
		"failures": len(report.Fallos),
	}).Info("batch completed")

	return report, nil
}
