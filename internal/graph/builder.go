package graph

import (
	"math"

	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/routeerr"
	"github.com/jusunglee/transit-router/internal/rules"
	"github.com/jusunglee/transit-router/internal/store"
)

type edgeKey struct {
	origin, destination, line string
}

// Build turns raw connections into the base graph.
//
// Connections closed by a maintenance rule are dropped. Congestion factors
// for the connection's line multiply its time in rule order, and the base
// weight is the adjusted time divided by distance. Parallel edges between
// the same stations are kept when their lines differ; repeating the same
// (origin, destination, line) is a data error.
func Build(registry *store.Registry, connections []models.Connection, ruleSet *rules.Set) (*Graph, error) {
	lines := make(map[string]bool)
	for _, c := range connections {
		lines[c.Line] = true
	}
	hasLine := func(line string) bool {
		return lines[line] || registry.HasLine(line)
	}
	if err := ruleSet.Check(registry.Has, hasLine); err != nil {
		return nil, err
	}

	g := &Graph{
		edges:    make([]Edge, 0, len(connections)),
		out:      make(map[string][]int),
		stations: registry.IDs(),
	}
	seen := make(map[edgeKey]int)

	for i, c := range connections {
		if !registry.Has(c.Origin) {
			return nil, routeerr.Data("connection %d: unknown origin station %q", i, c.Origin)
		}
		if !registry.Has(c.Destination) {
			return nil, routeerr.Data("connection %d: unknown destination station %q", i, c.Destination)
		}
		if !positive(c.Distance) {
			return nil, routeerr.Data("connection %d (%s -> %s): distance %v must be positive", i, c.Origin, c.Destination, c.Distance)
		}
		if !positive(c.Time) {
			return nil, routeerr.Data("connection %d (%s -> %s): time %v must be positive", i, c.Origin, c.Destination, c.Time)
		}

		if ruleSet.Closed(c.Origin, c.Destination) {
			continue
		}

		key := edgeKey{c.Origin, c.Destination, c.Line}
		if prev, dup := seen[key]; dup {
			return nil, routeerr.Data("connection %d duplicates connection %d (%s -> %s on line %s)", i, prev, c.Origin, c.Destination, c.Line)
		}
		seen[key] = i

		adjusted := ruleSet.AdjustTime(c.Line, c.Time)
		id := len(g.edges)
		g.edges = append(g.edges, Edge{
			ID:           id,
			Origin:       c.Origin,
			Destination:  c.Destination,
			Line:         c.Line,
			NominalTime:  c.Time,
			AdjustedTime: adjusted,
			Distance:     c.Distance,
			BaseWeight:   adjusted / c.Distance,
		})
		g.out[c.Origin] = append(g.out[c.Origin], id)
	}

	return g, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
