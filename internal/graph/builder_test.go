package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/routeerr"
	"github.com/jusunglee/transit-router/internal/rules"
	"github.com/jusunglee/transit-router/internal/store"
)

func newRegistry(t *testing.T) *store.Registry {
	t.Helper()
	r, err := store.NewRegistry([]models.Station{
		{ID: "A", Lines: []string{"L1"}},
		{ID: "B", Lines: []string{"L1", "L2"}},
		{ID: "C", Lines: []string{"L1"}},
	})
	require.NoError(t, err)
	return r
}

func newRules(t *testing.T, rs ...models.Rule) *rules.Set {
	t.Helper()
	s, err := rules.NewSet(rs)
	require.NoError(t, err)
	return s
}

func conn(origin, destination, line string, time, distance float64) models.Connection {
	return models.Connection{Origin: origin, Destination: destination, Line: line, Time: time, Distance: distance}
}

func TestBuildWithoutRules(t *testing.T) {
	connections := []models.Connection{
		conn("A", "B", "L1", 10, 2),
		conn("B", "C", "L1", 9, 3),
		conn("C", "A", "L1", 7, 1),
	}

	g, err := Build(newRegistry(t), connections, newRules(t))
	require.NoError(t, err)
	require.Equal(t, 3, g.Len())

	for _, e := range g.Edges() {
		assert.Equal(t, e.NominalTime, e.AdjustedTime)
		assert.InDelta(t, e.NominalTime/e.Distance, e.BaseWeight, 1e-9)
	}
	assert.Equal(t, []string{"A", "B", "C"}, g.Stations())
}

func TestBuildIsDirected(t *testing.T) {
	g, err := Build(newRegistry(t), []models.Connection{conn("A", "B", "L1", 10, 1)}, newRules(t))
	require.NoError(t, err)

	assert.True(t, g.HasEdge("A", "B"))
	assert.False(t, g.HasEdge("B", "A"))
	assert.Empty(t, g.Outgoing("B"))
}

func TestBuildAppliesClosures(t *testing.T) {
	connections := []models.Connection{
		conn("A", "B", "L1", 10, 1),
		conn("B", "A", "L1", 10, 1),
		conn("B", "C", "L1", 10, 1),
	}
	ruleSet := newRules(t, models.MaintenanceClosure{Origin: "A", Destination: "B"})

	first, err := Build(newRegistry(t), connections, ruleSet)
	require.NoError(t, err)
	assert.False(t, first.HasEdge("A", "B"))
	assert.True(t, first.HasEdge("B", "A"))
	assert.Equal(t, 2, first.Len())

	second, err := Build(newRegistry(t), connections, ruleSet)
	require.NoError(t, err)
	assert.Equal(t, first.Edges(), second.Edges())
}

func TestBuildAppliesCongestion(t *testing.T) {
	connections := []models.Connection{
		conn("A", "B", "L1", 10, 2),
		conn("B", "C", "L2", 10, 1),
	}
	ruleSet := newRules(t,
		models.CongestionFactor{Line: "L1", Factor: 1.5},
		models.CongestionFactor{Line: "L1", Factor: 2.0},
	)

	g, err := Build(newRegistry(t), connections, ruleSet)
	require.NoError(t, err)

	ab := g.EdgesBetween("A", "B")
	require.Len(t, ab, 1)
	assert.Equal(t, 10.0, ab[0].NominalTime)
	assert.InDelta(t, 30.0, ab[0].AdjustedTime, 1e-9)
	assert.InDelta(t, 15.0, ab[0].BaseWeight, 1e-9)

	bc := g.EdgesBetween("B", "C")
	require.Len(t, bc, 1)
	assert.Equal(t, 10.0, bc[0].AdjustedTime)
}

func TestBuildParallelEdges(t *testing.T) {
	connections := []models.Connection{
		conn("A", "B", "L1", 10, 1),
		conn("A", "B", "L2", 6, 1),
	}

	g, err := Build(newRegistry(t), connections, newRules(t))
	require.NoError(t, err)

	edges := g.EdgesBetween("A", "B")
	require.Len(t, edges, 2)
	assert.Equal(t, "L1", edges[0].Line)
	assert.Equal(t, "L2", edges[1].Line)
	assert.Equal(t, []int{0, 1}, g.Outgoing("A"))
}

func TestBuildRejectsInvalidData(t *testing.T) {
	tests := []struct {
		name        string
		connections []models.Connection
		rules       []models.Rule
	}{
		{"unknown origin", []models.Connection{conn("Z", "B", "L1", 10, 1)}, nil},
		{"unknown destination", []models.Connection{conn("A", "Z", "L1", 10, 1)}, nil},
		{"zero distance", []models.Connection{conn("A", "B", "L1", 10, 0)}, nil},
		{"negative distance", []models.Connection{conn("A", "B", "L1", 10, -2)}, nil},
		{"zero time", []models.Connection{conn("A", "B", "L1", 0, 1)}, nil},
		{"duplicate connection", []models.Connection{conn("A", "B", "L1", 10, 1), conn("A", "B", "L1", 12, 1)}, nil},
		{
			"closure on unknown station",
			[]models.Connection{conn("A", "B", "L1", 10, 1)},
			[]models.Rule{models.MaintenanceClosure{Origin: "A", Destination: "Z"}},
		},
		{
			"congestion on unknown line",
			[]models.Connection{conn("A", "B", "L1", 10, 1)},
			[]models.Rule{models.CongestionFactor{Line: "L9", Factor: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(newRegistry(t), tt.connections, newRules(t, tt.rules...))
			assert.ErrorIs(t, err, routeerr.ErrData)
		})
	}
}

func TestBuildValidatesClosedConnections(t *testing.T) {
	connections := []models.Connection{conn("A", "B", "L1", 10, 0)}
	ruleSet := newRules(t, models.MaintenanceClosure{Origin: "A", Destination: "B"})

	_, err := Build(newRegistry(t), connections, ruleSet)
	assert.ErrorIs(t, err, routeerr.ErrData)
}

func TestCongestionOnConnectionOnlyLine(t *testing.T) {
	connections := []models.Connection{conn("A", "B", models.UnknownLine, 10, 1)}
	ruleSet := newRules(t, models.CongestionFactor{Line: models.UnknownLine, Factor: 3})

	g, err := Build(newRegistry(t), connections, ruleSet)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, g.Edge(0).AdjustedTime, 1e-9)
}
