// Package graph builds the directed, rule-adjusted transit graph.
//
// A Graph is an arena of edges plus per-station adjacency lists holding
// edge IDs in insertion order. It is never mutated after Build, so any
// number of route queries may read it concurrently. Per-query weights are
// kept outside the graph, indexed by Edge.ID.
package graph

// Edge is a directed link in the built graph.
type Edge struct {
	ID           int
	Origin       string
	Destination  string
	Line         string
	NominalTime  float64
	AdjustedTime float64
	Distance     float64
	BaseWeight   float64
}

// Graph is the immutable base graph shared by all queries.
type Graph struct {
	edges    []Edge
	out      map[string][]int
	stations []string
}

// Len returns the number of edges
func (g *Graph) Len() int {
	return len(g.edges)
}

// Edge returns the edge with the given id
func (g *Graph) Edge(id int) Edge {
	return g.edges[id]
}

// Edges returns a copy of all edges in insertion order
func (g *Graph) Edges() []Edge {
	result := make([]Edge, len(g.edges))
	copy(result, g.edges)
	return result
}

// Outgoing returns the ids of edges leaving station, in insertion order.
// The returned slice must not be modified.
func (g *Graph) Outgoing(station string) []int {
	return g.out[station]
}

// EdgesBetween returns every edge origin -> destination
func (g *Graph) EdgesBetween(origin, destination string) []Edge {
	var result []Edge
	for _, id := range g.out[origin] {
		if g.edges[id].Destination == destination {
			result = append(result, g.edges[id])
		}
	}
	return result
}

// HasEdge reports whether at least one edge origin -> destination exists
func (g *Graph) HasEdge(origin, destination string) bool {
	for _, id := range g.out[origin] {
		if g.edges[id].Destination == destination {
			return true
		}
	}
	return false
}

// Stations returns the registry ids the graph was built over
func (g *Graph) Stations() []string {
	result := make([]string, len(g.stations))
	copy(result, g.stations)
	return result
}
