package planner

import (
	"container/heap"
	"context"

	"github.com/jusunglee/transit-router/internal/graph"
	"github.com/jusunglee/transit-router/internal/routeerr"
)

// shortestPath runs Dijkstra from origin using weights[edge.ID] as cost.
// Ties are resolved by discovery order: equal-priority entries pop in push
// order, and a station's predecessor only changes on a strictly shorter
// distance.
func shortestPath(ctx context.Context, g *graph.Graph, weights []float64, origin, destination string) (Path, error) {
	dist := map[string]float64{origin: 0}
	via := make(map[string]int)
	done := make(map[string]bool)

	pq := &priorityQueue{}
	seq := 0
	heap.Push(pq, &pqItem{node: origin, priority: 0, seq: seq})

	for pq.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return Path{}, err
		}

		current := heap.Pop(pq).(*pqItem)
		if done[current.node] {
			continue
		}
		done[current.node] = true
		if current.node == destination {
			break
		}

		for _, id := range g.Outgoing(current.node) {
			next := g.Edge(id).Destination
			if done[next] {
				continue
			}
			tentative := current.priority + weights[id]
			if old, ok := dist[next]; !ok || tentative < old {
				dist[next] = tentative
				via[next] = id
				seq++
				heap.Push(pq, &pqItem{node: next, priority: tentative, seq: seq})
			}
		}
	}

	if !done[destination] {
		return Path{}, routeerr.RouteNotFound(origin, destination)
	}

	return reconstructPath(g, weights, via, origin, destination), nil
}

func reconstructPath(g *graph.Graph, weights []float64, via map[string]int, origin, destination string) Path {
	var edges []int
	for current := destination; current != origin; {
		id := via[current]
		edges = append(edges, id)
		current = g.Edge(id).Origin
	}

	path := Path{
		Stations: make([]string, 0, len(edges)+1),
		Costs:    make([]float64, 0, len(edges)),
		Edges:    make([]int, 0, len(edges)),
	}
	path.Stations = append(path.Stations, origin)
	for i := len(edges) - 1; i >= 0; i-- {
		id := edges[i]
		path.Stations = append(path.Stations, g.Edge(id).Destination)
		path.Costs = append(path.Costs, weights[id])
		path.Edges = append(path.Edges, id)
	}
	return path
}

type pqItem struct {
	node     string
	priority float64
	seq      int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*pqItem))
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}
