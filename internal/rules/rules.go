// Package rules evaluates the operational rules applied while building the
// network graph.
package rules

import (
	"fmt"
	"math"
	"strings"

	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/routeerr"
)

type pair struct {
	origin, destination string
}

// Set is an ordered, immutable collection of rules.
type Set struct {
	rules      []models.Rule
	closures   map[pair]struct{}
	congestion map[string][]float64
}

// NewSet validates rules and indexes them. Congestion factors are kept in
// input order per line.
func NewSet(rules []models.Rule) (*Set, error) {
	s := &Set{
		rules:      make([]models.Rule, 0, len(rules)),
		closures:   make(map[pair]struct{}),
		congestion: make(map[string][]float64),
	}

	for i, rule := range rules {
		switch r := rule.(type) {
		case models.MaintenanceClosure:
			if strings.TrimSpace(r.Origin) == "" || strings.TrimSpace(r.Destination) == "" {
				return nil, routeerr.Data("rule %d: closure needs origin and destination", i)
			}
			s.closures[pair{r.Origin, r.Destination}] = struct{}{}
		case models.CongestionFactor:
			if strings.TrimSpace(r.Line) == "" {
				return nil, routeerr.Data("rule %d: congestion needs a line", i)
			}
			if r.Factor <= 0 || math.IsNaN(r.Factor) || math.IsInf(r.Factor, 0) {
				return nil, routeerr.Data("rule %d: congestion factor %v must be positive", i, r.Factor)
			}
			s.congestion[r.Line] = append(s.congestion[r.Line], r.Factor)
		case nil:
			return nil, routeerr.Data("rule %d is empty", i)
		default:
			return nil, routeerr.Data("rule %d: unsupported rule %T", i, rule)
		}
		s.rules = append(s.rules, rule)
	}

	return s, nil
}

// Closed reports whether a maintenance closure removes origin -> destination
func (s *Set) Closed(origin, destination string) bool {
	_, ok := s.closures[pair{origin, destination}]
	return ok
}

// AdjustTime applies every congestion factor for line to t, in rule order
func (s *Set) AdjustTime(line string, t float64) float64 {
	for _, factor := range s.congestion[line] {
		t *= factor
	}
	return t
}

// Rules returns a copy of the rules in input order
func (s *Set) Rules() []models.Rule {
	result := make([]models.Rule, len(s.rules))
	copy(result, s.rules)
	return result
}

// Len returns the number of rules
func (s *Set) Len() int {
	return len(s.rules)
}

// Check verifies that every rule references something the network knows.
// hasStation and hasLine are supplied by the graph builder.
func (s *Set) Check(hasStation, hasLine func(string) bool) error {
	for i, rule := range s.rules {
		switch r := rule.(type) {
		case models.MaintenanceClosure:
			for _, id := range []string{r.Origin, r.Destination} {
				if !hasStation(id) {
					return routeerr.Data("rule %d: closure references unknown station %q", i, id)
				}
			}
		case models.CongestionFactor:
			if !hasLine(r.Line) {
				return routeerr.Data("rule %d: congestion references unknown line %q", i, r.Line)
			}
		default:
			panic(fmt.Sprintf("rules: unexpected rule %T", rule))
		}
	}
	return nil
}
