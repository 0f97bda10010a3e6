package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jusunglee/transit-router/internal/models"
	"github.com/jusunglee/transit-router/internal/routeerr"
)

// Registry holds the immutable station records of a network.
// It is safe for concurrent reads; nothing mutates it after NewRegistry.
type Registry struct {
	stations       map[string]models.Station
	order          []string
	stationsByLine map[string][]string
	lines          []string
}

// NewRegistry validates stations and indexes them by id and line.
// Ids must be unique and every station must be served by at least one line.
func NewRegistry(stations []models.Station) (*Registry, error) {
	r := &Registry{
		stations:       make(map[string]models.Station, len(stations)),
		order:          make([]string, 0, len(stations)),
		stationsByLine: make(map[string][]string),
	}

	for _, station := range stations {
		if strings.TrimSpace(station.ID) == "" {
			return nil, routeerr.Data("station without id")
		}
		if _, dup := r.stations[station.ID]; dup {
			return nil, routeerr.Data("duplicate station %q", station.ID)
		}
		if len(station.Lines) == 0 {
			return nil, routeerr.Data("station %q has no lines", station.ID)
		}

		r.stations[station.ID] = station.Clone()
		r.order = append(r.order, station.ID)

		seen := make(map[string]bool, len(station.Lines))
		for _, line := range station.Lines {
			if seen[line] {
				continue
			}
			seen[line] = true
			r.stationsByLine[line] = append(r.stationsByLine[line], station.ID)
		}
	}

	r.lines = make([]string, 0, len(r.stationsByLine))
	for line := range r.stationsByLine {
		r.lines = append(r.lines, line)
	}
	sort.Strings(r.lines)

	return r, nil
}

// Has reports whether id is a registered station
func (r *Registry) Has(id string) bool {
	_, ok := r.stations[id]
	return ok
}

// Len returns the number of stations
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns station ids in load order
func (r *Registry) IDs() []string {
	result := make([]string, len(r.order))
	copy(result, r.order)
	return result
}

// LineCount returns how many lines serve the station, or false when unknown
func (r *Registry) LineCount(id string) (int, bool) {
	station, ok := r.stations[id]
	if !ok {
		return 0, false
	}
	return station.LineCount(), true
}

// HasLine reports whether any station is served by line
func (r *Registry) HasLine(line string) bool {
	_, ok := r.stationsByLine[line]
	return ok
}

// GetStation returns a copy of the station record
func (r *Registry) GetStation(id string) (models.Station, error) {
	station, ok := r.stations[id]
	if !ok {
		return models.Station{}, routeerr.UnknownStation(id)
	}
	return station.Clone(), nil
}

// GetStations returns every station in load order
func (r *Registry) GetStations() []models.Station {
	result := make([]models.Station, len(r.order))
	for i, id := range r.order {
		result[i] = r.stations[id].Clone()
	}
	return result
}

// GetStationsByLine returns the stations served by line in load order
func (r *Registry) GetStationsByLine(line string) ([]models.Station, error) {
	ids, ok := r.stationsByLine[line]
	if !ok {
		return nil, fmt.Errorf("line %s not found", line)
	}

	result := make([]models.Station, len(ids))
	for i, id := range ids {
		result[i] = r.stations[id].Clone()
	}
	return result, nil
}

// GetLines returns all lines, sorted
func (r *Registry) GetLines() []string {
	result := make([]string, len(r.lines))
	copy(result, r.lines)
	return result
}
