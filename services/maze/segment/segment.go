// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package segment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/AleutianAI/hexmaze/services/maze/hexgrid"
)

// LargeComponentThreshold is the size at which a component is counted as
// "large" for telemetry and routed to the remote solver by the
// orchestrator.
const LargeComponentThreshold = 8

// Bounds is a component's bounding box in layout coordinates, inflated
// by the hexagon radius so rendered cells fit inside it.
type Bounds struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// Component is a maximal set of cells mutually reachable via carved,
// geometrically valid open paths. Components are immutable once computed
// and together partition the maze's cell set exactly.
type Component struct {
	// Cells are the member cells, ordered by LinearID.
	Cells []*hexgrid.Cell `json:"cells"`

	// Size is len(Cells).
	Size int `json:"size"`

	// Bounds is the inflated bounding box of the member cells.
	Bounds Bounds `json:"bounds"`

	// Adjacency is the component-restricted adjacency list: only pairs
	// that are both carved and hex-adjacent appear, and only members of
	// this component. Neighbor lists are sorted by id.
	Adjacency map[int][]int `json:"-"`
}

// Contains reports whether the component holds the given cell id.
func (c *Component) Contains(id int) bool {
	_, ok := c.Adjacency[id]
	return ok
}

var (
	meter = otel.Meter("hexmaze.segment")

	largeComponents metric.Int64Counter
	metricsOnce     sync.Once
)

func initMetrics() {
	metricsOnce.Do(func() {
		largeComponents, _ = meter.Int64Counter(
			"maze_large_components_total",
			metric.WithDescription("Components at or above the large-component threshold"),
		)
	})
}

// Segment partitions the maze into connected components.
//
// Description:
//
//	Builds a validated adjacency map from the carved edges, keeping only
//	pairs that satisfy the hex parity rule, then runs iterative DFS with
//	an explicit stack over all cells in id order, opening a new
//	component at each unvisited cell.
//
// Outputs:
//   - []Component: the partition, ordered by smallest member id.
//   - error: ErrUnknownCell (wrapped with the offending ids) if an edge
//     references a cell missing from the maze.
//
// Running Segment twice on the same maze yields the same partition.
func Segment(m *hexgrid.Maze) ([]Component, error) {
	initMetrics()

	adjacency := make(map[int][]int, len(m.Cells))
	for _, e := range m.Edges {
		from, okF := m.Cell(e.From)
		to, okT := m.Cell(e.To)
		if !okF || !okT {
			return nil, fmt.Errorf("edge %d-%d: %w", e.From, e.To, ErrUnknownCell)
		}
		if !hexgrid.Adjacent(from.Position, to.Position) {
			// Carved but not a real hex border: not traversable.
			slog.Warn("skipping non-geometric edge",
				slog.Int("from", e.From),
				slog.Int("to", e.To),
			)
			continue
		}
		adjacency[e.From] = append(adjacency[e.From], e.To)
		adjacency[e.To] = append(adjacency[e.To], e.From)
	}
	for id := range adjacency {
		sort.Ints(adjacency[id])
	}

	ids := make([]int, 0, len(m.Cells))
	for id := range m.Cells {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	visited := make(map[int]bool, len(ids))
	var components []Component
	largeCount := 0

	for _, start := range ids {
		if visited[start] {
			continue
		}

		// Iterative DFS with an explicit stack.
		stack := []int{start}
		visited[start] = true
		var members []int
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, id)
			for _, nb := range adjacency[id] {
				if !visited[nb] {
					visited[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		sort.Ints(members)

		comp := buildComponent(m, members, adjacency)
		if comp.Size >= LargeComponentThreshold {
			largeCount++
		}
		components = append(components, comp)
	}

	largeComponents.Add(context.Background(), int64(largeCount))
	slog.Debug("segmented maze",
		slog.Int("components", len(components)),
		slog.Int("large_components", largeCount),
	)
	return components, nil
}

func buildComponent(m *hexgrid.Maze, members []int, adjacency map[int][]int) Component {
	radius := m.Dimensions.HexHeight / 2

	comp := Component{
		Cells:     make([]*hexgrid.Cell, 0, len(members)),
		Size:      len(members),
		Adjacency: make(map[int][]int, len(members)),
	}
	first := true
	for _, id := range members {
		cell := m.Cells[id]
		comp.Cells = append(comp.Cells, cell)
		comp.Adjacency[id] = append([]int(nil), adjacency[id]...)

		p := cell.Position
		if first {
			comp.Bounds = Bounds{MinX: p.X, MaxX: p.X, MinY: p.Y, MaxY: p.Y}
			first = false
			continue
		}
		if p.X < comp.Bounds.MinX {
			comp.Bounds.MinX = p.X
		}
		if p.X > comp.Bounds.MaxX {
			comp.Bounds.MaxX = p.X
		}
		if p.Y < comp.Bounds.MinY {
			comp.Bounds.MinY = p.Y
		}
		if p.Y > comp.Bounds.MaxY {
			comp.Bounds.MaxY = p.Y
		}
	}
	comp.Bounds.MinX -= radius
	comp.Bounds.MaxX += radius
	comp.Bounds.MinY -= radius
	comp.Bounds.MaxY += radius
	return comp
}
