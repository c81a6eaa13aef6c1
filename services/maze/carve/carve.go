// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package carve populates a hex grid with carved edges.
//
// Carving is a two-pass process: a probabilistic carve pass followed by a
// degree-reduction pass. Carving with the low-branching distributions
// alone does not reliably bound maximum degree, so the corrective pass
// trims hub cells back to roughly degree 1-4.
package carve

import (
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/AleutianAI/hexmaze/services/maze/hexgrid"
)

// Weighted edge-count distributions. An entry is picked uniformly, so
// repetition encodes weight.
var (
	// edgeCountFewNeighbors applies to cells with at most 4 in-bounds
	// neighbors (edge and corner cells): bias toward lower branching.
	edgeCountFewNeighbors = []int{0, 1, 1, 1, 2, 2}

	// edgeCountManyNeighbors applies to interior cells.
	edgeCountManyNeighbors = []int{0, 0, 1, 1, 2, 2, 2}

	// pruneCount is how many edges to remove from an over-connected cell.
	pruneCount = []int{1, 2, 2}
)

// maxDegreeBeforePrune is the degree at which a cell is considered an
// over-connected hub and enters the reduction pass.
const maxDegreeBeforePrune = 5

// Options configures carving.
type Options struct {
	// Rand is the randomness source. Defaults to a time-seeded source.
	Rand *rand.Rand
}

// Option is a functional option for Carve.
type Option func(*Options)

// WithRand sets the randomness source used during carving.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) {
		o.Rand = r
	}
}

// edgeKey identifies a canonical edge for set membership.
type edgeKey struct {
	from, to int
}

func keyOf(e hexgrid.Edge) edgeKey {
	return edgeKey{from: e.From, to: e.To}
}

// Carve populates m.Edges and every cell's OpenPaths.
//
// Description:
//
//	Pass one walks every cell in linear-id order, draws an edge count
//	from the weighted distribution matching its neighbor count, and
//	carves to that many distinct neighbors chosen without replacement.
//	Edges are recorded canonically (from < to) in a set so the same
//	connection seen from both endpoints cannot duplicate.
//
//	Pass two computes resulting degrees and, for every cell at degree 5
//	or above, removes 1-2 of its edges. Removal is idempotent: an edge
//	shared by two hub cells may already be gone by the time the second
//	hub is processed.
//
//	Finally each cell's OpenPaths is recomputed from the surviving edge
//	set by re-deriving the direction each edge represents.
//
// Carving always terminates and never fails.
func Carve(m *hexgrid.Maze, opts ...Option) {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	rng := options.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	edges := make(map[edgeKey]hexgrid.Edge)
	total := m.Dimensions.Rows * m.Dimensions.Cols

	// Pass one: probabilistic carve.
	for id := 1; id <= total; id++ {
		cell, ok := m.Cell(id)
		if !ok {
			continue
		}
		neighbors := cell.ValidNeighbors()
		dist := edgeCountManyNeighbors
		if len(neighbors) <= 4 {
			dist = edgeCountFewNeighbors
		}
		want := dist[rng.Intn(len(dist))]
		if want > len(neighbors) {
			want = len(neighbors)
		}

		// Sample without replacement.
		rng.Shuffle(len(neighbors), func(i, j int) {
			neighbors[i], neighbors[j] = neighbors[j], neighbors[i]
		})
		for _, nb := range neighbors[:want] {
			e := hexgrid.NewEdge(id, nb)
			edges[keyOf(e)] = e
		}
	}

	// Pass two: degree reduction.
	degree := make(map[int]int, total)
	for k := range edges {
		degree[k.from]++
		degree[k.to]++
	}
	for id := 1; id <= total; id++ {
		if degree[id] < maxDegreeBeforePrune {
			continue
		}
		remove := pruneCount[rng.Intn(len(pruneCount))]

		// Collect this cell's surviving edges in deterministic order
		// before picking victims.
		own := make([]edgeKey, 0, hexgrid.NumDirections)
		for k := range edges {
			if k.from == id || k.to == id {
				own = append(own, k)
			}
		}
		sort.Slice(own, func(i, j int) bool {
			if own[i].from != own[j].from {
				return own[i].from < own[j].from
			}
			return own[i].to < own[j].to
		})
		rng.Shuffle(len(own), func(i, j int) {
			own[i], own[j] = own[j], own[i]
		})

		for _, k := range own {
			if remove == 0 {
				break
			}
			if _, exists := edges[k]; !exists {
				continue
			}
			delete(edges, k)
			degree[k.from]--
			degree[k.to]--
			remove--
		}
	}

	// Materialize the final edge list in canonical order.
	m.Edges = make([]hexgrid.Edge, 0, len(edges))
	for _, e := range edges {
		m.Edges = append(m.Edges, e)
	}
	sort.Slice(m.Edges, func(i, j int) bool {
		if m.Edges[i].From != m.Edges[j].From {
			return m.Edges[i].From < m.Edges[j].From
		}
		return m.Edges[i].To < m.Edges[j].To
	})

	deriveOpenPaths(m)

	slog.Debug("carved maze",
		slog.Int("cells", total),
		slog.Int("edges", len(m.Edges)),
	)
}

// deriveOpenPaths recomputes every cell's OpenPaths from the final edge
// set, mapping each edge back to the direction index it represents.
func deriveOpenPaths(m *hexgrid.Maze) {
	for _, cell := range m.Cells {
		cell.OpenPaths = make(map[hexgrid.Direction]struct{})
	}
	for _, e := range m.Edges {
		from, okF := m.Cell(e.From)
		to, okT := m.Cell(e.To)
		if !okF || !okT {
			continue
		}
		for d := hexgrid.Direction(0); d < hexgrid.NumDirections; d++ {
			if nb, ok := from.Neighbor(d); ok && nb == e.To {
				from.OpenPaths[d] = struct{}{}
				to.OpenPaths[d.Opposite()] = struct{}{}
				break
			}
		}
	}
}
