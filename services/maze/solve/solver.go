// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package solve finds near-longest simple paths in maze components by
// bounded exhaustive search.
//
// The search is best-effort by design: it runs DFS backtracking from
// every candidate start node under a wall-clock deadline and returns the
// best path found when either the search space or the budget is
// exhausted. Timing out is a designed degradation path, not an error.
package solve

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/hexmaze/services/maze/hexgrid"
)

const (
	// DefaultDeadline is the wall-clock budget for one component.
	DefaultDeadline = 7 * time.Second

	// MaxNodeCount is the largest component the solver accepts; the
	// orchestrator aborts anything at or above it as infeasible.
	MaxNodeCount = 2048

	// deadlineCheckInterval is how many recursive steps pass between
	// clock reads.
	deadlineCheckInterval = 64
)

var (
	tracer = otel.Tracer("hexmaze.solve")
	meter  = otel.Meter("hexmaze.solve")

	searchLatency metric.Float64Histogram
	metricsOnce   sync.Once
)

func initMetrics() {
	metricsOnce.Do(func() {
		searchLatency, _ = meter.Float64Histogram(
			"maze_solve_duration_seconds",
			metric.WithDescription("Duration of longest-path searches"),
			metric.WithUnit("s"),
		)
	})
}

// Options configures a search.
type Options struct {
	// Deadline is the wall-clock budget. Zero means DefaultDeadline.
	Deadline time.Duration

	// Cols, when positive, enables the geometric re-check: linear ids
	// are decoded to row/col and only hex-adjacent pairs survive into
	// the search adjacency. The solver may run far from the segmenter
	// (a worker goroutine or the remote service), so it re-validates
	// rather than trusting its caller.
	Cols int
}

// Option is a functional option for Longest.
type Option func(*Options)

// WithDeadline sets the wall-clock budget for the search.
func WithDeadline(d time.Duration) Option {
	return func(o *Options) {
		o.Deadline = d
	}
}

// WithCols enables geometric adjacency re-validation for a grid with the
// given column count.
func WithCols(cols int) Option {
	return func(o *Options) {
		o.Cols = cols
	}
}

// Result is the outcome of one component search.
type Result struct {
	// Path is the best simple path found, as linear ids in visit order.
	// Empty for a degenerate single-cell component.
	Path []int

	// Ceiling is the computed upper bound on achievable path length:
	// totalNodes - degreeOneNodes + 2, capped at totalNodes. It is a
	// heuristic early-exit bound, not a proven tight one.
	Ceiling int

	// TimedOut reports whether the deadline expired before the search
	// space was exhausted.
	TimedOut bool
}

// Longest searches one component for a long simple path.
//
// Description:
//
//	Rebuilds a dense adjacency restricted to the hex rule (when Cols is
//	set), computes the path ceiling, then backtracks from every start
//	node in ascending-degree order (dead ends first, they can only be
//	endpoints). The deadline is checked inside the recursion and between
//	start attempts; expiry returns the best path so far. Among paths of
//	equal maximum length the first one discovered wins; callers may rely
//	only on "some maximum-length-found path".
//
// Longest never fails: a component with no edges yields an empty path.
func Longest(ctx context.Context, adjacency map[int][]int, opts ...Option) Result {
	initMetrics()

	options := Options{Deadline: DefaultDeadline}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Deadline <= 0 {
		options.Deadline = DefaultDeadline
	}

	ctx, span := tracer.Start(ctx, "solve.Longest",
		trace.WithAttributes(attribute.Int("nodes", len(adjacency))),
	)
	defer span.End()
	start := time.Now()
	defer func() {
		searchLatency.Record(ctx, time.Since(start).Seconds())
	}()

	ids, adj := denseGraph(adjacency, options.Cols)
	n := len(ids)
	if n <= 1 || edgeless(adj) {
		return Result{Ceiling: min(n, 1)}
	}

	ceiling := pathCeiling(adj)
	s := &searcher{
		adj:      adj,
		ceiling:  ceiling,
		deadline: start.Add(options.Deadline),
		ctx:      ctx,
		path:     make([]int32, 0, n),
		visited:  newBitset(n),
	}

	// Low-degree nodes first: degree-1 nodes can only ever be endpoints,
	// so starting there reaches long paths sooner.
	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	sort.Slice(order, func(i, j int) bool {
		return len(adj[order[i]]) < len(adj[order[j]])
	})

	for _, startNode := range order {
		if len(s.best) >= ceiling || s.expired() {
			break
		}
		s.visited.set(startNode)
		s.path = append(s.path, startNode)
		s.dfs(startNode)
		s.path = s.path[:0]
		s.visited.clear(startNode)
	}

	path := make([]int, len(s.best))
	for i, idx := range s.best {
		path[i] = ids[idx]
	}

	span.SetAttributes(
		attribute.Int("path_length", len(path)),
		attribute.Int("ceiling", ceiling),
		attribute.Bool("timed_out", s.timedOut),
	)
	if s.timedOut {
		slog.Debug("search deadline expired, returning best effort",
			slog.Int("nodes", n),
			slog.Int("path_length", len(path)),
			slog.Int("ceiling", ceiling),
		)
	}
	return Result{Path: path, Ceiling: ceiling, TimedOut: s.timedOut}
}

// pathCeiling computes totalNodes - degreeOneNodes + 2, capped at
// totalNodes. Degree-1 nodes can only be path endpoints, which bounds
// how many nodes a simple path can cover. The formula is inherited as a
// heuristic: safe to under-use, unsafe to over-trust, so it only ever
// stops the search early once a path reaches it.
func pathCeiling(adj [][]int32) int {
	n := len(adj)
	degreeOne := 0
	for _, nbs := range adj {
		if len(nbs) == 1 {
			degreeOne++
		}
	}
	ceiling := n - degreeOne + 2
	if ceiling > n {
		ceiling = n
	}
	return ceiling
}

// denseGraph remaps arbitrary linear ids to contiguous indices and
// applies the optional geometric filter.
func denseGraph(adjacency map[int][]int, cols int) ([]int, [][]int32) {
	ids := make([]int, 0, len(adjacency))
	for id := range adjacency {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	index := make(map[int]int32, len(ids))
	for i, id := range ids {
		index[id] = int32(i)
	}

	adj := make([][]int32, len(ids))
	for i, id := range ids {
		for _, nb := range adjacency[id] {
			j, ok := index[nb]
			if !ok {
				continue
			}
			if cols > 0 && !linearAdjacent(id, nb, cols) {
				continue
			}
			adj[i] = append(adj[i], j)
		}
	}
	return ids, adj
}

// linearAdjacent applies the hex parity rule to two linear ids.
func linearAdjacent(a, b, cols int) bool {
	ar, ac := hexgrid.RowCol(a, cols)
	br, bc := hexgrid.RowCol(b, cols)
	return hexgrid.Adjacent(
		hexgrid.Position{Row: ar, Col: ac},
		hexgrid.Position{Row: br, Col: bc},
	)
}

func edgeless(adj [][]int32) bool {
	for _, nbs := range adj {
		if len(nbs) > 0 {
			return false
		}
	}
	return true
}

// searcher holds the mutable state of one component search.
type searcher struct {
	adj      [][]int32
	ceiling  int
	deadline time.Time
	ctx      context.Context

	path    []int32
	visited bitset
	best    []int32

	steps    int
	timedOut bool
}

// expired checks the wall clock (and context) at most once every
// deadlineCheckInterval calls.
func (s *searcher) expired() bool {
	if s.timedOut {
		return true
	}
	s.steps++
	if s.steps%deadlineCheckInterval != 0 {
		return false
	}
	if time.Now().After(s.deadline) || s.ctx.Err() != nil {
		s.timedOut = true
	}
	return s.timedOut
}

func (s *searcher) dfs(node int32) {
	if s.expired() || len(s.best) >= s.ceiling {
		return
	}
	if len(s.path) > len(s.best) {
		s.best = append(s.best[:0], s.path...)
	}
	for _, nb := range s.adj[node] {
		if s.visited.contains(nb) {
			continue
		}
		s.visited.set(nb)
		s.path = append(s.path, nb)
		s.dfs(nb)
		s.path = s.path[:len(s.path)-1]
		s.visited.clear(nb)
	}
}

// ValidPath reports whether path is a simple path in the adjacency map:
// all ids distinct, all members present, consecutive pairs connected.
// An empty path is valid.
func ValidPath(adjacency map[int][]int, path []int) bool {
	seen := make(map[int]bool, len(path))
	for _, id := range path {
		if seen[id] {
			return false
		}
		if _, ok := adjacency[id]; !ok {
			return false
		}
		seen[id] = true
	}
	for i := 0; i+1 < len(path); i++ {
		if !contains(adjacency[path[i]], path[i+1]) {
			return false
		}
	}
	return true
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
