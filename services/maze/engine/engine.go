// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine is the pipeline facade: build, carve, segment, solve.
//
// Callers that want a complete maze in one call use Run; callers that
// already hold a carved maze (for example one decoded from a request)
// use Solve directly. An optional result cache short-circuits repeat
// solves of an identical carved graph.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/AleutianAI/hexmaze/services/maze/cache"
	"github.com/AleutianAI/hexmaze/services/maze/carve"
	"github.com/AleutianAI/hexmaze/services/maze/hexgrid"
	"github.com/AleutianAI/hexmaze/services/maze/orchestrate"
	"github.com/AleutianAI/hexmaze/services/maze/segment"
)

// Result is one complete pipeline run.
type Result struct {
	Dimensions hexgrid.Dimensions               `json:"dimensions"`
	Components []orchestrate.ProcessedComponent `json:"components"`

	// Maze is the carved maze the components came from. Populated by
	// Run, not by Solve, and excluded from the cached encoding.
	Maze *hexgrid.Maze `json:"maze,omitempty"`

	// SolveTimeMS is wall-clock time spent in segmentation and solving,
	// excluding grid construction and carving.
	SolveTimeMS float64 `json:"solve_time_ms"`

	// Cached reports whether the result came from the solve cache.
	Cached bool `json:"cached,omitempty"`
}

// Engine runs the maze pipeline.
type Engine struct {
	orch  *orchestrate.Orchestrator
	cache *cache.Cache
	rng   *rand.Rand
	log   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithOrchestrator replaces the default local-only orchestrator.
func WithOrchestrator(o *orchestrate.Orchestrator) Option {
	return func(e *Engine) { e.orch = o }
}

// WithCache enables the solve result cache.
func WithCache(c *cache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithRand sets the randomness source for grid sizing and carving.
// Used by tests for reproducible mazes.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an Engine. Without WithOrchestrator it solves everything
// locally, routing nothing to a remote service.
func New(opts ...Option) *Engine {
	e := &Engine{log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	if e.orch == nil {
		e.orch = orchestrate.New(
			orchestrate.WithLogger(e.log),
			orchestrate.WithLargeThreshold(1<<30),
		)
	}
	return e
}

// Run generates and solves a maze for the given canvas.
func (e *Engine) Run(ctx context.Context, canvasWidth, canvasHeight float64) (*Result, error) {
	var buildOpts []hexgrid.BuildOption
	var carveOpts []carve.Option
	if e.rng != nil {
		buildOpts = append(buildOpts, hexgrid.WithRand(e.rng))
		carveOpts = append(carveOpts, carve.WithRand(e.rng))
	}

	m := hexgrid.Build(canvasWidth, canvasHeight, buildOpts...)
	carve.Carve(m, carveOpts...)

	res, err := e.Solve(ctx, m)
	if err != nil {
		return nil, err
	}
	res.Maze = m
	return res, nil
}

// Solve segments and solves an already carved maze.
func (e *Engine) Solve(ctx context.Context, m *hexgrid.Maze) (*Result, error) {
	if e.cache != nil {
		if res, ok := e.lookup(ctx, m); ok {
			return res, nil
		}
	}

	start := time.Now()
	comps, err := segment.Segment(m)
	if err != nil {
		return nil, fmt.Errorf("segment maze: %w", err)
	}

	processed, err := e.orch.Solve(ctx, m.Dimensions, comps)
	if err != nil {
		return nil, fmt.Errorf("solve components: %w", err)
	}

	res := &Result{
		Dimensions:  m.Dimensions,
		Components:  processed,
		SolveTimeMS: float64(time.Since(start)) / float64(time.Millisecond),
	}
	if e.cache != nil {
		e.store(ctx, m, res)
	}
	return res, nil
}

// lookup returns a cached result if one exists. Cache failures other
// than a miss are logged and treated as misses.
func (e *Engine) lookup(ctx context.Context, m *hexgrid.Maze) (*Result, bool) {
	key := cache.Key(m)
	raw, err := e.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			e.log.Warn("solve cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		e.log.Warn("solve cache entry corrupt, ignoring", slog.String("key", key))
		return nil, false
	}
	res.Cached = true
	return &res, true
}

// store writes the result to the cache. Failures are logged, never
// propagated; caching is best effort.
func (e *Engine) store(ctx context.Context, m *hexgrid.Maze, res *Result) {
	raw, err := json.Marshal(res)
	if err != nil {
		e.log.Warn("solve cache encode failed", slog.String("error", err.Error()))
		return
	}
	if err := e.cache.Set(ctx, cache.Key(m), raw); err != nil {
		e.log.Warn("solve cache write failed", slog.String("error", err.Error()))
	}
}
