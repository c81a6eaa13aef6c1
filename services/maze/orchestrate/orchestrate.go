// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package orchestrate

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/hexmaze/services/maze/hexgrid"
	"github.com/AleutianAI/hexmaze/services/maze/segment"
	"github.com/AleutianAI/hexmaze/services/maze/solve"
	"github.com/AleutianAI/hexmaze/services/maze/transport"
)

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("hexmaze.orchestrate")
}

// Orchestrator routes components to the local pool or the remote
// transport by size and merges the results.
type Orchestrator struct {
	remote    transport.Solver
	pool      *Pool
	threshold int
	deadline  time.Duration
	log       *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRemote sets the transport for large components. Without one, any
// large component fails the whole solve.
func WithRemote(s transport.Solver) Option {
	return func(o *Orchestrator) { o.remote = s }
}

// WithPoolSize sets the local worker count (0 means min(4, NumCPU)).
func WithPoolSize(n int) Option {
	return func(o *Orchestrator) { o.pool = NewPool(n, o.log) }
}

// WithLargeThreshold overrides the size at which a component is routed
// to the remote solver. Setting it above the infeasible ceiling keeps
// everything local.
func WithLargeThreshold(n int) Option {
	return func(o *Orchestrator) { o.threshold = n }
}

// WithDeadline sets the per-component local search budget.
func WithDeadline(d time.Duration) Option {
	return func(o *Orchestrator) { o.deadline = d }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// New creates an Orchestrator. Options apply in order; WithLogger should
// come before WithPoolSize so the pool inherits the logger.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		threshold: segment.LargeComponentThreshold,
		deadline:  solve.DefaultDeadline,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.pool == nil {
		o.pool = NewPool(0, o.log)
	}
	return o
}

// Solve finds a longest path for every component. Components below the
// threshold run concurrently on the local pool; the rest go to the
// remote service in one batch, concurrently with the local work. The
// returned slice is in input component order regardless of completion
// order.
//
// Any single failure fails the whole call: a component at or beyond the
// solvable ceiling, a large component with no remote configured, a
// worker error, or a merge validation failure.
func (o *Orchestrator) Solve(ctx context.Context, dims hexgrid.Dimensions, comps []segment.Component) ([]ProcessedComponent, error) {
	ctx, span := tracer.Start(ctx, "orchestrate.Solve",
		trace.WithAttributes(attribute.Int("components", len(comps))))
	defer span.End()

	var localIdx, remoteIdx []int
	for i, comp := range comps {
		switch {
		case comp.Size >= solve.MaxNodeCount:
			return nil, fmt.Errorf("%w: %d cells", ErrComponentTooLarge, comp.Size)
		case comp.Size >= o.threshold:
			remoteIdx = append(remoteIdx, i)
		default:
			localIdx = append(localIdx, i)
		}
	}
	if len(remoteIdx) > 0 && o.remote == nil {
		return nil, ErrNoRemoteSolver
	}

	var (
		mu    sync.Mutex
		paths = make(map[int][]int, len(comps))
	)
	g, gctx := errgroup.WithContext(ctx)

	for _, i := range localIdx {
		g.Go(func() error {
			path, err := o.pool.Solve(gctx, comps[i].Adjacency, dims.Cols, o.deadline)
			if err != nil {
				return fmt.Errorf("component %d: %w", i, err)
			}
			mu.Lock()
			paths[i] = path
			mu.Unlock()
			return nil
		})
	}

	if len(remoteIdx) > 0 {
		g.Go(func() error {
			remotePaths, err := o.solveRemote(gctx, dims, comps, remoteIdx)
			if err != nil {
				return err
			}
			mu.Lock()
			for i, path := range remotePaths {
				paths[remoteIdx[i]] = path
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]ProcessedComponent, len(comps))
	for i, comp := range comps {
		out[i] = ProcessedComponent{
			Component:  comp,
			Path:       paths[i],
			PathLength: len(paths[i]),
		}
	}
	return out, nil
}

// solveRemote batches the selected components into one request and
// re-attributes the response. The returned map is keyed by position in
// remoteIdx; components whose remote path was dropped are absent.
func (o *Orchestrator) solveRemote(ctx context.Context, dims hexgrid.Dimensions, comps []segment.Component, remoteIdx []int) (map[int][]int, error) {
	submitted := make([]segment.Component, len(remoteIdx))
	payload := make([]map[string][]string, len(remoteIdx))
	for i, idx := range remoteIdx {
		submitted[i] = comps[idx]
		payload[i] = encodeAdjacency(comps[idx].Adjacency)
	}

	req := transport.SolveRequest{
		Components: payload,
		Dimensions: transport.Dimensions{Rows: dims.Rows, Cols: dims.Cols},
		SessionID:  uuid.NewString(),
	}
	o.log.Info("submitting components to remote solver",
		slog.Int("count", len(payload)),
		slog.String("session_id", req.SessionID),
	)

	resp, err := o.remote.Solve(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("remote solve: %w", err)
	}
	return mergeRemote(submitted, resp.Data, o.log)
}

// encodeAdjacency converts a component adjacency list to the wire shape
// of stringified linear ids.
func encodeAdjacency(adjacency map[int][]int) map[string][]string {
	out := make(map[string][]string, len(adjacency))
	for id, neighbors := range adjacency {
		ns := make([]string, len(neighbors))
		for i, n := range neighbors {
			ns[i] = strconv.Itoa(n)
		}
		out[strconv.Itoa(id)] = ns
	}
	return out
}
