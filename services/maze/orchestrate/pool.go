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
	"runtime"
	"time"

	"github.com/AleutianAI/hexmaze/services/maze/solve"
)

// maxPoolSize caps local workers regardless of CPU count; the search is
// memory-bandwidth bound and does not profit from more.
const maxPoolSize = 4

// DefaultPoolSize is min(4, NumCPU).
func DefaultPoolSize() int {
	n := runtime.NumCPU()
	if n > maxPoolSize {
		n = maxPoolSize
	}
	if n < 1 {
		n = 1
	}
	return n
}

// worker is one slot in the pool. Each worker owns a private copy of the
// component data it is handed; workers never share mutable state.
type worker struct {
	id int
}

// Pool is a fixed arena of local solve workers with an explicit
// availability queue. Acquiring a worker is a blocking channel receive,
// so there is no poll interval between a worker freeing up and the next
// caller getting it.
type Pool struct {
	free chan *worker
	log  *slog.Logger
}

// NewPool creates a pool with the given number of workers (0 means
// DefaultPoolSize).
func NewPool(size int, log *slog.Logger) *Pool {
	if size <= 0 {
		size = DefaultPoolSize()
	}
	if log == nil {
		log = slog.Default()
	}
	p := &Pool{
		free: make(chan *worker, size),
		log:  log,
	}
	for i := 0; i < size; i++ {
		p.free <- &worker{id: i}
	}
	return p
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return cap(p.free)
}

// Solve acquires a free worker (blocking until one is available or ctx
// is done), runs the search on it, and releases the worker. A worker's
// result is always delivered before the worker is marked free again,
// including on error.
func (p *Pool) Solve(ctx context.Context, adjacency map[int][]int, cols int, deadline time.Duration) ([]int, error) {
	var w *worker
	select {
	case w = <-p.free:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { p.free <- w }()

	msgs := make(chan Message, 4)
	go w.run(ctx, adjacency, cols, deadline, msgs)

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return nil, fmt.Errorf("worker %d closed without a result", w.id)
			}
			switch msg.Type {
			case MessageResult:
				return msg.Path, nil
			case MessageError:
				return nil, fmt.Errorf("worker %d: %s", w.id, msg.Err)
			case MessageProgress:
				p.log.Debug("worker progress",
					slog.Int("worker", w.id),
					slog.String("note", msg.Note),
				)
			}
		case <-ctx.Done():
			// The search itself observes ctx and unwinds; drain happens
			// via the worker goroutine closing msgs.
			return nil, ctx.Err()
		}
	}
}

// run executes one search and reports through the message channel.
func (w *worker) run(ctx context.Context, adjacency map[int][]int, cols int, deadline time.Duration, msgs chan<- Message) {
	defer close(msgs)

	msgs <- Message{Type: MessageProgress, Note: fmt.Sprintf("searching %d nodes", len(adjacency))}

	res := solve.Longest(ctx, adjacency,
		solve.WithCols(cols),
		solve.WithDeadline(deadline),
	)
	msgs <- Message{Type: MessageResult, Path: res.Path}
}
