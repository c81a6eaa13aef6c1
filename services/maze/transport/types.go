// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package transport carries solve batches to the remote solving service.
//
// Two transports speak the same payloads: a persistent websocket with
// JSON text frames (primary) and a request/response HTTP call (fallback).
// Frames are a tagged union on the "type" field so unknown kinds are
// handled explicitly instead of falling through.
package transport

import "context"

// Dimensions is the grid shape sent with a batch so the service can
// re-derive row/col parity from linear ids.
type Dimensions struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SolveRequest is the outgoing batched payload: one adjacency-list object
// per large component. Keys are stringified linear ids, values the
// stringified adjacent ids restricted to the same component.
type SolveRequest struct {
	Components []map[string][]string `json:"components"`
	Dimensions Dimensions            `json:"dimensions"`
	SessionID  string                `json:"session_id,omitempty"`
}

// SolveResponse is the terminal result for a batch. Data holds one path
// per submitted component, index-aligned or attributable by first node.
type SolveResponse struct {
	SessionID   string     `json:"session_id"`
	Data        [][]string `json:"data"`
	SolveTimeMS float64    `json:"solve_time_ms,omitempty"`
}

// FrameType tags a websocket frame.
type FrameType string

const (
	// FrameSessionCreated is sent once per connection with the session id.
	FrameSessionCreated FrameType = "session_created"

	// FrameQueued acknowledges a request waiting for a solver slot.
	FrameQueued FrameType = "queued"

	// FrameProcessingStarted reports that solving has begun.
	FrameProcessingStarted FrameType = "processing_started"

	// FrameSolution carries the terminal result.
	FrameSolution FrameType = "solution"

	// FrameInternalError carries a backend-reported failure.
	FrameInternalError FrameType = "internal_error"
)

// Frame is one websocket message in either direction. Exactly the fields
// implied by Type are populated:
//
//	session_created:    SessionID
//	queued:             SessionID
//	processing_started: SessionID
//	solution:           SessionID, Data
//	internal_error:     Error
type Frame struct {
	Type      FrameType  `json:"type"`
	SessionID string     `json:"session_id,omitempty"`
	Data      [][]string `json:"data,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Terminal reports whether the frame ends the request.
func (f Frame) Terminal() bool {
	return f.Type == FrameSolution || f.Type == FrameInternalError
}

// Solver is implemented by every transport that can run a batch.
type Solver interface {
	Solve(ctx context.Context, req SolveRequest) (*SolveResponse, error)
}
