// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package orchestrate routes maze components to solvers and merges the
// results.
//
// Small components are solved on a local worker pool; large ones are
// batched into one request to the remote solving service, with a single
// fallback to the secondary transport. Results come back in completion
// order and are re-attributed to components by content (first-node
// membership), never by arrival order; the final slice matches the input
// component order exactly.
package orchestrate

import "github.com/AleutianAI/hexmaze/services/maze/segment"

// ProcessedComponent is a component augmented with its solved path.
// Path may be empty for a degenerate single-cell component or when a
// remote result for it had to be dropped.
type ProcessedComponent struct {
	segment.Component

	// Path is the ordered cell walk: distinct ids, consecutive entries
	// geometrically adjacent.
	Path []int `json:"path"`

	// PathLength is len(Path).
	PathLength int `json:"pathLength"`
}

// MessageType tags a local worker message.
type MessageType int

const (
	// MessageProgress is an informational mid-computation message.
	MessageProgress MessageType = iota

	// MessageResult carries the worker's path.
	MessageResult

	// MessageError carries a worker failure description.
	MessageError
)

// String returns the string representation of the MessageType.
func (t MessageType) String() string {
	switch t {
	case MessageProgress:
		return "progress"
	case MessageResult:
		return "result"
	case MessageError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is one local worker message. Exactly the fields implied by
// Type are populated: result carries Path, error carries Err, progress
// carries Note.
type Message struct {
	Type MessageType
	Path []int
	Err  string
	Note string
}
