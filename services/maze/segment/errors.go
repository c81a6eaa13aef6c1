// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package segment partitions a carved maze into connected components.
//
// The carved edge set alone is not trusted for connectivity: an upstream
// bug or a relaxed carver could produce an edge between cells that share
// no hexagon border. The segmenter traverses only pairs that are both
// edge-connected and geometrically adjacent under the hexgrid parity
// rule, making it the authority on real connectivity.
package segment

import "errors"

// Sentinel errors for segmentation.
var (
	// ErrUnknownCell is returned when an edge references a cell that does
	// not exist in the maze. This is a data-model invariant violation in
	// upstream state and is never skipped silently.
	ErrUnknownCell = errors.New("edge references unknown cell")
)
