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
	"fmt"
	"log/slog"
	"strconv"

	"github.com/AleutianAI/hexmaze/services/maze/segment"
	"github.com/AleutianAI/hexmaze/services/maze/solve"
)

// mergeRemote attributes remote paths back to the components they were
// solved for. The remote returns paths in completion order, not
// submission order, so correspondence is recovered from content: every
// cell id belongs to exactly one component (components partition the
// maze), so a path's first node identifies its component.
//
// Validation is strict. A count mismatch, an unattributable path, a
// duplicate attribution, or a path that is not a simple connected walk
// within its component all abort the merge; a heuristic recovery here
// would silently hand the caller wrong paths. The single tolerated
// degradation is an empty path, which is dropped with a warning and
// leaves its component pathless.
func mergeRemote(submitted []segment.Component, data [][]string, log *slog.Logger) (map[int][]int, error) {
	if len(data) != len(submitted) {
		return nil, fmt.Errorf("%w: got %d paths for %d components",
			ErrResultCountMismatch, len(data), len(submitted))
	}

	// owner maps every cell id to its index in submitted. Adjacency
	// keys every member, including degree-zero cells.
	owner := make(map[int]int)
	for i, comp := range submitted {
		for id := range comp.Adjacency {
			owner[id] = i
		}
	}

	paths := make(map[int][]int, len(submitted))
	for _, raw := range data {
		if len(raw) == 0 {
			log.Warn("dropping empty remote path")
			continue
		}
		path, err := parsePath(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRemotePath, err)
		}

		idx, ok := owner[path[0]]
		if !ok {
			return nil, fmt.Errorf("%w: first node %d", ErrUnattributablePath, path[0])
		}
		if _, dup := paths[idx]; dup {
			return nil, fmt.Errorf("%w: component %d", ErrDuplicateAttribution, idx)
		}
		if !solve.ValidPath(submitted[idx].Adjacency, path) {
			return nil, fmt.Errorf("%w: component %d", ErrInvalidRemotePath, idx)
		}
		paths[idx] = path
	}
	return paths, nil
}

// parsePath decodes the wire representation (stringified linear ids)
// into cell ids.
func parsePath(raw []string) ([]int, error) {
	path := make([]int, len(raw))
	for i, s := range raw {
		id, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("path element %q: %w", s, err)
		}
		path[i] = id
	}
	return path, nil
}
