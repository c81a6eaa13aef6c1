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

import "errors"

// Sentinel errors for orchestration and result merging. Merge errors are
// critical validation failures: silently guessing a correspondence would
// attribute wrong paths to wrong regions downstream, so the batch is
// aborted instead.
var (
	// ErrComponentTooLarge is returned when a component meets the
	// infeasible ceiling and solving is aborted.
	ErrComponentTooLarge = errors.New("component exceeds solvable size")

	// ErrNoRemoteSolver is returned when large components exist but no
	// remote transport is configured.
	ErrNoRemoteSolver = errors.New("no remote solver configured for large components")

	// ErrResultCountMismatch is returned when the remote returns a
	// different number of paths than components submitted.
	ErrResultCountMismatch = errors.New("remote path count does not match submitted components")

	// ErrUnattributablePath is returned when a returned path's first
	// node belongs to no submitted component.
	ErrUnattributablePath = errors.New("remote path not attributable to any component")

	// ErrDuplicateAttribution is returned when two returned paths map to
	// the same component.
	ErrDuplicateAttribution = errors.New("two remote paths attributed to one component")

	// ErrInvalidRemotePath is returned when an attributed path is not a
	// simple path within its component.
	ErrInvalidRemotePath = errors.New("remote path is not a valid simple path in its component")
)
