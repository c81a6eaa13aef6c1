// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package transport

import (
	"context"
	"fmt"
	"log/slog"
)

// FallbackSolver tries the primary transport once and, on any failure,
// the secondary transport once. There is no further retry: a second
// failure propagates to the caller as a typed error.
type FallbackSolver struct {
	Primary   Solver
	Secondary Solver
	Log       *slog.Logger
}

// Solve runs the batch through primary-then-secondary.
func (f *FallbackSolver) Solve(ctx context.Context, req SolveRequest) (*SolveResponse, error) {
	log := f.Log
	if log == nil {
		log = slog.Default()
	}

	resp, primaryErr := f.Primary.Solve(ctx, req)
	if primaryErr == nil {
		return resp, nil
	}
	if f.Secondary == nil {
		return nil, primaryErr
	}

	log.Warn("primary transport failed, falling back",
		slog.String("error", primaryErr.Error()),
	)
	resp, secondaryErr := f.Secondary.Solve(ctx, req)
	if secondaryErr != nil {
		return nil, fmt.Errorf("fallback transport failed: %w (primary: %v)", secondaryErr, primaryErr)
	}
	return resp, nil
}
