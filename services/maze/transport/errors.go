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

import "errors"

// Sentinel errors for remote transports.
var (
	// ErrConnectTimeout is returned when the connection attempt itself
	// does not complete within the connect timeout.
	ErrConnectTimeout = errors.New("connection attempt timed out")

	// ErrOperationTimeout is returned when a connected request does not
	// produce a terminal frame within the operation timeout.
	ErrOperationTimeout = errors.New("solve operation timed out")

	// ErrRemoteInternal is returned when the backend reports an
	// internal_error frame or a non-2xx REST status.
	ErrRemoteInternal = errors.New("remote solver reported an error")

	// ErrMalformedResponse is returned when a frame or body cannot be
	// decoded as the expected JSON shape.
	ErrMalformedResponse = errors.New("malformed remote response")
)
