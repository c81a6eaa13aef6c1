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
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// Default websocket timeouts. The connect timeout covers dialing only;
// the operation timeout covers the whole request including status frames.
const (
	DefaultConnectTimeout   = 5 * time.Second
	DefaultOperationTimeout = 30 * time.Second
)

// WSClient solves batches over a websocket connection to the solving
// service. A connection is dialed per batch; there are no partial or
// streamed results, so the terminal frame ends the exchange.
type WSClient struct {
	url            string
	dialer         *websocket.Dialer
	connectTimeout time.Duration
	opTimeout      time.Duration
	log            *slog.Logger
}

// WSOption is a functional option for NewWSClient.
type WSOption func(*WSClient)

// WithConnectTimeout sets the dial timeout.
func WithConnectTimeout(d time.Duration) WSOption {
	return func(c *WSClient) {
		c.connectTimeout = d
	}
}

// WithOperationTimeout sets the whole-request timeout.
func WithOperationTimeout(d time.Duration) WSOption {
	return func(c *WSClient) {
		c.opTimeout = d
	}
}

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) WSOption {
	return func(c *WSClient) {
		c.log = log
	}
}

// NewWSClient creates a websocket transport for the given ws:// or
// wss:// URL.
func NewWSClient(url string, opts ...WSOption) *WSClient {
	c := &WSClient{
		url:            url,
		connectTimeout: DefaultConnectTimeout,
		opTimeout:      DefaultOperationTimeout,
		log:            slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.dialer = &websocket.Dialer{HandshakeTimeout: c.connectTimeout}
	return c
}

// Solve sends one batched request and waits for its terminal frame.
//
// Non-terminal frames (session_created, queued, processing_started) are
// logged and skipped; unknown frame types are logged and skipped as
// well rather than failing the batch. Dial failures map to
// ErrConnectTimeout, read deadline expiry to ErrOperationTimeout, and
// internal_error frames to ErrRemoteInternal.
func (c *WSClient) Solve(ctx context.Context, req SolveRequest) (*SolveResponse, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(dialCtx, c.url, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("dial %s: %w", c.url, ErrConnectTimeout)
		}
		return nil, fmt.Errorf("dial %s: %w", c.url, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.opTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("write solve request: %w", err)
	}

	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return nil, fmt.Errorf("await solution: %w", ErrOperationTimeout)
			}
			return nil, fmt.Errorf("read frame: %w", ErrMalformedResponse)
		}

		switch frame.Type {
		case FrameSolution:
			return &SolveResponse{SessionID: frame.SessionID, Data: frame.Data}, nil
		case FrameInternalError:
			return nil, fmt.Errorf("%w: %s", ErrRemoteInternal, frame.Error)
		case FrameSessionCreated, FrameQueued, FrameProcessingStarted:
			c.log.Debug("solver status frame",
				slog.String("type", string(frame.Type)),
				slog.String("session_id", frame.SessionID),
			)
		default:
			c.log.Warn("skipping unknown frame type", slog.String("type", string(frame.Type)))
		}
	}
}
