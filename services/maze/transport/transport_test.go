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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRequest = SolveRequest{
	Components: []map[string][]string{
		{"1": {"2"}, "2": {"1"}},
	},
	Dimensions: Dimensions{Rows: 4, Cols: 5},
	SessionID:  "test-session",
}

// stubSolver returns a canned response or error.
type stubSolver struct {
	resp  *SolveResponse
	err   error
	calls int
}

func (s *stubSolver) Solve(_ context.Context, _ SolveRequest) (*SolveResponse, error) {
	s.calls++
	return s.resp, s.err
}

// wsEchoServer upgrades and hands the connection to fn.
func wsEchoServer(t *testing.T, fn func(*websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		fn(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// TestWSClientSolve verifies status frames are skipped and the solution
// frame ends the exchange.
func TestWSClientSolve(t *testing.T) {
	srv := wsEchoServer(t, func(conn *websocket.Conn) {
		var req SolveRequest
		require.NoError(t, conn.ReadJSON(&req))
		assert.Equal(t, testRequest.SessionID, req.SessionID)

		frames := []Frame{
			{Type: FrameSessionCreated, SessionID: "s1"},
			{Type: FrameQueued, SessionID: "s1"},
			{Type: FrameProcessingStarted, SessionID: "s1"},
			{Type: FrameType("heartbeat")},
			{Type: FrameSolution, SessionID: "s1", Data: [][]string{{"1", "2"}}},
		}
		for _, f := range frames {
			require.NoError(t, conn.WriteJSON(f))
		}
	})

	c := NewWSClient(wsURL(srv))
	resp, err := c.Solve(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, [][]string{{"1", "2"}}, resp.Data)
}

// TestWSClientInternalError verifies an internal_error frame maps to
// ErrRemoteInternal.
func TestWSClientInternalError(t *testing.T) {
	srv := wsEchoServer(t, func(conn *websocket.Conn) {
		var req SolveRequest
		require.NoError(t, conn.ReadJSON(&req))
		require.NoError(t, conn.WriteJSON(Frame{Type: FrameInternalError, Error: "solver crashed"}))
	})

	c := NewWSClient(wsURL(srv))
	_, err := c.Solve(context.Background(), testRequest)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteInternal)
	assert.Contains(t, err.Error(), "solver crashed")
}

// TestWSClientOperationTimeout verifies a server that never answers maps
// to ErrOperationTimeout.
func TestWSClientOperationTimeout(t *testing.T) {
	srv := wsEchoServer(t, func(conn *websocket.Conn) {
		var req SolveRequest
		_ = conn.ReadJSON(&req)
		time.Sleep(2 * time.Second)
	})

	c := NewWSClient(wsURL(srv), WithOperationTimeout(100*time.Millisecond))
	_, err := c.Solve(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrOperationTimeout)
}

// TestWSClientDialFailure verifies a refused connection surfaces as an
// error rather than hanging.
func TestWSClientDialFailure(t *testing.T) {
	c := NewWSClient("ws://127.0.0.1:1", WithConnectTimeout(200*time.Millisecond))
	_, err := c.Solve(context.Background(), testRequest)
	assert.Error(t, err)
}

// TestWSClientMalformedFrame verifies non-JSON frames map to
// ErrMalformedResponse.
func TestWSClientMalformedFrame(t *testing.T) {
	srv := wsEchoServer(t, func(conn *websocket.Conn) {
		var req SolveRequest
		require.NoError(t, conn.ReadJSON(&req))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	})

	c := NewWSClient(wsURL(srv))
	_, err := c.Solve(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

// TestRESTClientSolve verifies the request shape and response decoding.
func TestRESTClientSolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/maze/solve", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req SolveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 5, req.Dimensions.Cols)

		_ = json.NewEncoder(w).Encode(SolveResponse{
			SessionID:   req.SessionID,
			Data:        [][]string{{"1", "2"}},
			SolveTimeMS: 1.5,
		})
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL, time.Second)
	resp, err := c.Solve(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "test-session", resp.SessionID)
	assert.Equal(t, [][]string{{"1", "2"}}, resp.Data)
}

// TestRESTClientServerError verifies a non-200 status maps to
// ErrRemoteInternal with the body included.
func TestRESTClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "out of workers", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL, time.Second)
	_, err := c.Solve(context.Background(), testRequest)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteInternal)
	assert.Contains(t, err.Error(), "out of workers")
}

// TestRESTClientMalformedBody verifies undecodable bodies map to
// ErrMalformedResponse.
func TestRESTClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL, time.Second)
	_, err := c.Solve(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

// TestFallbackPrimarySucceeds verifies the secondary is never consulted
// on success.
func TestFallbackPrimarySucceeds(t *testing.T) {
	primary := &stubSolver{resp: &SolveResponse{SessionID: "p"}}
	secondary := &stubSolver{resp: &SolveResponse{SessionID: "s"}}
	f := &FallbackSolver{Primary: primary, Secondary: secondary}

	resp, err := f.Solve(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "p", resp.SessionID)
	assert.Equal(t, 0, secondary.calls)
}

// TestFallbackSecondaryRecovers verifies one fallback attempt after a
// primary failure.
func TestFallbackSecondaryRecovers(t *testing.T) {
	primary := &stubSolver{err: ErrConnectTimeout}
	secondary := &stubSolver{resp: &SolveResponse{SessionID: "s"}}
	f := &FallbackSolver{Primary: primary, Secondary: secondary}

	resp, err := f.Solve(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "s", resp.SessionID)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

// TestFallbackBothFail verifies the secondary error wins and carries the
// primary error text.
func TestFallbackBothFail(t *testing.T) {
	primary := &stubSolver{err: ErrConnectTimeout}
	secondary := &stubSolver{err: errors.New("rest down")}
	f := &FallbackSolver{Primary: primary, Secondary: secondary}

	_, err := f.Solve(context.Background(), testRequest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rest down")
	assert.Contains(t, err.Error(), ErrConnectTimeout.Error())
}

// TestFallbackNoSecondary verifies the primary error propagates as-is.
func TestFallbackNoSecondary(t *testing.T) {
	primary := &stubSolver{err: ErrOperationTimeout}
	f := &FallbackSolver{Primary: primary}

	_, err := f.Solve(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrOperationTimeout)
}

// TestFrameTerminal exercises the terminal classification.
func TestFrameTerminal(t *testing.T) {
	tests := []struct {
		frameType FrameType
		want      bool
	}{
		{FrameSessionCreated, false},
		{FrameQueued, false},
		{FrameProcessingStarted, false},
		{FrameSolution, true},
		{FrameInternalError, true},
		{FrameType("heartbeat"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.frameType), func(t *testing.T) {
			assert.Equal(t, tt.want, Frame{Type: tt.frameType}.Terminal())
		})
	}
}

var _ Solver = (*stubSolver)(nil)
