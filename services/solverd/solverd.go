// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package solverd provides the maze solving service.
//
// The service accepts batches of maze components over REST or
// websocket, searches each one for a longest simple path, and returns
// the paths in completion order. It is the remote backend the client
// orchestrator routes large components to.
package solverd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/hexmaze/services/maze/solve"
	"github.com/AleutianAI/hexmaze/services/maze/telemetry"
	"github.com/AleutianAI/hexmaze/services/solverd/middleware"
	"github.com/AleutianAI/hexmaze/services/solverd/routes"
)

// Service defines the contract for the solving service.
//
// Implementations must be safe for concurrent use. Run() blocks and
// should only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until ctx is cancelled or
	// the server fails.
	Run(ctx context.Context) error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine
}

// Config holds solving service configuration options.
// All fields are optional with defaults applied by New().
type Config struct {
	// Port is the HTTP server port. Default: 12280
	Port int

	// SearchDeadline is the per-component search budget.
	// Default: 7 seconds.
	SearchDeadline time.Duration

	// RateLimitRPS is requests per second allowed per client IP.
	// Default: 10. Set negative to disable rate limiting.
	RateLimitRPS float64

	// RateLimitBurst is the per-client burst size. Default: 20.
	RateLimitBurst int

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	GinMode string

	// Telemetry configures tracing and metrics exporters.
	// Zero value uses telemetry.DefaultConfig().
	Telemetry telemetry.Config
}

// service implements Service for production use.
type service struct {
	config            Config
	router            *gin.Engine
	telemetryShutdown func(context.Context) error
}

// New creates a new solving Service with the given configuration.
//
// Description:
//
//	Applies configuration defaults, initializes telemetry, and sets up
//	the HTTP router with rate limiting.
//
// Inputs:
//
//	ctx - Context for telemetry initialization.
//	cfg - Service configuration. Zero values use defaults.
//
// Outputs:
//
//	Service - Ready-to-run solving service.
//	error - Non-nil if initialization fails.
func New(ctx context.Context, cfg Config) (Service, error) {
	s := &service{config: applyConfigDefaults(cfg)}

	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}

	shutdown, err := telemetry.Init(ctx, s.config.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	s.telemetryShutdown = shutdown

	var limiter *middleware.RateLimiter
	if s.config.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst)
	}

	s.router = gin.Default()
	routes.SetupRoutes(s.router, limiter, s.config.SearchDeadline)

	return s, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails. Shutdown waits up to ten seconds for in-flight solves.
func (s *service) Run(ctx context.Context) error {
	defer s.cleanup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting solver server", "port", s.config.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Shutting down solver server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12280
	}
	if cfg.SearchDeadline == 0 {
		cfg.SearchDeadline = solve.DefaultDeadline
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 10
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 20
	}
	if cfg.Telemetry == (telemetry.Config{}) {
		cfg.Telemetry = telemetry.DefaultConfig()
	}
	return cfg
}

// cleanup releases telemetry resources.
func (s *service) cleanup() {
	if s.telemetryShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.telemetryShutdown(ctx); err != nil {
			slog.Warn("telemetry shutdown error", "error", err)
		}
	}
}

var _ Service = (*service)(nil)
