// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command solverd starts the maze solving HTTP server.
//
// This is the main entry point for the containerized solving service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - SOLVERD_PORT: HTTP server port (default: 12280)
//   - SOLVERD_DEADLINE_MS: per-component search budget in ms (default: 7000)
//   - SOLVERD_RATE_LIMIT_RPS: requests per second per client IP (default: 10)
//   - GIN_MODE: gin framework mode (default: release)
//   - OTEL_METRICS_EXPORTER: metric exporter type (default: prometheus)
//
// # Usage
//
//	# Build
//	go build -o solverd ./cmd/solverd
//
//	# Run
//	./solverd
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/AleutianAI/hexmaze/services/maze/telemetry"
	"github.com/AleutianAI/hexmaze/services/solverd"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build configuration from environment variables
	telemetryCfg := telemetry.DefaultConfig()
	telemetryCfg.ServiceName = "solverd"

	cfg := solverd.Config{
		Port:           getEnvInt("SOLVERD_PORT", 12280),
		SearchDeadline: time.Duration(getEnvInt("SOLVERD_DEADLINE_MS", 7000)) * time.Millisecond,
		RateLimitRPS:   float64(getEnvInt("SOLVERD_RATE_LIMIT_RPS", 10)),
		GinMode:        getEnvString("GIN_MODE", "release"),
		Telemetry:      telemetryCfg,
	}

	slog.Info("Starting solverd",
		"port", cfg.Port,
		"deadline", cfg.SearchDeadline.String(),
		"rate_limit_rps", cfg.RateLimitRPS,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := solverd.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create solverd: %v", err)
	}

	// Run the server (blocks until shutdown signal)
	if err := svc.Run(ctx); err != nil {
		log.Fatalf("Solverd error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
