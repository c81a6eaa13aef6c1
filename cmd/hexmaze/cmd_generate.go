// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/hexmaze/pkg/logging"
	"github.com/AleutianAI/hexmaze/services/maze/cache"
	"github.com/AleutianAI/hexmaze/services/maze/engine"
	"github.com/AleutianAI/hexmaze/services/maze/orchestrate"
	"github.com/AleutianAI/hexmaze/services/maze/transport"
)

var (
	generateWidth  float64 // Canvas width in pixels
	generateHeight float64 // Canvas height in pixels
	generateSeed   int64   // Random seed (0 means time-based)
	generateOutput string  // Output file ("-" for stdout)
	generatePretty bool    // Indent the JSON output
)

// generateCmd builds a maze for the given canvas, solves every
// component, and emits the result as JSON.
//
// Examples:
//
//	hexmaze generate --width 800 --height 600
//	hexmaze generate --seed 42 --pretty
//	hexmaze generate --config config.yaml -o maze.json
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and solve a hexagonal maze",
	Long: `Generates a random hexagonal maze sized to the given canvas,
carves passages, and finds the longest walk through every connected
region. With a remote solver configured, large regions are solved by
the solving service; everything else runs locally.`,
	RunE: runGenerateCommand,
}

func init() {
	generateCmd.Flags().Float64Var(&generateWidth, "width", 800, "canvas width in pixels")
	generateCmd.Flags().Float64Var(&generateHeight, "height", 600, "canvas height in pixels")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "random seed (0 uses current time)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "-", "output file, - for stdout")
	generateCmd.Flags().BoolVar(&generatePretty, "pretty", false, "indent JSON output")
	rootCmd.AddCommand(generateCmd)
}

func runGenerateCommand(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Close()

	eng, cleanup, err := buildEngine(logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	res, err := eng.Run(ctx, generateWidth, generateHeight)
	if err != nil {
		return fmt.Errorf("generate maze: %w", err)
	}
	logger.Info("maze solved",
		"rows", res.Dimensions.Rows,
		"cols", res.Dimensions.Cols,
		"components", len(res.Components),
		"solve_time_ms", res.SolveTimeMS,
	)

	return writeJSON(generateOutput, res, generatePretty)
}

// newLogger builds the CLI logger from the config file's log level.
func newLogger() *logging.Logger {
	level := logging.LevelInfo
	switch config.LogLevel {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.New(logging.Config{Level: level, Service: "cli"})
}

// buildEngine assembles the pipeline from config and flags. The
// returned cleanup closes the cache if one was opened.
func buildEngine(logger *logging.Logger) (*engine.Engine, func(), error) {
	opts := []engine.Option{engine.WithLogger(logger.Slog())}
	cleanup := func() {}

	if generateSeed != 0 {
		opts = append(opts, engine.WithRand(rand.New(rand.NewSource(generateSeed))))
	}

	if config.RemoteURL != "" {
		var remote transport.Solver = transport.NewWSClient(config.RemoteURL,
			transport.WithLogger(logger.Slog()))
		if config.RemoteRESTURL != "" {
			remote = &transport.FallbackSolver{
				Primary:   remote,
				Secondary: transport.NewRESTClient(config.RemoteRESTURL, 0),
				Log:       logger.Slog(),
			}
		}
		orchOpts := []orchestrate.Option{
			orchestrate.WithLogger(logger.Slog()),
			orchestrate.WithRemote(remote),
		}
		if config.DeadlineMS > 0 {
			orchOpts = append(orchOpts,
				orchestrate.WithDeadline(time.Duration(config.DeadlineMS)*time.Millisecond))
		}
		opts = append(opts, engine.WithOrchestrator(orchestrate.New(orchOpts...)))
	} else if config.DeadlineMS > 0 {
		opts = append(opts, engine.WithOrchestrator(orchestrate.New(
			orchestrate.WithLogger(logger.Slog()),
			orchestrate.WithLargeThreshold(1<<30),
			orchestrate.WithDeadline(time.Duration(config.DeadlineMS)*time.Millisecond),
		)))
	}

	if config.CacheDir != "" {
		c, err := cache.Open(cache.DefaultConfig(config.CacheDir))
		if err != nil {
			return nil, nil, fmt.Errorf("open solve cache: %w", err)
		}
		opts = append(opts, engine.WithCache(c))
		cleanup = func() {
			if err := c.Close(); err != nil {
				logger.Warn("close solve cache", "error", err.Error())
			}
		}
	}

	return engine.New(opts...), cleanup, nil
}

// writeJSON writes v to the path, or stdout for "-".
func writeJSON(path string, v any, pretty bool) error {
	var out *os.File
	if path == "-" {
		out = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
