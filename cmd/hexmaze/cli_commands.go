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
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/hexmaze/services/maze/hexgrid"
)

var rootCmd = &cobra.Command{
	Use:   "hexmaze",
	Short: "Generate and solve hexagonal mazes",
	Long: `Hexmaze builds random hexagonal mazes, splits them into connected
regions, and finds the longest walk through each region.`,
}

var (
	solveInput  string // Maze JSON file ("-" for stdin)
	solveOutput string
	solvePretty bool
)

// solveCmd re-solves a previously generated maze. The input is the
// maze object emitted alongside a generate run; solving an identical
// carved graph twice hits the result cache when one is configured.
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a maze from a JSON file",
	RunE:  runSolveCommand,
}

func init() {
	solveCmd.Flags().StringVarP(&solveInput, "input", "i", "-", "maze JSON file, - for stdin")
	solveCmd.Flags().StringVarP(&solveOutput, "output", "o", "-", "output file, - for stdout")
	solveCmd.Flags().BoolVar(&solvePretty, "pretty", false, "indent JSON output")
	rootCmd.AddCommand(solveCmd)
}

func runSolveCommand(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Close()

	var raw []byte
	var err error
	if solveInput == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(solveInput)
	}
	if err != nil {
		return fmt.Errorf("read maze input: %w", err)
	}

	m, err := decodeMaze(raw)
	if err != nil {
		return fmt.Errorf("parse maze input: %w", err)
	}

	eng, cleanup, err := buildEngine(logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	res, err := eng.Solve(ctx, m)
	if err != nil {
		return fmt.Errorf("solve maze: %w", err)
	}
	logger.Info("maze solved",
		"components", len(res.Components),
		"cached", res.Cached,
		"solve_time_ms", res.SolveTimeMS,
	)

	return writeJSON(solveOutput, res, solvePretty)
}

// decodeMaze accepts either a bare maze object or a full generate
// result with a "maze" field.
func decodeMaze(raw []byte) (*hexgrid.Maze, error) {
	var wrapper struct {
		Maze *hexgrid.Maze `json:"maze"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Maze != nil {
		return wrapper.Maze, nil
	}

	var m hexgrid.Maze
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if len(m.Cells) == 0 {
		return nil, fmt.Errorf("maze has no cells")
	}
	return &m, nil
}
