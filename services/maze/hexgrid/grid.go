// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package hexgrid builds hexagonal maze grids and owns the shared hex
// adjacency rule.
//
// The grid uses odd-r offset coordinates for pointy-top hexagons: odd
// rows are shifted half a hex width to the right, and rows overlap
// vertically at 75% of the hex height. Cell identity is the 1-based
// linear id row*cols+col+1.
//
// # Lifecycle
//
// A typical maze lifecycle:
//  1. Build(width, height) creates cells and neighbor topology
//  2. carve.Carve populates edges and open paths
//  3. segment.Segment derives connected components
//  4. The maze is discarded and replaced on the next generate request
package hexgrid

import (
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// Grid sizing constants. The bounds guarantee the rendered maze never has
// fewer than the minimum nor more than the maximum hexagons per row,
// regardless of viewport size.
const (
	// MinHexagonWidth is the smallest hex width in pixels.
	MinHexagonWidth = 14.0

	// MaxHexagonsPerRow caps the column count of the grid.
	MaxHexagonsPerRow = 40

	// MinHexagonsPerRow is the fewest columns an inhabited grid may have.
	MinHexagonsPerRow = 7

	// MaxRadius caps the hex width for very large viewports.
	MaxRadius = 60.0

	// GridPadding is the fixed margin around the grid in pixels.
	GridPadding = 10.0

	// rowOverlap is the fraction of hex height between consecutive rows.
	rowOverlap = 0.75
)

// BuildOptions configures grid generation.
type BuildOptions struct {
	// Rand is the randomness source for the hex width pick.
	// Defaults to a time-seeded source; tests inject a fixed seed.
	Rand *rand.Rand
}

// BuildOption is a functional option for Build.
type BuildOption func(*BuildOptions)

// WithRand sets the randomness source used during generation.
func WithRand(r *rand.Rand) BuildOption {
	return func(o *BuildOptions) {
		o.Rand = r
	}
}

// Build constructs a maze grid sized to fit the given canvas, with cells
// and dimensions populated and edges empty.
//
// Description:
//
//	Picks a hex width uniformly at random between a lower bound derived
//	from MinHexagonWidth/MaxHexagonsPerRow and an upper bound capped at
//	MaxRadius, shrinking the upper bound 10% at a time until at least
//	MinHexagonsPerRow columns fit. Cells are laid out in odd-r offset
//	packing and each cell's six directional neighbors are resolved
//	through the shared parity table.
//
// Generation never fails: a degenerate canvas produces an empty maze,
// not an error.
func Build(canvasWidth, canvasHeight float64, opts ...BuildOption) *Maze {
	options := BuildOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	rng := options.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	hexWidth := pickHexWidth(canvasWidth, rng)
	geo := NewGeometry(hexWidth)

	usableW := canvasWidth - 2*GridPadding
	usableH := canvasHeight - 2*GridPadding

	cols := 0
	rows := 0
	if usableW > 0 && usableH > 0 {
		cols = int(usableW / geo.HexWidth)
		rows = int(usableH / (geo.HexHeight * rowOverlap))
	}

	m := &Maze{
		Cells: make(map[int]*Cell, rows*cols),
		Edges: nil,
		Dimensions: Dimensions{
			Rows:      rows,
			Cols:      cols,
			HexWidth:  geo.HexWidth,
			HexHeight: geo.HexHeight,
			Padding:   GridPadding,
		},
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			center := cellCenter(row, col, geo)
			cell := &Cell{
				LinearID:        LinearID(row, col, cols),
				Position:        Position{Row: row, Col: col, X: center.X, Y: center.Y},
				ReferenceVertex: geo.ReferenceCorner(center),
				OpenPaths:       make(map[Direction]struct{}),
			}
			for d := Direction(0); d < NumDirections; d++ {
				nr, nc := Neighbor(row, col, d)
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					continue
				}
				cell.neighbors[d] = LinearID(nr, nc, cols)
			}
			m.Cells[cell.LinearID] = cell
		}
	}

	slog.Debug("built hex grid",
		slog.Int("rows", rows),
		slog.Int("cols", cols),
		slog.Float64("hex_width", geo.HexWidth),
	)
	return m
}

// pickHexWidth chooses the hex width uniformly at random within the
// bounds implied by the canvas width, for visual variety between
// generations.
func pickHexWidth(canvasWidth float64, rng *rand.Rand) float64 {
	minWidth := math.Max(MinHexagonWidth, math.Floor(canvasWidth/MaxHexagonsPerRow))
	maxWidth := math.Min(2*minWidth, MaxRadius)

	// Shrink the upper bound until enough columns fit. Without this a
	// narrow viewport with a large allowed hex width could drop below
	// MinHexagonsPerRow columns.
	usable := canvasWidth - 2*GridPadding
	for maxWidth > minWidth && usable/maxWidth < MinHexagonsPerRow {
		maxWidth *= 0.9
	}
	if maxWidth < minWidth {
		maxWidth = minWidth
	}

	return minWidth + rng.Float64()*(maxWidth-minWidth)
}

// cellCenter computes the layout center of (row, col). Odd rows shift
// right half a hex width; rows stack at 75% hex height.
func cellCenter(row, col int, geo Geometry) Vertex {
	x := GridPadding + float64(col)*geo.HexWidth + geo.HexWidth/2
	if row%2 == 1 {
		x += geo.HexWidth / 2
	}
	y := GridPadding + float64(row)*geo.HexHeight*rowOverlap + geo.HexHeight/2
	return Vertex{X: x, Y: y}
}
