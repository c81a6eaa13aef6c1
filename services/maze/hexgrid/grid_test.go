// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package hexgrid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLinearIDRoundTrip verifies id encoding and decoding are inverses.
func TestLinearIDRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		row  int
		col  int
		cols int
		want int
	}{
		{"origin", 0, 0, 10, 1},
		{"first row end", 0, 9, 10, 10},
		{"second row start", 1, 0, 10, 11},
		{"interior", 3, 4, 12, 41},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := LinearID(tt.row, tt.col, tt.cols)
			assert.Equal(t, tt.want, id)

			row, col := RowCol(id, tt.cols)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.col, col)
		})
	}
}

// TestOpposite verifies each direction's opposite points back.
func TestOpposite(t *testing.T) {
	for d := Direction(0); d < NumDirections; d++ {
		assert.Equal(t, d, d.Opposite().Opposite(), "double opposite of %s", d)
		assert.NotEqual(t, d, d.Opposite())
	}
	assert.Equal(t, DirSW, DirNE.Opposite())
	assert.Equal(t, DirW, DirE.Opposite())
	assert.Equal(t, DirNW, DirSE.Opposite())
}

// TestNeighborAdjacentAgree verifies the delta tables and the pairwise
// adjacency predicate describe the same relation, in both directions.
func TestNeighborAdjacentAgree(t *testing.T) {
	const rows, cols = 6, 7
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			a := Position{Row: row, Col: col}
			for d := Direction(0); d < NumDirections; d++ {
				nr, nc := Neighbor(row, col, d)
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					continue
				}
				b := Position{Row: nr, Col: nc}
				assert.True(t, Adjacent(a, b),
					"(%d,%d) %s (%d,%d) stepped but not Adjacent", row, col, d, nr, nc)
				assert.True(t, Adjacent(b, a),
					"Adjacent not symmetric for (%d,%d) and (%d,%d)", row, col, nr, nc)

				// Stepping back along the opposite direction must return
				// to the origin.
				br, bc := Neighbor(nr, nc, d.Opposite())
				assert.Equal(t, row, br)
				assert.Equal(t, col, bc)
			}
		}
	}
}

// TestAdjacentRejectsNonNeighbors verifies cells that share no border are
// never reported adjacent.
func TestAdjacentRejectsNonNeighbors(t *testing.T) {
	tests := []struct {
		name string
		a, b Position
	}{
		{"same cell", Position{Row: 2, Col: 2}, Position{Row: 2, Col: 2}},
		{"two columns apart", Position{Row: 1, Col: 1}, Position{Row: 1, Col: 3}},
		{"two rows apart", Position{Row: 0, Col: 3}, Position{Row: 2, Col: 3}},
		{"even row wrong diagonal", Position{Row: 0, Col: 0}, Position{Row: 1, Col: 1}},
		{"odd row wrong diagonal", Position{Row: 1, Col: 2}, Position{Row: 2, Col: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Adjacent(tt.a, tt.b))
			assert.False(t, Adjacent(tt.b, tt.a))
		})
	}
}

// TestBuildPopulatesGrid verifies cell count, ids, and neighbor topology
// for a normal canvas.
func TestBuildPopulatesGrid(t *testing.T) {
	m := Build(800, 600, WithRand(rand.New(rand.NewSource(1))))

	dims := m.Dimensions
	require.Greater(t, dims.Rows, 0)
	require.GreaterOrEqual(t, dims.Cols, MinHexagonsPerRow)
	require.LessOrEqual(t, dims.Cols, MaxHexagonsPerRow)
	assert.Len(t, m.Cells, dims.Rows*dims.Cols)
	assert.Empty(t, m.Edges, "Build must not carve")

	for id, cell := range m.Cells {
		assert.Equal(t, id, cell.LinearID)
		row, col := RowCol(id, dims.Cols)
		assert.Equal(t, row, cell.Position.Row)
		assert.Equal(t, col, cell.Position.Col)

		// Every recorded neighbor must exist and be geometrically
		// adjacent.
		for d := Direction(0); d < NumDirections; d++ {
			nb, ok := cell.Neighbor(d)
			if !ok {
				continue
			}
			other, exists := m.Cell(nb)
			require.True(t, exists, "cell %d points at missing neighbor %d", id, nb)
			assert.True(t, Adjacent(cell.Position, other.Position))
		}
	}
}

// TestBuildHexWidthBounds verifies the picked hex width honors the
// sizing constants across seeds.
func TestBuildHexWidthBounds(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		m := Build(1200, 900, WithRand(rand.New(rand.NewSource(seed))))
		w := m.Dimensions.HexWidth
		assert.GreaterOrEqual(t, w, MinHexagonWidth)
		assert.LessOrEqual(t, w, MaxRadius)
	}
}

// TestBuildDegenerateCanvas verifies tiny canvases yield an empty maze,
// not a panic or error.
func TestBuildDegenerateCanvas(t *testing.T) {
	tests := []struct {
		name   string
		width  float64
		height float64
	}{
		{"zero", 0, 0},
		{"smaller than padding", 15, 15},
		{"flat", 800, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(tt.width, tt.height, WithRand(rand.New(rand.NewSource(1))))
			assert.Empty(t, m.Cells)
			assert.Empty(t, m.Edges)
		})
	}
}

// TestBuildDeterministicWithSeed verifies identical seeds produce
// identical grids.
func TestBuildDeterministicWithSeed(t *testing.T) {
	a := Build(640, 480, WithRand(rand.New(rand.NewSource(7))))
	b := Build(640, 480, WithRand(rand.New(rand.NewSource(7))))

	require.Equal(t, a.Dimensions, b.Dimensions)
	require.Len(t, b.Cells, len(a.Cells))
	for id, cell := range a.Cells {
		other := b.Cells[id]
		require.NotNil(t, other)
		assert.Equal(t, cell.Position, other.Position)
	}
}

// TestGeometryCorners verifies the derived hexagon measurements.
func TestGeometryCorners(t *testing.T) {
	geo := NewGeometry(20)

	assert.InDelta(t, 20.0, geo.HexWidth, 1e-9)
	assert.InDelta(t, 20.0/1.7320508, geo.Size, 1e-6)
	assert.InDelta(t, 2*geo.Size, geo.HexHeight, 1e-9)
	assert.InDelta(t, 10.0, geo.Apothem(), 1e-6)

	// Six corners, all at distance Size from the center.
	center := Vertex{X: 50, Y: 50}
	for i := 0; i < 6; i++ {
		c := geo.Corner(center, i)
		dx, dy := c.X-center.X, c.Y-center.Y
		assert.InDelta(t, geo.Size*geo.Size, dx*dx+dy*dy, 1e-6)
	}
}
