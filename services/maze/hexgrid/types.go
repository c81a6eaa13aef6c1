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

// Direction indexes the six neighbor directions of a pointy-top hexagon.
type Direction int

const (
	// DirNE is the north-east neighbor.
	DirNE Direction = iota

	// DirE is the east neighbor (same row, next column).
	DirE

	// DirSE is the south-east neighbor.
	DirSE

	// DirSW is the south-west neighbor.
	DirSW

	// DirW is the west neighbor (same row, previous column).
	DirW

	// DirNW is the north-west neighbor.
	DirNW

	// NumDirections is the number of hex directions (for array sizing).
	NumDirections
)

// directionNames maps Direction values to their string representations.
var directionNames = map[Direction]string{
	DirNE: "NE",
	DirE:  "E",
	DirSE: "SE",
	DirSW: "SW",
	DirW:  "W",
	DirNW: "NW",
}

// String returns the string representation of the Direction.
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "unknown"
}

// Opposite returns the direction pointing back toward the origin cell.
func (d Direction) Opposite() Direction {
	return (d + 3) % NumDirections
}

// delta is a row/column displacement for one direction.
type delta struct {
	row, col int
}

// Offset neighbor tables for odd-r layout (odd rows shifted half a hex
// to the right). This is the single adjacency rule shared by the grid
// builder, the segmenter, and the solver; any change here must hold for
// all three.
var (
	evenRowDeltas = [NumDirections]delta{
		DirNE: {-1, 0},
		DirE:  {0, 1},
		DirSE: {1, 0},
		DirSW: {1, -1},
		DirW:  {0, -1},
		DirNW: {-1, -1},
	}
	oddRowDeltas = [NumDirections]delta{
		DirNE: {-1, 1},
		DirE:  {0, 1},
		DirSE: {1, 1},
		DirSW: {1, 0},
		DirW:  {0, -1},
		DirNW: {-1, 0},
	}
)

// Neighbor returns the row/col of the neighbor of (row, col) in direction d.
// The result is not bounds-checked.
func Neighbor(row, col int, d Direction) (int, int) {
	var dl delta
	if row%2 == 0 {
		dl = evenRowDeltas[d]
	} else {
		dl = oddRowDeltas[d]
	}
	return row + dl.row, col + dl.col
}

// Adjacent reports whether two grid positions share a hexagon border.
//
// Two cells are adjacent iff (a) they sit on the same row one column
// apart, or (b) they sit on neighboring rows and the column difference
// matches the lower-index row's parity: an even row borders the next row
// at the same or one-lower column; an odd row borders it at the same or
// one-higher column.
func Adjacent(a, b Position) bool {
	dr := a.Row - b.Row
	dc := a.Col - b.Col

	switch dr {
	case 0:
		return dc == 1 || dc == -1
	case -1, 1:
		// Normalize so low is the cell on the smaller row index.
		low, high := a, b
		if dr == 1 {
			low, high = b, a
		}
		d := high.Col - low.Col
		if low.Row%2 == 0 {
			return d == 0 || d == -1
		}
		return d == 0 || d == 1
	default:
		return false
	}
}

// Position is a cell's grid and layout location. X and Y are layout
// coordinates only; geometric truth lives in Row/Col plus the parity rule.
type Position struct {
	Row int     `json:"row"`
	Col int     `json:"col"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// Vertex is a 2D point, used for hexagon corner coordinates.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell is one hexagon in the maze.
//
// Cells are created once per generation and are immutable afterwards,
// except for OpenPaths which the carver populates from the final edge set.
type Cell struct {
	// LinearID is the 1-based unique identifier, row*cols+col+1.
	LinearID int `json:"id"`

	// Position is the cell's grid coordinates and layout center.
	Position Position `json:"position"`

	// ReferenceVertex is one hexagon corner; collaborators derive the
	// other five by stepping 60 degrees around the center.
	ReferenceVertex Vertex `json:"referenceVertex"`

	// OpenPaths holds the direction indices carved open for this cell.
	OpenPaths map[Direction]struct{} `json:"-"`

	// neighbors holds the LinearID of the neighbor in each direction,
	// or 0 when the direction leaves the grid.
	neighbors [NumDirections]int
}

// Neighbor returns the LinearID of the neighbor in direction d, if any.
func (c *Cell) Neighbor(d Direction) (int, bool) {
	id := c.neighbors[d]
	return id, id != 0
}

// ValidNeighbors returns the LinearIDs of all in-bounds neighbors,
// in direction order.
func (c *Cell) ValidNeighbors() []int {
	out := make([]int, 0, NumDirections)
	for d := Direction(0); d < NumDirections; d++ {
		if id := c.neighbors[d]; id != 0 {
			out = append(out, id)
		}
	}
	return out
}

// Edge is an unordered carved connection between two cells, stored in
// canonical order (From < To) so duplicate detection is set-based.
// Weight is always 1 in this engine; it is reserved for future use.
type Edge struct {
	From   int `json:"from"`
	To     int `json:"to"`
	Weight int `json:"weight"`
}

// NewEdge returns the canonical edge between a and b.
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{From: a, To: b, Weight: 1}
}

// Dimensions describes the generated grid.
type Dimensions struct {
	Rows      int     `json:"rows"`
	Cols      int     `json:"cols"`
	HexWidth  float64 `json:"hexWidth"`
	HexHeight float64 `json:"hexHeight"`
	Padding   float64 `json:"padding"`
}

// Maze is the carved hexagonal maze graph.
//
// Invariants: every Edge endpoint refers to an existing cell, and
// Dimensions.Rows*Cols == len(Cells). A Maze is built once per generate
// request and never mutated after carving completes.
type Maze struct {
	Cells      map[int]*Cell `json:"cells"`
	Edges      []Edge        `json:"edges"`
	Dimensions Dimensions    `json:"dimensions"`
}

// Cell returns the cell with the given LinearID.
func (m *Maze) Cell(id int) (*Cell, bool) {
	c, ok := m.Cells[id]
	return c, ok
}

// LinearID computes the 1-based identifier for (row, col) in a grid with
// the given column count.
func LinearID(row, col, cols int) int {
	return row*cols + col + 1
}

// RowCol inverts LinearID for a grid with the given column count.
func RowCol(id, cols int) (int, int) {
	return (id - 1) / cols, (id - 1) % cols
}
