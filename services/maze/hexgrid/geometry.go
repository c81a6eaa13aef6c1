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

import "math"

// Geometry is an immutable value object for pointy-top hexagon math.
//
// Everything that needs vertex coordinates takes a Geometry explicitly;
// there is no package-level size or angle state, so call order never
// matters.
type Geometry struct {
	// HexWidth is the flat-to-flat width, sqrt(3) * Size.
	HexWidth float64

	// HexHeight is the point-to-point height, 2 * Size.
	HexHeight float64

	// Size is the circumradius (center to corner).
	Size float64
}

// NewGeometry derives a Geometry from the hexagon width.
func NewGeometry(hexWidth float64) Geometry {
	size := hexWidth / math.Sqrt(3)
	return Geometry{
		HexWidth:  hexWidth,
		HexHeight: 2 * size,
		Size:      size,
	}
}

// Apothem is the center-to-edge distance, HexWidth / 2.
func (g Geometry) Apothem() float64 {
	return g.HexWidth / 2
}

// Corner returns corner i (0..5) of the hexagon centered at center.
// Corner 0 is the reference vertex; corners advance counterclockwise in
// 60 degree steps. Pointy-top corners sit at 60*i - 30 degrees.
func (g Geometry) Corner(center Vertex, i int) Vertex {
	angle := math.Pi / 180 * (60*float64(i) - 30)
	return Vertex{
		X: center.X + g.Size*math.Cos(angle),
		Y: center.Y + g.Size*math.Sin(angle),
	}
}

// ReferenceCorner returns corner 0, the vertex stored on each cell.
func (g Geometry) ReferenceCorner(center Vertex) Vertex {
	return g.Corner(center, 0)
}
