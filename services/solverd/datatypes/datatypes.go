// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes holds the wire types the solving service accepts
// and produces. They mirror the client transport shapes but carry gin
// binding tags for inbound validation.
package datatypes

import (
	"fmt"
	"strconv"
)

// Dimensions is the grid shape of the maze the components came from.
type Dimensions struct {
	Rows int `json:"rows" binding:"required,gt=0"`
	Cols int `json:"cols" binding:"required,gt=0"`
}

// SolveRequest is the inbound batch: one adjacency-list object per
// component, cell ids stringified.
type SolveRequest struct {
	Components []map[string][]string `json:"components" binding:"required,min=1"`
	Dimensions Dimensions            `json:"dimensions" binding:"required"`
	SessionID  string                `json:"session_id,omitempty"`
}

// SolveResponse carries one path per submitted component, in completion
// order. Callers re-attribute paths to components by content.
type SolveResponse struct {
	SessionID   string     `json:"session_id"`
	Data        [][]string `json:"data"`
	SolveTimeMS float64    `json:"solve_time_ms"`
}

// DecodeAdjacency parses one wire component into an int adjacency list.
func DecodeAdjacency(raw map[string][]string) (map[int][]int, error) {
	adjacency := make(map[int][]int, len(raw))
	for key, neighbors := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("cell id %q: %w", key, err)
		}
		ns := make([]int, len(neighbors))
		for i, s := range neighbors {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("cell %d neighbor %q: %w", id, s, err)
			}
			ns[i] = n
		}
		adjacency[id] = ns
	}
	return adjacency, nil
}

// EncodePath converts a solved path back to the stringified wire form.
func EncodePath(path []int) []string {
	out := make([]string, len(path))
	for i, id := range path {
		out[i] = strconv.Itoa(id)
	}
	return out
}
