// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package orchestrate

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/hexmaze/services/maze/segment"
)

// lineComponent builds a test component whose cells form a path in the
// given order.
func lineComponent(ids ...int) segment.Component {
	adjacency := make(map[int][]int, len(ids))
	for i, id := range ids {
		if i > 0 {
			adjacency[id] = append(adjacency[id], ids[i-1])
		}
		if i+1 < len(ids) {
			adjacency[id] = append(adjacency[id], ids[i+1])
		}
		if len(ids) == 1 {
			adjacency[id] = nil
		}
	}
	return segment.Component{Size: len(adjacency), Adjacency: adjacency}
}

// TestMergeRemoteReordersByContent verifies paths returned in completion
// order are re-attributed to the components they belong to.
func TestMergeRemoteReordersByContent(t *testing.T) {
	submitted := []segment.Component{
		lineComponent(1, 2, 3),
		lineComponent(4, 5),
	}
	// Completion order is reversed relative to submission order.
	data := [][]string{
		{"4", "5"},
		{"1", "2", "3"},
	}

	paths, err := mergeRemote(submitted, data, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, paths[0])
	assert.Equal(t, []int{4, 5}, paths[1])
}

// TestMergeRemoteCountMismatch verifies a wrong result count aborts.
func TestMergeRemoteCountMismatch(t *testing.T) {
	submitted := []segment.Component{lineComponent(1, 2, 3)}
	data := [][]string{{"1", "2"}, {"3"}}

	_, err := mergeRemote(submitted, data, slog.Default())
	assert.ErrorIs(t, err, ErrResultCountMismatch)
}

// TestMergeRemoteUnattributable verifies a path starting outside every
// component aborts.
func TestMergeRemoteUnattributable(t *testing.T) {
	submitted := []segment.Component{lineComponent(1, 2, 3)}
	data := [][]string{{"99", "100"}}

	_, err := mergeRemote(submitted, data, slog.Default())
	assert.ErrorIs(t, err, ErrUnattributablePath)
}

// TestMergeRemoteDuplicateAttribution verifies two paths mapping to one
// component abort.
func TestMergeRemoteDuplicateAttribution(t *testing.T) {
	submitted := []segment.Component{
		lineComponent(1, 2, 3),
		lineComponent(4, 5),
	}
	data := [][]string{
		{"1", "2"},
		{"3", "2"},
	}

	_, err := mergeRemote(submitted, data, slog.Default())
	assert.ErrorIs(t, err, ErrDuplicateAttribution)
}

// TestMergeRemoteInvalidPath verifies a disconnected or repeating walk
// aborts even when attributable.
func TestMergeRemoteInvalidPath(t *testing.T) {
	tests := []struct {
		name string
		data [][]string
	}{
		{"gap", [][]string{{"1", "3"}}},
		{"repeat", [][]string{{"1", "2", "1"}}},
		{"unparseable", [][]string{{"1", "banana"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitted := []segment.Component{lineComponent(1, 2, 3)}
			_, err := mergeRemote(submitted, tt.data, slog.Default())
			assert.ErrorIs(t, err, ErrInvalidRemotePath)
		})
	}
}

// TestMergeRemoteDropsEmptyPath verifies an empty path is tolerated and
// leaves its component pathless.
func TestMergeRemoteDropsEmptyPath(t *testing.T) {
	submitted := []segment.Component{
		lineComponent(1, 2, 3),
		lineComponent(4, 5),
	}
	data := [][]string{
		{},
		{"4", "5"},
	}

	paths, err := mergeRemote(submitted, data, slog.Default())
	require.NoError(t, err)

	_, hasFirst := paths[0]
	assert.False(t, hasFirst, "empty path must not attribute")
	assert.Equal(t, []int{4, 5}, paths[1])
}
