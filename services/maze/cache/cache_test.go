// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/hexmaze/services/maze/carve"
	"github.com/AleutianAI/hexmaze/services/maze/hexgrid"
)

func openMemory(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// TestOpenRequiresPath verifies persistent mode needs a directory.
func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

// TestOpenPersistent verifies a disk-backed cache opens in a fresh
// directory and survives a set/get round trip.
func TestOpenPersistent(t *testing.T) {
	c, err := Open(DefaultConfig(t.TempDir() + "/solve-cache"))
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

// TestGetMiss verifies an absent key yields ErrMiss.
func TestGetMiss(t *testing.T) {
	c := openMemory(t)
	_, err := c.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

// TestSetOverwrites verifies the latest value wins.
func TestSetOverwrites(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("first")))
	require.NoError(t, c.Set(ctx, "k", []byte("second")))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

// TestCancelledContext verifies both operations refuse a dead context.
func TestCancelledContext(t *testing.T) {
	c := openMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.Set(ctx, "k", nil), context.Canceled)
}

// TestKeyIsContentFingerprint verifies identical carved mazes share a
// key while any change to dimensions or edges produces a new one.
func TestKeyIsContentFingerprint(t *testing.T) {
	build := func(seed int64) *hexgrid.Maze {
		m := hexgrid.Build(800, 600, hexgrid.WithRand(rand.New(rand.NewSource(seed))))
		carve.Carve(m, carve.WithRand(rand.New(rand.NewSource(seed))))
		return m
	}

	a := build(1)
	b := build(1)
	assert.Equal(t, Key(a), Key(b), "same carving must share a key")

	c := build(2)
	assert.NotEqual(t, Key(a), Key(c), "different carving must not collide")

	// Same edges, different dimensions.
	d := build(1)
	d.Dimensions.Rows++
	assert.NotEqual(t, Key(a), Key(d))

	// Same dimensions, one edge removed.
	e := build(1)
	require.NotEmpty(t, e.Edges)
	e.Edges = e.Edges[:len(e.Edges)-1]
	assert.NotEqual(t, Key(a), Key(e))
}
