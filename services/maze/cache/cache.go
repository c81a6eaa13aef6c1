// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache stores solved maze results in an embedded BadgerDB so
// repeated solves of an identical carved graph skip the search.
//
// Keys are content fingerprints of the carved edge set, so two mazes
// with the same dimensions but different carving never collide.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/hexmaze/services/maze/hexgrid"
)

// ErrMiss is returned by Get when no entry exists for the key.
var ErrMiss = errors.New("cache miss")

// Config holds configuration for the solve cache.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// TTL is how long entries live. Zero means no expiry.
	TTL time.Duration

	// Logger receives BadgerDB's internal logging. If nil, that
	// logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults: persistent storage at the
// given path with a 24-hour TTL.
func DefaultConfig(path string) Config {
	return Config{
		Path: path,
		TTL:  24 * time.Hour,
	}
}

// InMemoryConfig returns configuration for testing: in-memory, no TTL.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Cache is a BadgerDB-backed solve result cache.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// Open creates and opens a solve cache.
//
// Description:
//
//	Opens a BadgerDB database at the configured path, or in memory if
//	InMemory is true. Creates the directory if it doesn't exist.
//
// Inputs:
//
//	cfg - Cache configuration. Path is required unless InMemory is true.
//
// Outputs:
//
//	*Cache - The opened cache. Caller must call Close() when done.
//	error - Non-nil if path is invalid or database cannot be opened.
//
// Thread Safety: The returned *Cache is safe for concurrent use.
func Open(cfg Config) (*Cache, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent cache")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	return &Cache{db: db, ttl: cfg.TTL}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key derives the cache key for a carved maze.
//
// Description:
//
//	Hashes the dimensions and the sorted canonical edge list, so the
//	key is a content fingerprint of the carved graph. Cell positions
//	are fully determined by dimensions and do not enter the hash.
//
// Inputs:
//
//	m - The carved maze. Edges must already be in canonical order.
//
// Outputs:
//
//	string - Key of the form "maze:{rows}x{cols}:{hex digest}".
func Key(m *hexgrid.Maze) string {
	h := sha256.New()
	fmt.Fprintf(h, "%dx%d;", m.Dimensions.Rows, m.Dimensions.Cols)
	for _, e := range m.Edges {
		fmt.Fprintf(h, "%d-%d;", e.From, e.To)
	}
	return fmt.Sprintf("maze:%dx%d:%s",
		m.Dimensions.Rows, m.Dimensions.Cols,
		hex.EncodeToString(h.Sum(nil)))
}

// Get returns the cached value for key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return value, nil
}

// Set stores value under key, applying the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
