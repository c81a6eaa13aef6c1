// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(limiter *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return router
}

func get(router *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code
}

// TestRateLimiterEnforcesBurst verifies requests past the burst are 429.
func TestRateLimiterEnforcesBurst(t *testing.T) {
	router := limitedRouter(NewRateLimiter(1, 3))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(router, "10.0.0.1"), "request %d within burst", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, get(router, "10.0.0.1"))
}

// TestRateLimiterIsPerClient verifies one noisy client does not starve
// another.
func TestRateLimiterIsPerClient(t *testing.T) {
	router := limitedRouter(NewRateLimiter(1, 1))

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, get(router, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.2"))
}

// TestRateLimiterRefills verifies tokens come back over time.
func TestRateLimiterRefills(t *testing.T) {
	router := limitedRouter(NewRateLimiter(50, 1))

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, get(router, "10.0.0.1"))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1"))
}

// TestRateLimiterEvictsIdleClients verifies stale entries are dropped on
// the next access.
func TestRateLimiterEvictsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	limiter.limiterFor("10.0.0.1")
	limiter.clients["10.0.0.1"].lastSeen = time.Now().Add(-idleEviction - time.Minute)

	limiter.limiterFor("10.0.0.2")
	_, ok := limiter.clients["10.0.0.1"]
	assert.False(t, ok, "idle client must be evicted")
}
