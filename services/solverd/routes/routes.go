// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/hexmaze/services/maze/telemetry"
	"github.com/AleutianAI/hexmaze/services/solverd/handlers"
	"github.com/AleutianAI/hexmaze/services/solverd/middleware"
)

func SetupRoutes(router *gin.Engine, limiter *middleware.RateLimiter, deadline time.Duration) {
	router.GET("/health", handlers.HealthCheck)

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	// API version 1 group
	v1 := router.Group("/v1")
	if limiter != nil {
		v1.Use(limiter.Middleware())
	}
	{
		v1.POST("/maze/solve", handlers.HandleSolve(deadline))
		v1.GET("/maze/ws", handlers.HandleSolveWebSocket(deadline))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
