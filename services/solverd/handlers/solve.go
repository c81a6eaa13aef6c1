package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/hexmaze/services/maze/solve"
	"github.com/AleutianAI/hexmaze/services/solverd/datatypes"
)

// solveBatch runs the search for every component concurrently and
// returns the encoded paths in completion order.
func solveBatch(ctx context.Context, req datatypes.SolveRequest, deadline time.Duration) ([][]string, error) {
	components := make([]map[int][]int, len(req.Components))
	for i, raw := range req.Components {
		adjacency, err := datatypes.DecodeAdjacency(raw)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		components[i] = adjacency
	}

	var (
		mu   sync.Mutex
		data [][]string
	)
	g, gctx := errgroup.WithContext(ctx)
	for i, adjacency := range components {
		g.Go(func() error {
			res := solve.Longest(gctx, adjacency,
				solve.WithCols(req.Dimensions.Cols),
				solve.WithDeadline(deadline),
			)
			if res.TimedOut {
				slog.Warn("component search hit deadline, returning best effort",
					"component", i, "pathLength", len(res.Path))
			}
			mu.Lock()
			data = append(data, datatypes.EncodePath(res.Path))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// HandleSolve is the request/response solve endpoint.
func HandleSolve(deadline time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.SolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		start := time.Now()
		data, err := solveBatch(c.Request.Context(), req, deadline)
		if err != nil {
			slog.Error("solve batch failed", "error", err, "sessionID", req.SessionID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, datatypes.SolveResponse{
			SessionID:   req.SessionID,
			Data:        data,
			SolveTimeMS: float64(time.Since(start)) / float64(time.Millisecond),
		})
	}
}
