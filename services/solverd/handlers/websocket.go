package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/hexmaze/services/solverd/datatypes"
)

// wsFrame is the tagged envelope for every server-to-client message.
// Status frames carry only Type and SessionID; the solution frame adds
// Data, the error frame adds Error.
type wsFrame struct {
	Type        string     `json:"type"`
	SessionID   string     `json:"session_id,omitempty"`
	Data        [][]string `json:"data,omitempty"`
	SolveTimeMS float64    `json:"solve_time_ms,omitempty"`
	Error       string     `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024 * 1024,
	WriteBufferSize: 1024 * 1024,
}

func sendJSON(ws *websocket.Conn, v interface{}) error {
	err := ws.WriteJSON(v)
	if err != nil {
		slog.Warn("Failed to write WebSocket JSON", "error", err)
	}
	return err
}

// HandleSolveWebSocket upgrades the connection and serves solve batches
// over it. Each connection gets a session id on connect; each inbound
// batch is acknowledged with queued and processing_started status
// frames before the terminal solution or internal_error frame.
func HandleSolveWebSocket(deadline time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()

		sessionID := uuid.New().String()
		slog.Info("New solve session started", "sessionID", sessionID)

		if err := sendJSON(ws, wsFrame{Type: "session_created", SessionID: sessionID}); err != nil {
			return
		}

		for {
			var req datatypes.SolveRequest
			if err := ws.ReadJSON(&req); err != nil {
				slog.Info("Solve client disconnected", "error", err.Error())
				break
			}
			if req.SessionID == "" {
				req.SessionID = sessionID
			}

			if err := sendJSON(ws, wsFrame{Type: "queued", SessionID: req.SessionID}); err != nil {
				return
			}
			if err := sendJSON(ws, wsFrame{Type: "processing_started", SessionID: req.SessionID}); err != nil {
				return
			}

			start := time.Now()
			data, err := solveBatch(c.Request.Context(), req, deadline)
			if err != nil {
				slog.Error("solve batch failed", "error", err, "sessionID", req.SessionID)
				if err := sendJSON(ws, wsFrame{
					Type:      "internal_error",
					SessionID: req.SessionID,
					Error:     err.Error(),
				}); err != nil {
					return
				}
				continue
			}

			if err := sendJSON(ws, wsFrame{
				Type:        "solution",
				SessionID:   req.SessionID,
				Data:        data,
				SolveTimeMS: float64(time.Since(start)) / float64(time.Millisecond),
			}); err != nil {
				return
			}
		}
	}
}
