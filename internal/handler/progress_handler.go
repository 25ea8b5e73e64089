package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/odtrack/analytics-api/pkg/progress"
)

// ProgressHandler streams export progress updates over a websocket.
type ProgressHandler struct {
	hub      *progress.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewProgressHandler constructs handler.
func NewProgressHandler(hub *progress.Hub, logger *zap.Logger) *ProgressHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is enforced by the CORS layer in front.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Stream godoc
// @Summary Export progress stream
// @Tags Reports
// @Param exportId path string true "Export ID"
// @Router /reports/progress/{exportId} [get]
func (h *ProgressHandler) Stream(c *gin.Context) {
	exportID := c.Param("exportId")
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.String("export_id", exportID), zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.hub.Subscribe(exportID)
	defer cancel()

	// Drain client frames so disconnects are noticed.
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-disconnected:
			return
		case update, ok := <-updates:
			if !ok {
				closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "export finished")
				_ = conn.WriteMessage(websocket.CloseMessage, closeMsg)
				return
			}
			if err := conn.WriteJSON(update); err != nil {
				h.logger.Debug("websocket write", zap.String("export_id", exportID), zap.Error(err))
				return
			}
		}
	}
}
