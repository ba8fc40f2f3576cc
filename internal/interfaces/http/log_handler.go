package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LogHandler accepts agent log lines and re-emits them into the service's
// own log stream, tagged with the agent host. Accepting is always cheap and
// never influences ingestion.
type LogHandler struct {
	logger *zap.Logger
}

// NewLogHandler creates a LogHandler.
func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger.Named("agent")}
}

// Receive handles POST /api/v1/sync/logs.
func (h *LogHandler) Receive(c *gin.Context) {
	var req AgentLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	fields := []zap.Field{
		zap.String("agent_host", req.Context.AgentHost),
		zap.String("agent_time", req.Timestamp),
	}
	switch req.Level {
	case "error":
		h.logger.Error(req.Message, fields...)
	case "warn":
		h.logger.Warn(req.Message, fields...)
	default:
		h.logger.Info(req.Message, fields...)
	}
	c.Status(http.StatusAccepted)
}
