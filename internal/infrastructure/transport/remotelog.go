package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LogShipper forwards agent log lines to the ingestion service so operators
// can watch extraction from the server side. Shipping is best effort: a
// failure is noted locally and never surfaces to the pipeline.
type LogShipper struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

// NewLogShipper creates a shipper targeting the service at baseURL.
func NewLogShipper(baseURL string, timeout time.Duration, logger *zap.Logger) *LogShipper {
	return &LogShipper{
		url:    baseURL + "/api/v1/sync/logs",
		http:   &http.Client{Timeout: timeout},
		logger: logger.Named("remotelog"),
	}
}

// LogContext carries structured metadata alongside a shipped line.
type LogContext struct {
	AgentHost string `json:"agent_host,omitempty"`
}

// LogLine is one shipped log entry.
type LogLine struct {
	Timestamp time.Time  `json:"timestamp"`
	Level     string     `json:"level"`
	Message   string     `json:"message"`
	Context   LogContext `json:"context"`
}

// Ship posts one log line, swallowing any failure.
func (s *LogShipper) Ship(ctx context.Context, line LogLine) {
	body, err := json.Marshal(line)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Debug("log shipping failed", zap.Error(err))
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		s.logger.Debug("log shipping rejected", zap.Int("status", resp.StatusCode))
	}
}
