package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/erp/syncbridge/internal/domain/shared"
	syncdomain "github.com/erp/syncbridge/internal/domain/sync"
	"github.com/erp/syncbridge/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunHandler serves the run-status endpoints.
type RunHandler struct {
	runs syncdomain.RunRepository
	ttl  time.Duration
}

// NewRunHandler creates a RunHandler. ttl bounds how long a run that never
// completes still counts as active.
func NewRunHandler(runs syncdomain.RunRepository, ttl time.Duration) *RunHandler {
	return &RunHandler{runs: runs, ttl: ttl}
}

// OpenRun handles POST /api/v1/sync/runs.
func (h *RunHandler) OpenRun(c *gin.Context) {
	var req OpenRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	run := syncdomain.NewRun(req.AgentHost, h.ttl)
	if err := h.runs.Save(c.Request.Context(), run); err != nil {
		logger.GetGinLogger(c).Error("saving run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not create run"})
		return
	}
	c.JSON(http.StatusCreated, toRunResponse(run))
}

// CompleteRun handles PUT /api/v1/sync/runs/:id/complete.
func (h *RunHandler) CompleteRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid run id"})
		return
	}
	var req CompleteRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	run, err := h.runs.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "run not found"})
			return
		}
		logger.GetGinLogger(c).Error("loading run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load run"})
		return
	}

	run.Complete(req.RecordsExtracted, req.RecordsFiltered, req.RecordsApplied, req.BatchesFailed)
	if err := h.runs.Update(c.Request.Context(), run); err != nil {
		logger.GetGinLogger(c).Error("updating run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not update run"})
		return
	}
	c.JSON(http.StatusOK, toRunResponse(run))
}

// ActiveRuns handles GET /api/v1/sync/runs/active. Expired running rows are
// excluded by the repository query, so a crashed agent stops counting as
// active once its TTL passes.
func (h *RunHandler) ActiveRuns(c *gin.Context) {
	runs, err := h.runs.FindActive(c.Request.Context(), time.Now())
	if err != nil {
		logger.GetGinLogger(c).Error("listing active runs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not list runs"})
		return
	}

	out := make([]RunResponse, 0, len(runs))
	for i := range runs {
		out = append(out, toRunResponse(&runs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func toRunResponse(run *syncdomain.Run) RunResponse {
	resp := RunResponse{
		ID:               run.ID.String(),
		Status:           string(run.Status),
		AgentHost:        run.AgentHost,
		RecordsExtracted: run.RecordsExtracted,
		RecordsFiltered:  run.RecordsFiltered,
		RecordsApplied:   run.RecordsApplied,
		BatchesFailed:    run.BatchesFailed,
		StartedAt:        run.StartedAt.Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		resp.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return resp
}
