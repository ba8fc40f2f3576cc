// Package sync holds the persistent run-status record. The legacy source
// kept an in-process "active sync" map that did not survive restarts; the
// canonical store keeps a row per run with a TTL instead, so status queries
// stay correct across restarts.
package sync

import (
	"context"
	"time"

	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/google/uuid"
)

// RunStatus represents the status of a sync run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one agent pipeline execution.
type Run struct {
	shared.BaseEntity
	Status           RunStatus `gorm:"type:varchar(20);not null;default:'running'"`
	AgentHost        string    `gorm:"type:varchar(120)"`
	RecordsExtracted int       `gorm:"not null;default:0"`
	RecordsFiltered  int       `gorm:"not null;default:0"`
	RecordsApplied   int       `gorm:"not null;default:0"`
	BatchesFailed    int       `gorm:"not null;default:0"`
	StartedAt        time.Time
	FinishedAt       *time.Time
	ExpiresAt        time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Run) TableName() string {
	return "sync_runs"
}

// NewRun creates a running sync run record with the given TTL.
func NewRun(agentHost string, ttl time.Duration) *Run {
	now := time.Now()
	return &Run{
		BaseEntity: shared.NewBaseEntity(),
		Status:     RunStatusRunning,
		AgentHost:  agentHost,
		StartedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

// Complete marks the run finished.
func (r *Run) Complete(extracted, filtered, applied, failedBatches int) {
	now := time.Now()
	r.Status = RunStatusCompleted
	if failedBatches > 0 {
		r.Status = RunStatusFailed
	}
	r.RecordsExtracted = extracted
	r.RecordsFiltered = filtered
	r.RecordsApplied = applied
	r.BatchesFailed = failedBatches
	r.FinishedAt = &now
	r.UpdatedAt = now
}

// IsActive reports whether the run is still running and not expired.
func (r *Run) IsActive(now time.Time) bool {
	return r.Status == RunStatusRunning && now.Before(r.ExpiresAt)
}

// RunRepository defines persistence operations for sync runs
type RunRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Run, error)
	FindActive(ctx context.Context, now time.Time) ([]Run, error)
	Save(ctx context.Context, run *Run) error
	Update(ctx context.Context, run *Run) error
}
