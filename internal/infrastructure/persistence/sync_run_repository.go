package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/syncbridge/internal/domain/shared"
	syncdomain "github.com/erp/syncbridge/internal/domain/sync"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRunRepository implements sync.RunRepository using GORM
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// FindByID finds a run by its id
func (r *GormRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*syncdomain.Run, error) {
	var run syncdomain.Run
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindActive returns running, unexpired runs
func (r *GormRunRepository) FindActive(ctx context.Context, now time.Time) ([]syncdomain.Run, error) {
	var runs []syncdomain.Run
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at > ?", syncdomain.RunStatusRunning, now).
		Order("started_at DESC").
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Save creates a new run row
func (r *GormRunRepository) Save(ctx context.Context, run *syncdomain.Run) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update persists changes to an existing run row
func (r *GormRunRepository) Update(ctx context.Context, run *syncdomain.Run) error {
	return r.db.WithContext(ctx).Save(run).Error
}
