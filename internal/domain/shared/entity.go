package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SyncedEntity carries the fields shared by every canonical entity owned by
// the sync pipeline: the natural key from the legacy source, the legacy
// internal id, the placeholder marker, and the last successful sync time.
//
// A placeholder row is shaped exactly like a materialized row; only
// IsPlaceholder distinguishes it, so the later authoritative upsert can
// detect and overwrite it in place.
type SyncedEntity struct {
	BaseEntity
	NaturalKey    string `gorm:"type:varchar(160);not null;uniqueIndex"`
	LegacyID      string `gorm:"type:varchar(60);index"`
	IsPlaceholder bool   `gorm:"not null;default:false"`
	LastSyncedAt  time.Time
}

// NewSyncedEntity creates a materialized synced entity keyed by naturalKey
func NewSyncedEntity(naturalKey, legacyID string) SyncedEntity {
	return SyncedEntity{
		BaseEntity:   NewBaseEntity(),
		NaturalKey:   naturalKey,
		LegacyID:     legacyID,
		LastSyncedAt: time.Now(),
	}
}

// NewPlaceholderEntity creates a placeholder row for a parent that has not
// yet been seen by its authoritative extraction.
func NewPlaceholderEntity(naturalKey string) SyncedEntity {
	e := NewSyncedEntity(naturalKey, "")
	e.IsPlaceholder = true
	return e
}

// MarkSynced records a successful authoritative sync and clears the
// placeholder marker.
func (e *SyncedEntity) MarkSynced(legacyID string) {
	if legacyID != "" {
		e.LegacyID = legacyID
	}
	e.IsPlaceholder = false
	e.LastSyncedAt = time.Now()
	e.UpdatedAt = time.Now()
}
