package catalog

import (
	"strings"

	"github.com/erp/syncbridge/internal/domain/shared"
)

// Brand is a name-keyed product brand.
type Brand struct {
	shared.SyncedEntity
	Name string `gorm:"type:varchar(120);not null"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a materialized brand.
func NewBrand(naturalKey, name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	return &Brand{
		SyncedEntity: shared.NewSyncedEntity(naturalKey, ""),
		Name:         name,
	}, nil
}

// NewPlaceholderBrand creates a brand row referenced by a product before the
// brand extraction has run.
func NewPlaceholderBrand(naturalKey, name string) *Brand {
	return &Brand{
		SyncedEntity: shared.NewPlaceholderEntity(naturalKey),
		Name:         strings.TrimSpace(name),
	}
}

// Materialize promotes a placeholder on authoritative sync.
func (b *Brand) Materialize(name string) {
	if name = strings.TrimSpace(name); name != "" {
		b.Name = name
	}
	b.MarkSynced("")
}
