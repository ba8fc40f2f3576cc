package catalog

import (
	"strings"

	"github.com/erp/syncbridge/internal/domain/shared"
)

// Category is a name-keyed product category.
type Category struct {
	shared.SyncedEntity
	Name string `gorm:"type:varchar(120);not null"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a materialized category.
func NewCategory(naturalKey, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	return &Category{
		SyncedEntity: shared.NewSyncedEntity(naturalKey, ""),
		Name:         name,
	}, nil
}

// NewPlaceholderCategory creates a category row referenced by a product
// before the category extraction has run.
func NewPlaceholderCategory(naturalKey, name string) *Category {
	return &Category{
		SyncedEntity: shared.NewPlaceholderEntity(naturalKey),
		Name:         strings.TrimSpace(name),
	}
}

// Materialize promotes a placeholder on authoritative sync.
func (c *Category) Materialize(name string) {
	if name = strings.TrimSpace(name); name != "" {
		c.Name = name
	}
	c.MarkSynced("")
}
