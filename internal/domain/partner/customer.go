package partner

import (
	"strings"

	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
)

// Customer is the canonical representation of a legacy customer.
type Customer struct {
	shared.SyncedEntity
	CustomerNumber string `gorm:"type:varchar(60);not null;index"`
	Name           string `gorm:"type:varchar(200);not null"`
	ContactName    string `gorm:"type:varchar(100)"`
	Phone          string `gorm:"type:varchar(50)"`
	Email          string `gorm:"type:varchar(200)"`
	Address        string `gorm:"type:text"`
	City           string `gorm:"type:varchar(100)"`
	Province       string `gorm:"type:varchar(100)"`
	PostalCode     string `gorm:"type:varchar(20)"`
	LocationCode   string `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomerFromRecord creates a materialized customer from a source record.
func NewCustomerFromRecord(naturalKey string, rec syncrec.Customer) (*Customer, error) {
	if strings.TrimSpace(rec.CustomerNumber) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NUMBER", "Customer number cannot be empty")
	}
	c := &Customer{SyncedEntity: shared.NewSyncedEntity(naturalKey, rec.LegacyID)}
	c.applyFields(rec)
	return c, nil
}

// NewPlaceholderCustomer creates a minimal customer row to satisfy a
// reference from an invoice whose customer has not been synced yet.
func NewPlaceholderCustomer(naturalKey, customerNumber string) *Customer {
	return &Customer{
		SyncedEntity:   shared.NewPlaceholderEntity(naturalKey),
		CustomerNumber: strings.TrimSpace(customerNumber),
		Name:           strings.TrimSpace(customerNumber),
	}
}

// ApplyRecord overwrites the customer's fields with the authoritative record
// and marks it synced. Used for both placeholder promotion and resync.
func (c *Customer) ApplyRecord(rec syncrec.Customer) error {
	if strings.TrimSpace(rec.CustomerNumber) == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_NUMBER", "Customer number cannot be empty")
	}
	c.applyFields(rec)
	c.MarkSynced(rec.LegacyID)
	return nil
}

func (c *Customer) applyFields(rec syncrec.Customer) {
	c.CustomerNumber = strings.TrimSpace(rec.CustomerNumber)
	c.Name = strings.TrimSpace(rec.Name)
	c.ContactName = rec.ContactName
	c.Phone = rec.Phone
	c.Email = rec.Email
	c.Address = rec.Address
	c.City = rec.City
	c.Province = rec.Province
	c.PostalCode = rec.PostalCode
	c.LocationCode = rec.LocationCode
	if c.Name == "" {
		c.Name = c.CustomerNumber
	}
}
