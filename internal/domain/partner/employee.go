package partner

import (
	"strings"

	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
)

// Employee is the canonical representation of a legacy roster entry. It
// exists so invoice ingestion can resolve a sales-rep short code to a
// display name.
type Employee struct {
	shared.SyncedEntity
	EmployeeNumber string `gorm:"type:varchar(60);not null;index"`
	FirstName      string `gorm:"type:varchar(100)"`
	LastName       string `gorm:"type:varchar(100)"`
	Role           string `gorm:"type:varchar(60)"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// NewEmployeeFromRecord creates a materialized employee from a source record.
func NewEmployeeFromRecord(naturalKey string, rec syncrec.Employee) (*Employee, error) {
	if strings.TrimSpace(rec.EmployeeNumber) == "" {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE_NUMBER", "Employee number cannot be empty")
	}
	e := &Employee{SyncedEntity: shared.NewSyncedEntity(naturalKey, rec.LegacyID)}
	e.applyFields(rec)
	return e, nil
}

// ApplyRecord overwrites the employee's fields with the authoritative record.
func (e *Employee) ApplyRecord(rec syncrec.Employee) error {
	if strings.TrimSpace(rec.EmployeeNumber) == "" {
		return shared.NewDomainError("INVALID_EMPLOYEE_NUMBER", "Employee number cannot be empty")
	}
	e.applyFields(rec)
	e.MarkSynced(rec.LegacyID)
	return nil
}

// DisplayName returns the name shown on documents referencing the employee.
func (e *Employee) DisplayName() string {
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name == "" {
		return e.EmployeeNumber
	}
	return name
}

func (e *Employee) applyFields(rec syncrec.Employee) {
	e.EmployeeNumber = strings.ToUpper(strings.TrimSpace(rec.EmployeeNumber))
	e.FirstName = rec.FirstName
	e.LastName = rec.LastName
	e.Role = rec.Role
}
