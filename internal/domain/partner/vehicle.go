package partner

import (
	"strings"

	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
)

// Vehicle is the canonical representation of a customer vehicle. Vehicles
// have no dedicated legacy extraction; they are split out of invoice headers
// by the agent, so an authoritative vehicle record and a placeholder created
// by invoice ingestion carry the same field set.
type Vehicle struct {
	shared.SyncedEntity
	VIN            string `gorm:"type:varchar(30);index"`
	CustomerNumber string `gorm:"type:varchar(60);index"`
	Make           string `gorm:"type:varchar(60)"`
	Model          string `gorm:"type:varchar(60)"`
	Year           int
	PlateNumber    string `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (Vehicle) TableName() string {
	return "vehicles"
}

// NewVehicleFromRecord creates a materialized vehicle from a source record.
func NewVehicleFromRecord(naturalKey string, rec syncrec.Vehicle) (*Vehicle, error) {
	if strings.TrimSpace(rec.VIN) == "" && strings.TrimSpace(rec.LegacyID) == "" {
		return nil, shared.NewDomainError("INVALID_VEHICLE", "Vehicle requires a VIN or a legacy id")
	}
	v := &Vehicle{SyncedEntity: shared.NewSyncedEntity(naturalKey, rec.LegacyID)}
	v.applyFields(rec)
	return v, nil
}

// NewPlaceholderVehicle creates a minimal vehicle row referenced by an
// invoice before its own record has arrived.
func NewPlaceholderVehicle(naturalKey, vin string) *Vehicle {
	return &Vehicle{
		SyncedEntity: shared.NewPlaceholderEntity(naturalKey),
		VIN:          strings.ToUpper(strings.TrimSpace(vin)),
	}
}

// ApplyRecord overwrites the vehicle's fields with the authoritative record.
func (v *Vehicle) ApplyRecord(rec syncrec.Vehicle) error {
	v.applyFields(rec)
	v.MarkSynced(rec.LegacyID)
	return nil
}

func (v *Vehicle) applyFields(rec syncrec.Vehicle) {
	v.VIN = strings.ToUpper(strings.TrimSpace(rec.VIN))
	v.CustomerNumber = strings.TrimSpace(rec.CustomerNumber)
	v.Make = rec.Make
	v.Model = rec.Model
	v.Year = rec.Year
	v.PlateNumber = rec.PlateNumber
}
