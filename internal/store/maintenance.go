package store

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
)

// CreateEquipment registers a building asset.
func CreateEquipment(db *gorm.DB, e *model.Equipment) error {
	e.Active = true
	if err := db.Create(e).Error; err != nil {
		return fmt.Errorf("creating equipment %q: %w", e.Name, err)
	}
	return nil
}

// EquipmentByID fetches one asset.
func EquipmentByID(db *gorm.DB, id uint) (*model.Equipment, error) {
	var e model.Equipment
	if err := db.First(&e, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// ActiveEquipment lists assets that have not been archived.
func ActiveEquipment(db *gorm.DB) ([]model.Equipment, error) {
	var list []model.Equipment
	if err := db.Where("active = ?", true).Order("name").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing equipment: %w", err)
	}
	return list, nil
}

// DeactivateEquipment archives an asset instead of deleting it, so its
// maintenance history survives.
func DeactivateEquipment(db *gorm.DB, id uint) error {
	e, err := EquipmentByID(db, id)
	if err != nil {
		return err
	}
	e.Active = false
	if err := db.Save(e).Error; err != nil {
		return fmt.Errorf("deactivating equipment %q: %w", e.Name, err)
	}
	return nil
}

// AddMaintenanceRecord appends to an asset's technical log.
func AddMaintenanceRecord(db *gorm.DB, r *model.MaintenanceRecord) error {
	if _, err := EquipmentByID(db, r.EquipmentID); err != nil {
		return err
	}
	if err := db.Create(r).Error; err != nil {
		return fmt.Errorf("creating maintenance record: %w", err)
	}
	return nil
}

// MaintenanceHistory lists an asset's log, newest first.
func MaintenanceHistory(db *gorm.DB, equipmentID uint) ([]model.MaintenanceRecord, error) {
	var records []model.MaintenanceRecord
	err := db.Where("equipment_id = ?", equipmentID).Order("date DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing maintenance history: %w", err)
	}
	return records, nil
}
