package store

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
)

// CreateCounterparty inserts a new vendor/employee record.
func CreateCounterparty(db *gorm.DB, c *model.Counterparty) error {
	if err := db.Create(c).Error; err != nil {
		return fmt.Errorf("creating counterparty %q: %w", c.Name, err)
	}
	return nil
}

// CounterpartyByID fetches one counterparty.
func CounterpartyByID(db *gorm.DB, id uint) (*model.Counterparty, error) {
	var c model.Counterparty
	if err := db.First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// CounterpartyByName fetches one counterparty by its exact name.
func CounterpartyByName(db *gorm.DB, name string) (*model.Counterparty, error) {
	var c model.Counterparty
	if err := db.Where("name = ?", name).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Counterparties lists all counterparties ordered by name.
func Counterparties(db *gorm.DB) ([]model.Counterparty, error) {
	var list []model.Counterparty
	if err := db.Order("name").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing counterparties: %w", err)
	}
	return list, nil
}
