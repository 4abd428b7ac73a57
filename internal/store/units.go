package store

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
)

// CreateUnit inserts a new unit.
func CreateUnit(db *gorm.DB, u *model.Unit) error {
	if err := db.Create(u).Error; err != nil {
		return fmt.Errorf("creating unit %q: %w", u.Number, err)
	}
	return nil
}

// UnitByID fetches one unit.
func UnitByID(db *gorm.DB, id uint) (*model.Unit, error) {
	var u model.Unit
	if err := db.First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UnitByNumber fetches one unit by its unique number.
func UnitByNumber(db *gorm.DB, number string) (*model.Unit, error) {
	var u model.Unit
	if err := db.Where("number = ?", number).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Units lists all units ordered by number.
func Units(db *gorm.DB) ([]model.Unit, error) {
	var units []model.Unit
	if err := db.Order("number").Find(&units).Error; err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	return units, nil
}

// SaveUnit persists edits to a unit.
func SaveUnit(db *gorm.DB, u *model.Unit) error {
	if err := db.Save(u).Error; err != nil {
		return fmt.Errorf("saving unit %q: %w", u.Number, err)
	}
	return nil
}

// AddContact attaches a contact person to a unit.
func AddContact(db *gorm.DB, c *model.Contact) error {
	if _, err := UnitByID(db, c.UnitID); err != nil {
		return err
	}
	if err := db.Create(c).Error; err != nil {
		return fmt.Errorf("creating contact %q: %w", c.Name, err)
	}
	return nil
}

// ContactsForUnit lists a unit's contacts.
func ContactsForUnit(db *gorm.DB, unitID uint) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := db.Where("unit_id = ?", unitID).Order("name").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("listing contacts for unit %d: %w", unitID, err)
	}
	return contacts, nil
}

// NotifiableContacts returns the unit contacts that opted into notices.
func NotifiableContacts(db *gorm.DB, unitID uint) ([]model.Contact, error) {
	var contacts []model.Contact
	err := db.Where("unit_id = ? AND notify = ?", unitID, true).Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("listing notifiable contacts for unit %d: %w", unitID, err)
	}
	return contacts, nil
}
