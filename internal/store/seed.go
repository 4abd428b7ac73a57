package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
)

// Seed inserts the protected categories and the default parameter
// catalog. Safe to run repeatedly: existing rows are left alone.
func (s *Store) Seed() error {
	return s.WithTx(func(tx *gorm.DB) error {
		protected := []model.Category{
			{Name: model.CategoryOrdinaryDues, Kind: model.KindIncome},
			{Name: model.CategoryInternalTransfer, Kind: model.KindIncome},
		}
		for _, c := range protected {
			var existing model.Category
			err := tx.Where("name = ?", c.Name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("checking category %q: %w", c.Name, err)
			}
			if err := tx.Create(&c).Error; err != nil {
				return fmt.Errorf("seeding category %q: %w", c.Name, err)
			}
		}

		for _, p := range defaultParameters() {
			var existing model.Parameter
			err := tx.Where("key = ?", p.Key).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("checking parameter %q: %w", p.Key, err)
			}
			p.Editable = true
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("seeding parameter %q: %w", p.Key, err)
			}
		}
		return nil
	})
}

func defaultParameters() []model.Parameter {
	return []model.Parameter{
		{Key: model.ParamBuildingName, Value: "", Type: model.ParamText,
			Description: "Building or condominium name", Group: "general"},
		{Key: model.ParamBuildingAddress, Value: "", Type: model.ParamText,
			Description: "Physical address", Group: "general"},
		{Key: model.ParamBuildingTaxID, Value: "", Type: model.ParamText,
			Description: "Condominium tax identifier", Group: "general"},

		{Key: model.ParamAutoEmail, Value: "true", Type: model.ParamBoolean,
			Description: "Dispatch notices and receipts automatically", Group: "notifications"},

		{Key: model.ParamDueDay, Value: "10", Type: model.ParamNumber,
			Description: "Day of month ordinary dues fall due", Group: "finance"},
		{Key: model.ParamDefaultIncomeAccount, Value: "", Type: model.ParamText,
			Description: "Default collection account for dues", Group: "finance"},
		{Key: model.ParamDefaultExpenseAccount, Value: "", Type: model.ParamText,
			Description: "Default account for expense payments", Group: "finance"},
		{Key: model.ParamCurrency, Value: "USD", Type: model.ParamText,
			Description: "Currency code used across the system", Group: "finance"},

		{Key: model.ParamAdminEmail, Value: "", Type: model.ParamText,
			Description: "Administration contact email", Group: "contact"},
		{Key: model.ParamAdminPhone, Value: "", Type: model.ParamText,
			Description: "Administration contact phone", Group: "contact"},
	}
}
