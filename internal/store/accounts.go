package store

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
)

// CreateAccount inserts a new money account. The cached balance starts
// at the opening balance.
func CreateAccount(db *gorm.DB, a *model.Account) error {
	a.Balance = a.OpeningBalance
	if err := db.Create(a).Error; err != nil {
		return fmt.Errorf("creating account %q: %w", a.Name, err)
	}
	return nil
}

// AccountByID fetches one account.
func AccountByID(db *gorm.DB, id uint) (*model.Account, error) {
	var a model.Account
	if err := db.First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// AccountByName fetches one account by its unique name.
func AccountByName(db *gorm.DB, name string) (*model.Account, error) {
	var a model.Account
	if err := db.Where("name = ?", name).First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// Accounts lists all accounts ordered by name.
func Accounts(db *gorm.DB) ([]model.Account, error) {
	var accounts []model.Account
	if err := db.Order("name").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accounts, nil
}

// SaveAccount persists balance mutations made by the ledger engine.
func SaveAccount(db *gorm.DB, a *model.Account) error {
	if err := db.Save(a).Error; err != nil {
		return fmt.Errorf("saving account %q: %w", a.Name, err)
	}
	return nil
}
