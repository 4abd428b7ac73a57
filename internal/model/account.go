package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind classifies where the money physically sits.
type AccountKind string

const (
	AccountBank AccountKind = "bank"
	AccountCash AccountKind = "cash"
)

// Account is a pool of real money (a bank account or a cash box).
// Balance is a cached running total: opening balance plus every paid
// movement that touched the account. Only the balance engine mutates it;
// it stays reconstructable from movement history (see ledger.DerivedBalance).
type Account struct {
	ID             uint            `gorm:"primaryKey"`
	Name           string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Kind           AccountKind     `gorm:"type:varchar(10);not null"`
	Number         string          `gorm:"type:varchar(50)"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Balance        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
