package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayerRole says who answers for a unit's dues.
type PayerRole string

const (
	PayerOwner  PayerRole = "owner"
	PayerTenant PayerRole = "tenant"
)

// Unit is one apartment/department: the billable entity for monthly dues.
// Its outstanding debt is never stored; it is derived on demand from
// pending income movements (ledger.OutstandingDebt).
type Unit struct {
	ID         uint            `gorm:"primaryKey"`
	Number     string          `gorm:"type:varchar(10);not null;uniqueIndex"`
	Floor      int             `gorm:"not null"`
	SharePct   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	MonthlyDue decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Rented     bool            `gorm:"not null;default:false"`
	PayerRole  PayerRole       `gorm:"type:varchar(10);not null;default:'owner'"`

	Contacts []Contact `gorm:"foreignKey:UnitID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contact is a person attached to a unit (owner or tenant). Dues notices
// and receipts go to contacts with Notify set.
type Contact struct {
	ID     uint      `gorm:"primaryKey"`
	Name   string    `gorm:"type:varchar(100);not null"`
	Email  string    `gorm:"type:varchar(120);not null"`
	Phone  string    `gorm:"type:varchar(20)"`
	Role   PayerRole `gorm:"type:varchar(10);not null;default:'owner'"`
	// Notify carries no column default: a false would be dropped from the
	// insert and the default would silently re-enable the contact.
	Notify bool `gorm:"not null"`
	UnitID uint      `gorm:"not null;index"`
}
