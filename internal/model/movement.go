package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind is the direction of a ledger movement.
type MovementKind string

const (
	KindIncome  MovementKind = "income"
	KindExpense MovementKind = "expense"
)

// MovementStatus is the settlement state of a movement.
type MovementStatus string

const (
	// StatusPending marks an obligation that has not moved real money yet.
	// Pending movements never touch an account balance.
	StatusPending MovementStatus = "pending"
	// StatusPaid marks a settled movement whose balance effect has been
	// (or is about to be) applied exactly once.
	StatusPaid MovementStatus = "paid"
)

// Movement is the central ledger entry: every charge, payment and
// transfer leg is one row. Movements are append-only once paid; only
// pending movements may be deleted.
type Movement struct {
	ID uint `gorm:"primaryKey"`

	Kind   MovementKind    `gorm:"type:varchar(10);not null;index"`
	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// IssuedAt is when the obligation/document was created. Always set.
	IssuedAt time.Time `gorm:"not null;index"`
	// SettledAt is when money actually moved. Nil exactly while pending.
	SettledAt *time.Time

	Status MovementStatus `gorm:"type:varchar(10);not null;index"`

	// Applied records whether the movement's balance effect has been
	// applied to its account. The balance engine asserts on it so a
	// movement can never be counted twice.
	Applied bool `gorm:"not null;default:false"`

	// InternalTransfer marks the two legs created by the transfer engine.
	InternalTransfer bool `gorm:"not null;default:false"`

	Description string `gorm:"type:varchar(200)"`
	EvidenceRef string `gorm:"type:varchar(200)"`

	CategoryID uint     `gorm:"not null;index"`
	Category   Category `gorm:"foreignKey:CategoryID"`

	AccountID uint    `gorm:"not null;index"`
	Account   Account `gorm:"foreignKey:AccountID"`

	// UnitID is set for unit income (dues); nil for internal transfers
	// and general income.
	UnitID *uint `gorm:"index"`
	Unit   *Unit `gorm:"foreignKey:UnitID"`

	// CounterpartyID is set for expenses paid to a vendor or employee.
	CounterpartyID *uint         `gorm:"index"`
	Counterparty   *Counterparty `gorm:"foreignKey:CounterpartyID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending reports whether the movement has not settled yet.
func (m *Movement) IsPending() bool { return m.Status == StatusPending }

// IsPaid reports whether the movement has settled.
func (m *Movement) IsPaid() bool { return m.Status == StatusPaid }

// SignedAmount returns the movement's effect on its account balance:
// positive for income, negative for expense.
func (m *Movement) SignedAmount() decimal.Decimal {
	if m.Kind == KindExpense {
		return m.Amount.Neg()
	}
	return m.Amount
}
