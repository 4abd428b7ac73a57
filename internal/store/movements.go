package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/period"
)

// MovementFilter narrows movement listings. Zero values mean "any".
type MovementFilter struct {
	Kind      model.MovementKind
	Status    model.MovementStatus
	AccountID uint
	UnitID    uint
	Period    *period.Period
}

// CreateMovement inserts a ledger entry.
func CreateMovement(db *gorm.DB, m *model.Movement) error {
	if err := db.Create(m).Error; err != nil {
		return fmt.Errorf("creating movement: %w", err)
	}
	return nil
}

// MovementByID fetches one movement with its references loaded.
func MovementByID(db *gorm.DB, id uint) (*model.Movement, error) {
	var m model.Movement
	err := db.Preload("Category").Preload("Account").Preload("Unit").Preload("Counterparty").
		First(&m, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// Movements lists ledger entries matching the filter, newest first.
func Movements(db *gorm.DB, f MovementFilter) ([]model.Movement, error) {
	q := db.Preload("Category").Preload("Account").Preload("Unit").Preload("Counterparty")

	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AccountID != 0 {
		q = q.Where("account_id = ?", f.AccountID)
	}
	if f.UnitID != 0 {
		q = q.Where("unit_id = ?", f.UnitID)
	}
	if f.Period != nil {
		start := f.Period.Start()
		q = q.Where("issued_at >= ? AND issued_at < ?", start, f.Period.Next().Start())
	}

	var movements []model.Movement
	if err := q.Order("issued_at DESC, id DESC").Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	return movements, nil
}

// DuesChargeExists reports whether an income movement for the given
// unit and category was already issued inside the period. This is the
// charge generator's idempotency key: (unit, category, month, year).
func DuesChargeExists(db *gorm.DB, unitID, categoryID uint, p period.Period) (bool, error) {
	var n int64
	err := db.Model(&model.Movement{}).
		Where("unit_id = ? AND category_id = ? AND kind = ?", unitID, categoryID, model.KindIncome).
		Where("issued_at >= ? AND issued_at < ?", p.Start(), p.Next().Start()).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking dues charge for unit %d in %s: %w", unitID, p, err)
	}
	return n > 0, nil
}

// SumMovements totals movement amounts matching kind/status for an
// account. Amounts are summed in Go so no float arithmetic touches the
// money column. Used by balance reconciliation.
func SumMovements(db *gorm.DB, accountID uint, kind model.MovementKind, status model.MovementStatus) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := db.Model(&model.Movement{}).
		Where("account_id = ? AND kind = ? AND status = ?", accountID, kind, status).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing movements for account %d: %w", accountID, err)
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

// SumUnitPending totals a unit's pending income: its outstanding debt.
func SumUnitPending(db *gorm.DB, unitID uint) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := db.Model(&model.Movement{}).
		Where("unit_id = ? AND kind = ? AND status = ?", unitID, model.KindIncome, model.StatusPending).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing pending income for unit %d: %w", unitID, err)
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

// SettledBetween lists paid movements settled inside [from, to).
func SettledBetween(db *gorm.DB, from, to time.Time) ([]model.Movement, error) {
	var movements []model.Movement
	err := db.Preload("Category").Preload("Account").
		Where("status = ? AND settled_at >= ? AND settled_at < ?", model.StatusPaid, from, to).
		Order("settled_at").Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("listing settled movements: %w", err)
	}
	return movements, nil
}
