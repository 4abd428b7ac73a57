package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/store"
)

// IncomeParams describes a directly recorded income.
type IncomeParams struct {
	Amount      decimal.Decimal
	CategoryID  uint
	AccountID   uint
	UnitID      *uint
	Description string
	When        time.Time
}

// ExpenseParams describes a recorded expense. A zero SettledAt leaves
// the expense pending for later confirmation. EvidenceRef is the stored
// reference of the supporting document, if any.
type ExpenseParams struct {
	Amount         decimal.Decimal
	CategoryID     uint
	AccountID      uint
	CounterpartyID *uint
	Description    string
	EvidenceRef    string
	IssuedAt       time.Time
	SettledAt      *time.Time
}

// RecordIncome books an income as paid immediately and applies it to
// the account balance. A dues-category income must name the unit that
// paid it.
func (s *Service) RecordIncome(p IncomeParams) (*model.Movement, error) {
	if !validAmount(p.Amount) {
		return nil, ErrInvalidAmount
	}

	var recorded *model.Movement
	err := s.store.WithTx(func(tx *gorm.DB) error {
		cat, err := store.CategoryByID(tx, p.CategoryID)
		if err != nil {
			return err
		}
		if cat.Kind != model.KindIncome {
			return fmt.Errorf("category %q books %s: %w", cat.Name, cat.Kind, ErrKindMismatch)
		}
		if cat.Name == model.CategoryOrdinaryDues && p.UnitID == nil {
			return fmt.Errorf("category %q: %w", cat.Name, ErrUnitRequired)
		}
		if p.UnitID != nil {
			if _, err := store.UnitByID(tx, *p.UnitID); err != nil {
				return err
			}
		}

		acct, err := store.AccountByID(tx, p.AccountID)
		if err != nil {
			return err
		}

		when := p.When
		m := &model.Movement{
			Kind:        model.KindIncome,
			Amount:      p.Amount,
			IssuedAt:    when,
			SettledAt:   &when,
			Status:      model.StatusPaid,
			CategoryID:  cat.ID,
			AccountID:   acct.ID,
			UnitID:      p.UnitID,
			Description: p.Description,
		}
		if err := store.CreateMovement(tx, m); err != nil {
			return err
		}
		if err := apply(tx, acct, m); err != nil {
			return err
		}
		recorded = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"movement": recorded.ID,
		"amount":   recorded.Amount.StringFixed(2),
	}).Info("income recorded")

	s.dispatchReceipt(recorded)
	return recorded, nil
}

// RecordExpense books an expense. With a settlement date it is paid and
// applied at once, gated by available funds; without one it stays
// pending until confirmed.
func (s *Service) RecordExpense(p ExpenseParams) (*model.Movement, error) {
	if !validAmount(p.Amount) {
		return nil, ErrInvalidAmount
	}

	var recorded *model.Movement
	err := s.store.WithTx(func(tx *gorm.DB) error {
		cat, err := store.CategoryByID(tx, p.CategoryID)
		if err != nil {
			return err
		}
		if cat.Kind != model.KindExpense {
			return fmt.Errorf("category %q books %s: %w", cat.Name, cat.Kind, ErrKindMismatch)
		}
		if p.CounterpartyID != nil {
			if _, err := store.CounterpartyByID(tx, *p.CounterpartyID); err != nil {
				return err
			}
		}

		acct, err := store.AccountByID(tx, p.AccountID)
		if err != nil {
			return err
		}

		m := &model.Movement{
			Kind:           model.KindExpense,
			Amount:         p.Amount,
			IssuedAt:       p.IssuedAt,
			Status:         model.StatusPending,
			CategoryID:     cat.ID,
			AccountID:      acct.ID,
			CounterpartyID: p.CounterpartyID,
			Description:    p.Description,
			EvidenceRef:    p.EvidenceRef,
		}

		if p.SettledAt != nil {
			if err := sufficientFunds(acct, p.Amount); err != nil {
				return err
			}
			m.Status = model.StatusPaid
			m.SettledAt = p.SettledAt
		}

		if err := store.CreateMovement(tx, m); err != nil {
			return err
		}
		if m.IsPaid() {
			if err := apply(tx, acct, m); err != nil {
				return err
			}
		}
		recorded = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"movement": recorded.ID,
		"amount":   recorded.Amount.StringFixed(2),
		"status":   recorded.Status,
	}).Info("expense recorded")

	return recorded, nil
}

// DeleteMovement removes a movement that never touched a balance. Paid
// movements are permanent; there is no path back to pending.
func (s *Service) DeleteMovement(movementID uint) error {
	return s.store.WithTx(func(tx *gorm.DB) error {
		m, err := store.MovementByID(tx, movementID)
		if err != nil {
			return err
		}
		if !m.IsPending() {
			return fmt.Errorf("movement %d: %w", m.ID, ErrMovementPaid)
		}
		if err := tx.Delete(&model.Movement{}, m.ID).Error; err != nil {
			return fmt.Errorf("deleting movement %d: %w", m.ID, err)
		}
		s.log.WithField("movement", m.ID).Info("pending movement deleted")
		return nil
	})
}
