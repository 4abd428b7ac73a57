package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/store"
)

// apply puts a movement's monetary effect onto its account balance:
// income adds, expense subtracts. The movement must already be paid and
// must not have been applied before; the Applied flag makes the
// exactly-once rule a hard assertion instead of caller discipline.
// Both rows are persisted on the given transaction.
func apply(tx *gorm.DB, acct *model.Account, m *model.Movement) error {
	if !m.IsPaid() {
		return fmt.Errorf("movement %d: %w", m.ID, ErrNotPaid)
	}
	if m.Applied {
		return fmt.Errorf("movement %d: %w", m.ID, ErrAlreadyApplied)
	}

	acct.Balance = acct.Balance.Add(m.SignedAmount())
	m.Applied = true

	if err := store.SaveAccount(tx, acct); err != nil {
		return err
	}
	// Omit associations so preloaded rows are not upserted again.
	if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
		return fmt.Errorf("saving movement %d: %w", m.ID, err)
	}
	return nil
}

// sufficientFunds gates expense settlements: the account balance must
// cover the amount in full.
func sufficientFunds(acct *model.Account, amount decimal.Decimal) error {
	if acct.Balance.LessThan(amount) {
		return &InsufficientFundsError{
			Account:   acct.Name,
			Balance:   acct.Balance,
			Requested: amount,
		}
	}
	return nil
}

// OutstandingDebt returns a unit's current debt: the sum of its pending
// income movements. Pure read.
func (s *Service) OutstandingDebt(unitID uint) (decimal.Decimal, error) {
	if _, err := store.UnitByID(s.store.DB(), unitID); err != nil {
		return decimal.Zero, err
	}
	return store.SumUnitPending(s.store.DB(), unitID)
}

// DerivedBalance recomputes an account's balance from first principles:
// opening balance plus paid income minus paid expense. The cached
// Account.Balance must always equal this.
func (s *Service) DerivedBalance(accountID uint) (decimal.Decimal, error) {
	return derivedBalance(s.store.DB(), accountID)
}

func derivedBalance(db *gorm.DB, accountID uint) (decimal.Decimal, error) {
	acct, err := store.AccountByID(db, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	income, err := store.SumMovements(db, accountID, model.KindIncome, model.StatusPaid)
	if err != nil {
		return decimal.Zero, err
	}
	expense, err := store.SumMovements(db, accountID, model.KindExpense, model.StatusPaid)
	if err != nil {
		return decimal.Zero, err
	}

	return acct.OpeningBalance.Add(income).Sub(expense), nil
}

// BalanceDrift reports one account whose cached balance disagrees with
// the balance derived from movement history.
type BalanceDrift struct {
	Account model.Account
	Cached  decimal.Decimal
	Derived decimal.Decimal
}

// Reconcile compares every account's cached balance against its derived
// balance and returns the accounts that drifted. An empty result means
// the books are internally consistent.
func (s *Service) Reconcile() ([]BalanceDrift, error) {
	accounts, err := store.Accounts(s.store.DB())
	if err != nil {
		return nil, err
	}

	var drift []BalanceDrift
	for _, acct := range accounts {
		derived, err := derivedBalance(s.store.DB(), acct.ID)
		if err != nil {
			return nil, err
		}
		if !acct.Balance.Equal(derived) {
			drift = append(drift, BalanceDrift{Account: acct, Cached: acct.Balance, Derived: derived})
		}
	}
	return drift, nil
}

// RebuildBalances rewrites every cached balance from movement history.
// The repair operation for drift found by Reconcile.
func (s *Service) RebuildBalances() error {
	return s.store.WithTx(func(tx *gorm.DB) error {
		accounts, err := store.Accounts(tx)
		if err != nil {
			return err
		}
		for i := range accounts {
			derived, err := derivedBalance(tx, accounts[i].ID)
			if err != nil {
				return err
			}
			if accounts[i].Balance.Equal(derived) {
				continue
			}
			s.log.WithFields(logrus.Fields{
				"account": accounts[i].Name,
				"cached":  accounts[i].Balance.StringFixed(2),
				"derived": derived.StringFixed(2),
			}).Warn("rebuilding drifted account balance")

			accounts[i].Balance = derived
			if err := store.SaveAccount(tx, &accounts[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
