package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/notify"
	"github.com/edificio-dev/edificio/internal/period"
	"github.com/edificio-dev/edificio/internal/store"
)

// ChargeNotice is one issued charge plus the debt snapshot taken just
// before it existed. Consumed by the dues-notice renderer.
type ChargeNotice struct {
	Unit      model.Unit
	Movement  model.Movement
	PriorDebt decimal.Decimal
}

// ChargeRun is the outcome of one charge-generation pass.
type ChargeRun struct {
	Period  period.Period
	Created int
	Skipped int
	Notices []ChargeNotice
}

// GenerateCharges issues the ordinary-dues charge to every unit for the
// given billing period. Idempotent: a unit that already has a dues
// charge inside the period is skipped, never duplicated. Each unit is
// processed in its own transaction, so an interrupted run can simply be
// retried. accountID picks the collection account; zero means the
// default_income_account parameter.
func (s *Service) GenerateCharges(p period.Period, accountID uint) (*ChargeRun, error) {
	db := s.store.DB()

	// Fatal preconditions: nothing is processed if these are missing.
	duesCat, err := store.CategoryByName(db, model.CategoryOrdinaryDues)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &ConfigurationError{Missing: "category " + model.CategoryOrdinaryDues}
	}
	if err != nil {
		return nil, err
	}

	acct, err := s.collectionAccount(db, accountID)
	if err != nil {
		return nil, err
	}

	units, err := store.Units(db)
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now()
	if !p.Contains(issuedAt) {
		// Backfill or pre-issue: pin the issuance date inside the billed
		// period so the idempotency key stays (unit, category, month, year).
		issuedAt = p.Start().Add(12 * time.Hour)
	}

	run := &ChargeRun{Period: p}
	for _, unit := range units {
		created, noticeData, err := s.chargeUnit(unit, duesCat.ID, acct.ID, p, issuedAt)
		if err != nil {
			return nil, fmt.Errorf("generating charge for unit %s: %w", unit.Number, err)
		}
		if !created {
			run.Skipped++
			continue
		}
		run.Created++
		run.Notices = append(run.Notices, *noticeData)
	}

	s.log.WithFields(logrus.Fields{
		"period":  p.String(),
		"created": run.Created,
		"skipped": run.Skipped,
		"account": acct.Name,
	}).Info("charge generation finished")

	s.dispatchNotices(run)
	return run, nil
}

// chargeUnit runs one unit's idempotency check, debt snapshot and
// charge insert inside a single transaction.
func (s *Service) chargeUnit(unit model.Unit, categoryID, accountID uint, p period.Period, issuedAt time.Time) (bool, *ChargeNotice, error) {
	// Units without a configured due carry nothing to bill.
	if !unit.MonthlyDue.IsPositive() {
		return false, nil, nil
	}

	var result *ChargeNotice
	err := s.store.WithTx(func(tx *gorm.DB) error {
		exists, err := store.DuesChargeExists(tx, unit.ID, categoryID, p)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		// Snapshot debt BEFORE the new charge so the notice separates
		// "previous balance" from the current month.
		priorDebt, err := store.SumUnitPending(tx, unit.ID)
		if err != nil {
			return err
		}

		unitID := unit.ID
		m := &model.Movement{
			Kind:        model.KindIncome,
			Amount:      unit.MonthlyDue,
			IssuedAt:    issuedAt,
			Status:      model.StatusPending,
			CategoryID:  categoryID,
			AccountID:   accountID,
			UnitID:      &unitID,
			Description: fmt.Sprintf("Ordinary dues %s - unit %s", p, unit.Number),
		}
		if err := store.CreateMovement(tx, m); err != nil {
			return err
		}

		result = &ChargeNotice{Unit: unit, Movement: *m, PriorDebt: priorDebt}
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return result != nil, result, nil
}

// collectionAccount resolves where generated dues will be collected.
func (s *Service) collectionAccount(db *gorm.DB, accountID uint) (*model.Account, error) {
	if accountID != 0 {
		return store.AccountByID(db, accountID)
	}

	name := store.ParamString(db, model.ParamDefaultIncomeAccount, "")
	if name == "" {
		return nil, &ConfigurationError{Missing: "parameter " + model.ParamDefaultIncomeAccount}
	}
	acct, err := store.AccountByName(db, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &ConfigurationError{Missing: "account " + name}
	}
	return acct, err
}

// dispatchNotices renders and sends a dues notice per created charge.
// Best effort: failures are logged and swallowed, the charges stand.
func (s *Service) dispatchNotices(run *ChargeRun) {
	db := s.store.DB()
	if !s.autoEmail(db) {
		return
	}

	building := s.building(db)
	for _, n := range run.Notices {
		to := s.recipients(db, n.Unit.ID)
		if len(to) == 0 {
			continue
		}

		doc, err := s.renderer.RenderNotice(s.noticeData(db, building, n))
		if err != nil {
			s.log.WithError(err).WithField("unit", n.Unit.Number).Warn("could not render dues notice")
			continue
		}

		s.dispatcher.Dispatch(notify.Message{
			To:             to,
			Subject:        fmt.Sprintf("Dues notice %s - unit %s", run.Period, n.Unit.Number),
			Body:           fmt.Sprintf("Dues notice for unit %s attached.", n.Unit.Number),
			Attachment:     doc,
			AttachmentName: fmt.Sprintf("notice-%s-unit-%s.txt", run.Period, n.Unit.Number),
		})
	}
}
