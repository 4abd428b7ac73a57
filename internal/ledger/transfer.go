package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/store"
)

// TransferPair is the two matched legs a transfer creates.
type TransferPair struct {
	Out model.Movement // expense on the source account
	In  model.Movement // income on the destination account
}

// Transfer moves funds between two internal accounts as a matched pair
// of paid movements, both flagged internal-transfer and booked under
// the Internal Transfer category. Both legs and both balance mutations
// commit together or not at all; total system cash never changes.
func (s *Service) Transfer(fromID, toID uint, amount decimal.Decimal, when time.Time) (*TransferPair, error) {
	if fromID == toID {
		return nil, ErrInvalidTransfer
	}
	if !validAmount(amount) {
		return nil, ErrInvalidAmount
	}

	var pair *TransferPair
	err := s.store.WithTx(func(tx *gorm.DB) error {
		src, err := store.AccountByID(tx, fromID)
		if err != nil {
			return err
		}
		dst, err := store.AccountByID(tx, toID)
		if err != nil {
			return err
		}

		if err := sufficientFunds(src, amount); err != nil {
			return err
		}

		cat, err := store.CategoryByName(tx, model.CategoryInternalTransfer)
		if errors.Is(err, store.ErrNotFound) {
			return &ConfigurationError{Missing: "category " + model.CategoryInternalTransfer}
		}
		if err != nil {
			return err
		}

		out := &model.Movement{
			Kind:             model.KindExpense,
			Amount:           amount,
			IssuedAt:         when,
			SettledAt:        &when,
			Status:           model.StatusPaid,
			InternalTransfer: true,
			Description:      fmt.Sprintf("Transfer to %s", dst.Name),
			CategoryID:       cat.ID,
			AccountID:        src.ID,
		}
		if err := store.CreateMovement(tx, out); err != nil {
			return err
		}
		if err := apply(tx, src, out); err != nil {
			return err
		}

		in := &model.Movement{
			Kind:             model.KindIncome,
			Amount:           amount,
			IssuedAt:         when,
			SettledAt:        &when,
			Status:           model.StatusPaid,
			InternalTransfer: true,
			Description:      fmt.Sprintf("Transfer from %s", src.Name),
			CategoryID:       cat.ID,
			AccountID:        dst.ID,
		}
		if err := store.CreateMovement(tx, in); err != nil {
			return err
		}
		if err := apply(tx, dst, in); err != nil {
			return err
		}

		pair = &TransferPair{Out: *out, In: *in}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"from":   fromID,
		"to":     toID,
		"amount": amount.StringFixed(2),
	}).Info("transfer completed")

	return pair, nil
}
