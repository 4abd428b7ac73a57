package ledger

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/notice"
	"github.com/edificio-dev/edificio/internal/notify"
	"github.com/edificio-dev/edificio/internal/store"
)

// ConfirmPayment settles one pending movement: binds it to the chosen
// settlement account and date, marks it paid and applies its balance
// effect, all inside one transaction. An expense confirmation is gated
// by available funds; on any failure the movement stays pending and no
// balance moves. A non-empty evidenceRef is the stored proof-of-payment
// reference; only the reference is persisted here.
func (s *Service) ConfirmPayment(movementID, accountID uint, when time.Time, evidenceRef string) (*model.Movement, error) {
	var confirmed *model.Movement
	err := s.store.WithTx(func(tx *gorm.DB) error {
		m, err := store.MovementByID(tx, movementID)
		if err != nil {
			return err
		}
		if !m.IsPending() {
			return fmt.Errorf("movement %d: %w", m.ID, ErrNotPending)
		}

		acct, err := store.AccountByID(tx, accountID)
		if err != nil {
			return err
		}

		if m.Kind == model.KindExpense {
			if err := sufficientFunds(acct, m.Amount); err != nil {
				return err
			}
		}

		m.Status = model.StatusPaid
		m.SettledAt = &when
		m.AccountID = acct.ID
		if evidenceRef != "" {
			m.EvidenceRef = evidenceRef
		}

		if err := apply(tx, acct, m); err != nil {
			return err
		}
		m.Account = *acct
		confirmed = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"movement": confirmed.ID,
		"account":  confirmed.Account.Name,
		"amount":   confirmed.Amount.StringFixed(2),
		"kind":     confirmed.Kind,
	}).Info("payment confirmed")

	// Best-effort receipt; a dispatch problem never unwinds the payment.
	s.dispatchReceipt(confirmed)

	return confirmed, nil
}

// dispatchReceipt renders and sends the settlement receipt for a paid
// movement. Failures are logged and swallowed.
func (s *Service) dispatchReceipt(m *model.Movement) {
	db := s.store.DB()
	if !s.autoEmail(db) {
		return
	}
	if m.UnitID == nil {
		return
	}

	to := s.recipients(db, *m.UnitID)
	if len(to) == 0 {
		return
	}

	doc, err := s.renderer.RenderReceipt(notice.ReceiptData{
		Building:  s.building(db),
		Movement:  *m,
		PayerLine: s.payerLine(m),
	})
	if err != nil {
		s.log.WithError(err).WithField("movement", m.ID).Warn("could not render receipt")
		return
	}

	s.dispatcher.Dispatch(notify.Message{
		To:             to,
		Subject:        fmt.Sprintf("Payment receipt #%06d", m.ID),
		Body:           "Your payment receipt is attached. Thank you.",
		Attachment:     doc,
		AttachmentName: fmt.Sprintf("receipt-%06d.txt", m.ID),
	})
}

// payerLine identifies the counterpart on a receipt.
func (s *Service) payerLine(m *model.Movement) string {
	switch {
	case m.Unit != nil:
		return fmt.Sprintf("UNIT %s", m.Unit.Number)
	case m.Counterparty != nil:
		doc := m.Counterparty.TaxID
		if doc == "" {
			doc = "N/A"
		}
		return fmt.Sprintf("COUNTERPARTY: %s (doc: %s)", m.Counterparty.Name, doc)
	default:
		return "Administration (internal movement)"
	}
}
