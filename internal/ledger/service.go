// Package ledger is the balance-consistency core: the only code allowed
// to mutate account balances, issue monthly charges, settle pending
// movements and move funds between accounts. Every operation runs in
// one store transaction and either commits whole or leaves no trace.
package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/notice"
	"github.com/edificio-dev/edificio/internal/notify"
	"github.com/edificio-dev/edificio/internal/store"
)

// Service provides the ledger operations.
type Service struct {
	store      *store.Store
	log        *logrus.Logger
	renderer   notice.Renderer
	dispatcher notify.Dispatcher
}

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the document renderer used for receipts and notices.
func WithRenderer(r notice.Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

// WithDispatcher sets the notification dispatcher.
func WithDispatcher(d notify.Dispatcher) Option {
	return func(s *Service) { s.dispatcher = d }
}

// NewService creates a ledger Service. Without options, receipts and
// notices are rendered as text and dispatched to the log.
func NewService(st *store.Store, log *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		store:      st,
		log:        log,
		renderer:   notice.TextRenderer{},
		dispatcher: notify.NewLogDispatcher(log),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// validAmount enforces the money invariant shared by every operation:
// strictly positive, at most 2 decimal places.
func validAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	cents := amount.Mul(decimal.NewFromInt(100))
	return cents.Equal(cents.Floor())
}

// building assembles the document identity block from the parameter
// table.
func (s *Service) building(db *gorm.DB) notice.Building {
	return notice.Building{
		Name:    store.ParamString(db, model.ParamBuildingName, ""),
		TaxID:   store.ParamString(db, model.ParamBuildingTaxID, ""),
		Address: store.ParamString(db, model.ParamBuildingAddress, ""),
		Email:   store.ParamString(db, model.ParamAdminEmail, ""),
		Phone:   store.ParamString(db, model.ParamAdminPhone, ""),
	}
}

// autoEmail reports whether automatic notification dispatch is enabled.
func (s *Service) autoEmail(db *gorm.DB) bool {
	return store.ParamBool(db, model.ParamAutoEmail, true)
}

// noticeData assembles renderer input for one issued charge.
func (s *Service) noticeData(db *gorm.DB, building notice.Building, n ChargeNotice) notice.NoticeData {
	data := notice.NoticeData{
		Building:  building,
		Unit:      n.Unit,
		Movement:  n.Movement,
		PriorDebt: n.PriorDebt,
	}
	contacts, err := store.ContactsForUnit(db, n.Unit.ID)
	if err == nil {
		for _, c := range contacts {
			if c.Role == model.PayerOwner {
				data.OwnerName = c.Name
				break
			}
		}
	}
	return data
}

// recipients returns the notify-enabled contact emails for a unit.
func (s *Service) recipients(db *gorm.DB, unitID uint) []string {
	contacts, err := store.NotifiableContacts(db, unitID)
	if err != nil {
		s.log.WithError(err).Warn("could not load unit contacts for notification")
		return nil
	}
	var to []string
	for _, c := range contacts {
		if c.Email != "" {
			to = append(to, c.Email)
		}
	}
	return to
}
