// Package notice renders receipts and dues notices. The ledger supplies
// the data; the output format is the renderer's business.
package notice

import (
	"github.com/shopspring/decimal"

	"github.com/edificio-dev/edificio/internal/model"
)

// Building carries the identity lines printed on every document, read
// from the parameter table.
type Building struct {
	Name    string
	TaxID   string
	Address string
	Email   string
	Phone   string
}

// ReceiptData is everything a settlement receipt needs.
type ReceiptData struct {
	Building Building
	Movement model.Movement
	// PayerLine identifies who paid or was paid: a unit's owner for
	// income, a counterparty for expenses, administration otherwise.
	PayerLine string
}

// NoticeData is everything a monthly dues notice needs. PriorDebt is the
// unit's outstanding debt snapshotted before the current charge was
// issued, so the notice can show "previous balance" separately.
type NoticeData struct {
	Building  Building
	Unit      model.Unit
	OwnerName string
	Movement  model.Movement
	PriorDebt decimal.Decimal
}

// Total is the full amount the notice asks for: current charge plus
// prior debt.
func (d NoticeData) Total() decimal.Decimal {
	return d.Movement.Amount.Add(d.PriorDebt)
}

// Renderer turns notice data into a document. Returned bytes are opaque
// to the ledger; they go straight into a notification attachment.
type Renderer interface {
	RenderReceipt(data ReceiptData) ([]byte, error)
	RenderNotice(data NoticeData) ([]byte, error)
}
