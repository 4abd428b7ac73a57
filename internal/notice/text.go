package notice

import (
	"bytes"
	"fmt"
	"strings"
)

// TextRenderer produces plain-text documents. It carries the same data
// contract a PDF renderer would; swapping renderers changes the bytes,
// never the ledger.
type TextRenderer struct{}

const rule = "------------------------------------------------------------"

// RenderReceipt renders a settlement receipt.
func (TextRenderer) RenderReceipt(data ReceiptData) ([]byte, error) {
	m := data.Movement

	var b bytes.Buffer
	writeHeader(&b, data.Building, "TRANSACTION RECEIPT")

	date := m.IssuedAt
	if m.SettledAt != nil {
		date = *m.SettledAt
	}
	fmt.Fprintf(&b, "DATE: %s            MOVEMENT NO: #%06d\n", date.Format("02/01/2006"), m.ID)
	fmt.Fprintf(&b, "%s - %s\n", strings.ToUpper(string(m.Kind)), strings.ToUpper(string(m.Status)))
	fmt.Fprintln(&b, rule)

	fmt.Fprintln(&b, "RECEIVED FROM / PAID TO:")
	fmt.Fprintln(&b, data.PayerLine)
	fmt.Fprintln(&b, rule)

	fmt.Fprintln(&b, "CONCEPT:")
	fmt.Fprintln(&b, m.Category.Name)
	if m.Description != "" {
		fmt.Fprintln(&b, m.Description)
	}
	fmt.Fprintln(&b, rule)

	fmt.Fprintf(&b, "TOTAL: $ %s\n", m.Amount.StringFixed(2))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "This document is an internal receipt issued by the building")
	fmt.Fprintln(&b, "administration and does not replace an authorized invoice.")

	return b.Bytes(), nil
}

// RenderNotice renders a monthly dues notice, itemizing the current
// charge and any prior balance.
func (TextRenderer) RenderNotice(data NoticeData) ([]byte, error) {
	m := data.Movement

	var b bytes.Buffer
	writeHeader(&b, data.Building, "DUES NOTICE")

	fmt.Fprintf(&b, "Issued: %s\n", m.IssuedAt.Format("02/01/2006"))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "UNIT: %s\n", data.Unit.Number)
	owner := data.OwnerName
	if owner == "" {
		owner = "N/A"
	}
	fmt.Fprintf(&b, "Owner: %s\n", owner)
	fmt.Fprintf(&b, "Ownership share: %s%%\n", data.Unit.SharePct.StringFixed(2))
	fmt.Fprintln(&b, rule)

	fmt.Fprintf(&b, "%-44s %14s\n", "CONCEPT", "AMOUNT")
	periodLabel := m.IssuedAt.Format("01 / 2006")
	fmt.Fprintf(&b, "%-44s %14s\n", "Ordinary dues - "+periodLabel, "$ "+m.Amount.StringFixed(2))
	if data.PriorDebt.IsPositive() {
		fmt.Fprintf(&b, "%-44s %14s\n", "Previous balance", "$ "+data.PriorDebt.StringFixed(2))
	}
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "%-44s %14s\n", "TOTAL DUE", "$ "+data.Total().StringFixed(2))
	fmt.Fprintln(&b)

	if data.Building.Email != "" || data.Building.Phone != "" {
		fmt.Fprintln(&b, "PAYMENT / CONTACT:")
		if data.Building.Email != "" {
			fmt.Fprintf(&b, "  %s\n", data.Building.Email)
		}
		if data.Building.Phone != "" {
			fmt.Fprintf(&b, "  %s\n", data.Building.Phone)
		}
	}

	return b.Bytes(), nil
}

func writeHeader(b *bytes.Buffer, building Building, title string) {
	name := building.Name
	if name == "" {
		name = "BUILDING ADMINISTRATION"
	}
	fmt.Fprintln(b, strings.ToUpper(name))
	if building.TaxID != "" {
		fmt.Fprintf(b, "Tax ID: %s\n", building.TaxID)
	}
	if building.Address != "" {
		fmt.Fprintln(b, building.Address)
	}
	fmt.Fprintln(b, title)
	fmt.Fprintln(b, rule)
}
