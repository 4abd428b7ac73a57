// Package export moves movement history in and out of CSV files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/edificio-dev/edificio/internal/model"
)

// DateFormat is the on-disk date layout.
const DateFormat = "2006-01-02"

// Row is one movement in CSV form. Names replace foreign keys so the
// file is readable and portable across databases.
type Row struct {
	ID           uint   `csv:"id"`
	Kind         string `csv:"kind"`
	Status       string `csv:"status"`
	Amount       string `csv:"amount"`
	IssuedAt     string `csv:"issued_at"`
	SettledAt    string `csv:"settled_at"`
	Category     string `csv:"category"`
	Account      string `csv:"account"`
	Unit         string `csv:"unit"`
	Counterparty string `csv:"counterparty"`
	Transfer     bool   `csv:"internal_transfer"`
	Description  string `csv:"description"`
}

// FromMovement flattens a movement with preloaded associations.
func FromMovement(m model.Movement) Row {
	r := Row{
		ID:          m.ID,
		Kind:        string(m.Kind),
		Status:      string(m.Status),
		Amount:      m.Amount.StringFixed(2),
		IssuedAt:    m.IssuedAt.Format(DateFormat),
		Category:    m.Category.Name,
		Account:     m.Account.Name,
		Transfer:    m.InternalTransfer,
		Description: m.Description,
	}
	if m.SettledAt != nil {
		r.SettledAt = m.SettledAt.Format(DateFormat)
	}
	if m.Unit != nil {
		r.Unit = m.Unit.Number
	}
	if m.Counterparty != nil {
		r.Counterparty = m.Counterparty.Name
	}
	return r
}

// Write exports movements to a CSV file, creating parent directories
// as needed.
func Write(path string, movements []model.Movement) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	rows := make([]Row, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, FromMovement(m))
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// Read parses an exported CSV file back into rows.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	var rows []Row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return rows, nil
}

// ParseAmount validates and parses a row's amount field.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return amount, nil
}

// ParseDate validates and parses a row's date field.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
