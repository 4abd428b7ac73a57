package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edificio-dev/edificio/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestWriteAndRead(t *testing.T) {
	settled := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.Local)
	unit := &model.Unit{Number: "1A"}
	movements := []model.Movement{
		{
			ID:        1,
			Kind:      model.KindIncome,
			Status:    model.StatusPaid,
			Amount:    dec("150.00"),
			IssuedAt:  time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local),
			SettledAt: &settled,
			Category:  model.Category{Name: "Ordinary Dues"},
			Account:   model.Account{Name: "Operating"},
			Unit:      unit,
		},
		{
			ID:          2,
			Kind:        model.KindExpense,
			Status:      model.StatusPending,
			Amount:      dec("80.50"),
			IssuedAt:    time.Date(2025, time.March, 3, 0, 0, 0, 0, time.Local),
			Category:    model.Category{Name: "Utilities"},
			Account:     model.Account{Name: "Operating"},
			Description: "Power bill",
		},
	}

	path := filepath.Join(t.TempDir(), "exports", "movements.csv")
	require.NoError(t, Write(path, movements))

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "income", rows[0].Kind)
	assert.Equal(t, "paid", rows[0].Status)
	assert.Equal(t, "150.00", rows[0].Amount)
	assert.Equal(t, "2025-03-15", rows[0].SettledAt)
	assert.Equal(t, "1A", rows[0].Unit)

	assert.Equal(t, "expense", rows[1].Kind)
	assert.Equal(t, "pending", rows[1].Status)
	assert.Empty(t, rows[1].SettledAt)
	assert.Empty(t, rows[1].Unit)
	assert.Equal(t, "Power bill", rows[1].Description)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("99.99")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("99.99")))

	_, err = ParseAmount("ninety")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.March, got.Month())

	_, err = ParseDate("15/03/2025")
	assert.Error(t, err)
}
