package store

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/period"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	st, err := Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate())
	require.NoError(t, st.Seed())
	return st
}

func TestSeedIdempotent(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Seed())
	require.NoError(t, st.Seed())

	usage, err := Categories(st.DB())
	require.NoError(t, err)

	protected := 0
	for _, u := range usage {
		if u.Category.Protected() {
			protected++
		}
	}
	assert.Equal(t, 2, protected)

	// Seeding again must not duplicate parameters either.
	params, err := Params(st.DB(), "")
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, p := range params {
		assert.False(t, seen[p.Key], "duplicate parameter %s", p.Key)
		seen[p.Key] = true
	}
}

func TestProtectedCategoryRules(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	dues, err := CategoryByName(db, model.CategoryOrdinaryDues)
	require.NoError(t, err)

	err = RenameCategory(db, dues.ID, "Something Else")
	assert.ErrorIs(t, err, ErrProtectedCategory)

	err = DeleteCategory(db, dues.ID)
	assert.ErrorIs(t, err, ErrProtectedCategory)
}

func TestCategoryLifecycle(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	cat := &model.Category{Name: "Utilities", Kind: model.KindExpense}
	require.NoError(t, CreateCategory(db, cat))

	err := CreateCategory(db, &model.Category{Name: "Utilities", Kind: model.KindExpense})
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, RenameCategory(db, cat.ID, "Building Utilities"))
	renamed, err := CategoryByID(db, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Building Utilities", renamed.Name)

	require.NoError(t, DeleteCategory(db, cat.ID))
	_, err = CategoryByID(db, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategoryInUse(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	cat := &model.Category{Name: "Utilities", Kind: model.KindExpense}
	require.NoError(t, CreateCategory(db, cat))

	acct := &model.Account{Name: "Operating", Kind: model.AccountBank}
	require.NoError(t, CreateAccount(db, acct))

	m := &model.Movement{
		Kind:       model.KindExpense,
		Amount:     dec("10.00"),
		IssuedAt:   time.Now(),
		Status:     model.StatusPending,
		CategoryID: cat.ID,
		AccountID:  acct.ID,
	}
	require.NoError(t, CreateMovement(db, m))

	err := DeleteCategory(db, cat.ID)
	assert.ErrorIs(t, err, ErrCategoryInUse)
}

func TestAccountOpeningBalance(t *testing.T) {
	st := newTestStore(t)

	acct := &model.Account{Name: "Operating", Kind: model.AccountBank, OpeningBalance: dec("250.00")}
	require.NoError(t, CreateAccount(st.DB(), acct))

	got, err := AccountByName(st.DB(), "Operating")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("250.00")), "balance starts at opening balance")
}

func TestParams(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	assert.Equal(t, "fallback", ParamString(db, "missing_key", "fallback"))
	assert.True(t, ParamBool(db, model.ParamAutoEmail, false), "seeded auto email default")
	assert.Equal(t, 10, ParamInt(db, model.ParamDueDay, 0))

	require.NoError(t, SetParam(db, "custom_key", "42", model.ParamNumber, "a knob", "general"))
	assert.Equal(t, 42, ParamInt(db, "custom_key", 0))

	// Updating keeps a single row.
	require.NoError(t, SetParam(db, "custom_key", "43", model.ParamNumber, "", "general"))
	assert.Equal(t, 43, ParamInt(db, "custom_key", 0))

	params, err := Params(db, "general")
	require.NoError(t, err)
	count := 0
	for _, p := range params {
		if p.Key == "custom_key" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestDuesChargeExists(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	dues, err := CategoryByName(db, model.CategoryOrdinaryDues)
	require.NoError(t, err)
	acct := &model.Account{Name: "Operating", Kind: model.AccountBank}
	require.NoError(t, CreateAccount(db, acct))
	unit := &model.Unit{Number: "1A", Floor: 1, SharePct: dec("10"), MonthlyDue: dec("150.00")}
	require.NoError(t, CreateUnit(db, unit))

	march := period.Period{Year: 2025, Month: time.March}

	exists, err := DuesChargeExists(db, unit.ID, dues.ID, march)
	require.NoError(t, err)
	assert.False(t, exists)

	unitID := unit.ID
	m := &model.Movement{
		Kind:       model.KindIncome,
		Amount:     dec("150.00"),
		IssuedAt:   time.Date(2025, time.March, 1, 12, 0, 0, 0, time.Local),
		Status:     model.StatusPending,
		CategoryID: dues.ID,
		AccountID:  acct.ID,
		UnitID:     &unitID,
	}
	require.NoError(t, CreateMovement(db, m))

	exists, err = DuesChargeExists(db, unit.ID, dues.ID, march)
	require.NoError(t, err)
	assert.True(t, exists)

	// The next period is a fresh key.
	exists, err = DuesChargeExists(db, unit.ID, dues.ID, march.Next())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSumUnitPending(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	dues, err := CategoryByName(db, model.CategoryOrdinaryDues)
	require.NoError(t, err)
	acct := &model.Account{Name: "Operating", Kind: model.AccountBank}
	require.NoError(t, CreateAccount(db, acct))
	unit := &model.Unit{Number: "1A", Floor: 1, SharePct: dec("10"), MonthlyDue: dec("150.00")}
	require.NoError(t, CreateUnit(db, unit))

	unitID := unit.ID
	for i, amount := range []string{"150.00", "150.00", "99.99"} {
		m := &model.Movement{
			Kind:       model.KindIncome,
			Amount:     dec(amount),
			IssuedAt:   time.Date(2025, time.Month(i+1), 1, 12, 0, 0, 0, time.Local),
			Status:     model.StatusPending,
			CategoryID: dues.ID,
			AccountID:  acct.ID,
			UnitID:     &unitID,
		}
		require.NoError(t, CreateMovement(db, m))
	}

	total, err := SumUnitPending(db, unit.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("399.99")), "total %s", total)
}

func TestMovementFilter(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	cat := &model.Category{Name: "Utilities", Kind: model.KindExpense}
	require.NoError(t, CreateCategory(db, cat))
	acct := &model.Account{Name: "Operating", Kind: model.AccountBank}
	require.NoError(t, CreateAccount(db, acct))

	for i, status := range []model.MovementStatus{model.StatusPending, model.StatusPaid} {
		m := &model.Movement{
			Kind:       model.KindExpense,
			Amount:     dec("10.00"),
			IssuedAt:   time.Date(2025, time.March, i+1, 0, 0, 0, 0, time.Local),
			Status:     status,
			CategoryID: cat.ID,
			AccountID:  acct.ID,
		}
		require.NoError(t, CreateMovement(db, m))
	}

	pending, err := Movements(db, MovementFilter{Status: model.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	march := period.Period{Year: 2025, Month: time.March}
	inMarch, err := Movements(db, MovementFilter{Period: &march})
	require.NoError(t, err)
	assert.Len(t, inMarch, 2)

	april := march.Next()
	inApril, err := Movements(db, MovementFilter{Period: &april})
	require.NoError(t, err)
	assert.Empty(t, inApril)
}

func TestCounterpartyByName(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	require.NoError(t, CreateCounterparty(db, &model.Counterparty{
		Name: "Electric Co", Tag: model.TagUtilities,
	}))

	got, err := CounterpartyByName(db, "Electric Co")
	require.NoError(t, err)
	assert.Equal(t, model.TagUtilities, got.Tag)

	_, err = CounterpartyByName(db, "Gas Co")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotifiableContacts(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	unit := &model.Unit{Number: "1A", Floor: 1, SharePct: dec("10"), MonthlyDue: dec("150.00")}
	require.NoError(t, CreateUnit(db, unit))

	require.NoError(t, AddContact(db, &model.Contact{
		UnitID: unit.ID, Name: "Ana", Email: "ana@example.com", Role: model.PayerOwner, Notify: true,
	}))
	require.NoError(t, AddContact(db, &model.Contact{
		UnitID: unit.ID, Name: "Beto", Email: "beto@example.com", Role: model.PayerTenant, Notify: false,
	}))

	notifiable, err := NotifiableContacts(db, unit.ID)
	require.NoError(t, err)
	require.Len(t, notifiable, 1)
	assert.Equal(t, "Ana", notifiable[0].Name)
}

func TestContactOptOutPersists(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	unit := &model.Unit{Number: "2B", Floor: 2, SharePct: dec("10"), MonthlyDue: dec("150.00")}
	require.NoError(t, CreateUnit(db, unit))

	// A false Notify must survive the insert; a column default would
	// swallow the zero value and re-enable the contact.
	require.NoError(t, AddContact(db, &model.Contact{
		UnitID: unit.ID, Name: "Carla", Email: "carla@example.com", Role: model.PayerOwner, Notify: false,
	}))

	contacts, err := ContactsForUnit(db, unit.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.False(t, contacts[0].Notify)

	notifiable, err := NotifiableContacts(db, unit.ID)
	require.NoError(t, err)
	assert.Empty(t, notifiable)
}
