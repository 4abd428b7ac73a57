package ledger

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/notice"
	"github.com/edificio-dev/edificio/internal/notify"
	"github.com/edificio-dev/edificio/internal/period"
	"github.com/edificio-dev/edificio/internal/store"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

// captureDispatcher records messages instead of sending them.
type captureDispatcher struct {
	messages []notify.Message
}

func (c *captureDispatcher) Dispatch(msg notify.Message) {
	c.messages = append(c.messages, msg)
}

// failRenderer always errors, for exercising the best-effort paths.
type failRenderer struct{}

func (failRenderer) RenderReceipt(notice.ReceiptData) ([]byte, error) {
	return nil, errors.New("render failed")
}

func (failRenderer) RenderNotice(notice.NoticeData) ([]byte, error) {
	return nil, errors.New("render failed")
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate())
	require.NoError(t, st.Seed())
	return st
}

func newTestService(t *testing.T) (*Service, *store.Store, *captureDispatcher) {
	t.Helper()
	st := newTestStore(t)
	disp := &captureDispatcher{}
	svc := NewService(st, quietLogger(), WithDispatcher(disp))
	return svc, st, disp
}

func mkAccount(t *testing.T, st *store.Store, name, opening string) *model.Account {
	t.Helper()
	acct := &model.Account{Name: name, Kind: model.AccountBank, OpeningBalance: dec(opening)}
	require.NoError(t, store.CreateAccount(st.DB(), acct))
	return acct
}

func mkUnit(t *testing.T, st *store.Store, number, due string) *model.Unit {
	t.Helper()
	u := &model.Unit{Number: number, Floor: 1, SharePct: dec("10"), MonthlyDue: dec(due)}
	require.NoError(t, store.CreateUnit(st.DB(), u))
	return u
}

func mkContact(t *testing.T, st *store.Store, unitID uint, name, email string) {
	t.Helper()
	c := &model.Contact{UnitID: unitID, Name: name, Email: email, Role: model.PayerOwner, Notify: true}
	require.NoError(t, store.AddContact(st.DB(), c))
}

func mkExpenseCategory(t *testing.T, st *store.Store, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name, Kind: model.KindExpense}
	require.NoError(t, store.CreateCategory(st.DB(), c))
	return c
}

func duesCategory(t *testing.T, st *store.Store) *model.Category {
	t.Helper()
	c, err := store.CategoryByName(st.DB(), model.CategoryOrdinaryDues)
	require.NoError(t, err)
	return c
}

func totalBalance(t *testing.T, st *store.Store) decimal.Decimal {
	t.Helper()
	accounts, err := store.Accounts(st.DB())
	require.NoError(t, err)
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

func TestGenerateChargesIdempotent(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	mkUnit(t, st, "1A", "150.00")
	mkUnit(t, st, "1B", "200.00")

	p := period.Period{Year: 2025, Month: time.March}

	run, err := svc.GenerateCharges(p, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, run.Created)
	assert.Equal(t, 0, run.Skipped)

	// A second run over the same period must not duplicate anything.
	run, err = svc.GenerateCharges(p, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, run.Created)
	assert.Equal(t, 2, run.Skipped)

	movements, err := store.Movements(st.DB(), store.MovementFilter{Period: &p})
	require.NoError(t, err)
	assert.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, model.StatusPending, m.Status)
		assert.False(t, m.Applied)
		assert.Nil(t, m.SettledAt)
	}

	// Pending charges never touch balances.
	got, err := store.AccountByID(st.DB(), acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}

func TestGenerateChargesSkipsZeroDue(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	mkUnit(t, st, "1A", "150.00")
	mkUnit(t, st, "2A", "0") // storage unit, nothing to bill

	run, err := svc.GenerateCharges(period.Period{Year: 2025, Month: time.March}, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Created)
	assert.Equal(t, 1, run.Skipped)
}

func TestGenerateChargesPriorDebtSnapshot(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	unit := mkUnit(t, st, "1A", "150.00")

	march := period.Period{Year: 2025, Month: time.March}
	april := period.Period{Year: 2025, Month: time.April}

	_, err := svc.GenerateCharges(march, acct.ID)
	require.NoError(t, err)

	// March stays unpaid, so April's notice must carry it forward.
	run, err := svc.GenerateCharges(april, acct.ID)
	require.NoError(t, err)
	require.Len(t, run.Notices, 1)
	assert.True(t, run.Notices[0].PriorDebt.Equal(dec("150.00")),
		"prior debt %s", run.Notices[0].PriorDebt)

	debt, err := svc.OutstandingDebt(unit.ID)
	require.NoError(t, err)
	assert.True(t, debt.Equal(dec("300.00")), "debt %s", debt)
}

func TestGenerateChargesMissingCategory(t *testing.T) {
	// No seed: the protected categories do not exist.
	st, err := store.Open(filepath.Join(t.TempDir(), "bare.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate())

	svc := NewService(st, quietLogger())
	_, err = svc.GenerateCharges(period.Period{Year: 2025, Month: time.March}, 0)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err), "want configuration error, got %v", err)
}

func TestGenerateChargesDefaultAccountParam(t *testing.T) {
	svc, st, _ := newTestService(t)
	mkUnit(t, st, "1A", "150.00")

	// No account argument and no parameter: fatal configuration error.
	_, err := svc.GenerateCharges(period.Period{Year: 2025, Month: time.March}, 0)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))

	acct := mkAccount(t, st, "Operating", "0")
	err = store.SetParam(st.DB(), model.ParamDefaultIncomeAccount, acct.Name, model.ParamText, "", "finance")
	require.NoError(t, err)

	run, err := svc.GenerateCharges(period.Period{Year: 2025, Month: time.March}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Created)
	assert.Equal(t, acct.ID, run.Notices[0].Movement.AccountID)
}

func TestConfirmPayment(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "100.00")
	unit := mkUnit(t, st, "1A", "150.00")

	p := period.Period{Year: 2025, Month: time.March}
	run, err := svc.GenerateCharges(p, acct.ID)
	require.NoError(t, err)
	charge := run.Notices[0].Movement

	when := date(2025, time.March, 15)
	m, err := svc.ConfirmPayment(charge.ID, acct.ID, when, "")
	require.NoError(t, err)

	assert.Equal(t, model.StatusPaid, m.Status)
	assert.True(t, m.Applied)
	require.NotNil(t, m.SettledAt)
	assert.True(t, m.SettledAt.Equal(when))

	got, err := store.AccountByID(st.DB(), acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("250.00")), "balance %s", got.Balance)

	debt, err := svc.OutstandingDebt(unit.ID)
	require.NoError(t, err)
	assert.True(t, debt.IsZero(), "debt %s", debt)
}

func TestConfirmPaymentTwice(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	mkUnit(t, st, "1A", "150.00")

	run, err := svc.GenerateCharges(period.Period{Year: 2025, Month: time.March}, acct.ID)
	require.NoError(t, err)
	charge := run.Notices[0].Movement

	_, err = svc.ConfirmPayment(charge.ID, acct.ID, date(2025, time.March, 15), "")
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(charge.ID, acct.ID, date(2025, time.March, 16), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotPending)

	// The balance was applied exactly once.
	got, err := store.AccountByID(st.DB(), acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("150.00")), "balance %s", got.Balance)
}

func TestConfirmExpenseInsufficientFunds(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "50.00")
	cat := mkExpenseCategory(t, st, "Utilities")

	m, err := svc.RecordExpense(ExpenseParams{
		Amount:     dec("80.00"),
		CategoryID: cat.ID,
		AccountID:  acct.ID,
		IssuedAt:   date(2025, time.March, 1),
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, m.Status)

	_, err = svc.ConfirmPayment(m.ID, acct.ID, date(2025, time.March, 5), "")
	require.Error(t, err)

	var insufficient *InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, acct.Name, insufficient.Account)
	assert.True(t, insufficient.Shortfall().Equal(dec("30.00")), "shortfall %s", insufficient.Shortfall())

	// Nothing moved: still pending, balance untouched.
	got, err := store.MovementByID(st.DB(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.False(t, got.Applied)
	assert.Nil(t, got.SettledAt)

	acctGot, err := store.AccountByID(st.DB(), acct.ID)
	require.NoError(t, err)
	assert.True(t, acctGot.Balance.Equal(dec("50.00")))
}

func TestConfirmExpenseSufficientFunds(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "100.00")
	cat := mkExpenseCategory(t, st, "Utilities")

	m, err := svc.RecordExpense(ExpenseParams{
		Amount:     dec("80.00"),
		CategoryID: cat.ID,
		AccountID:  acct.ID,
		IssuedAt:   date(2025, time.March, 1),
	})
	require.NoError(t, err)

	confirmed, err := svc.ConfirmPayment(m.ID, acct.ID, date(2025, time.March, 5), "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, confirmed.Status)
	assert.True(t, confirmed.Applied)

	got, err := store.AccountByID(st.DB(), acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("20.00")), "balance %s", got.Balance)
}

func TestConfirmPersistsEvidenceRef(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	mkUnit(t, st, "1A", "150.00")

	run, err := svc.GenerateCharges(period.Period{Year: 2025, Month: time.March}, acct.ID)
	require.NoError(t, err)

	m, err := svc.ConfirmPayment(run.Notices[0].Movement.ID, acct.ID, date(2025, time.March, 15), "a1b2c3.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3.jpg", m.EvidenceRef)

	got, err := store.MovementByID(st.DB(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3.jpg", got.EvidenceRef)
}

func TestRecordExpensePersistsEvidenceRef(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	cat := mkExpenseCategory(t, st, "Utilities")

	m, err := svc.RecordExpense(ExpenseParams{
		Amount:      dec("80.00"),
		CategoryID:  cat.ID,
		AccountID:   acct.ID,
		EvidenceRef: "d4e5f6.pdf",
		IssuedAt:    date(2025, time.March, 1),
	})
	require.NoError(t, err)

	got, err := store.MovementByID(st.DB(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "d4e5f6.pdf", got.EvidenceRef)
}

func TestRecordIncomeAppliesImmediately(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	cat := &model.Category{Name: "Amenity Rental", Kind: model.KindIncome}
	require.NoError(t, store.CreateCategory(st.DB(), cat))

	m, err := svc.RecordIncome(IncomeParams{
		Amount:      dec("45.50"),
		CategoryID:  cat.ID,
		AccountID:   acct.ID,
		Description: "SUM rental",
		When:        date(2025, time.March, 8),
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPaid, m.Status)
	assert.True(t, m.Applied)
	require.NotNil(t, m.SettledAt)

	got, err := store.AccountByID(st.DB(), acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("45.50")))
}

func TestRecordIncomeKindMismatch(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	cat := mkExpenseCategory(t, st, "Utilities")

	_, err := svc.RecordIncome(IncomeParams{
		Amount:     dec("45.50"),
		CategoryID: cat.ID,
		AccountID:  acct.ID,
		When:       date(2025, time.March, 8),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestRecordIncomeDuesRequiresUnit(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	cat := duesCategory(t, st)

	_, err := svc.RecordIncome(IncomeParams{
		Amount:     dec("150.00"),
		CategoryID: cat.ID,
		AccountID:  acct.ID,
		When:       date(2025, time.March, 8),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnitRequired)
}

func TestRecordIncomeInvalidAmount(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	cat := &model.Category{Name: "Amenity Rental", Kind: model.KindIncome}
	require.NoError(t, store.CreateCategory(st.DB(), cat))

	for _, amount := range []string{"0", "-10", "1.999"} {
		_, err := svc.RecordIncome(IncomeParams{
			Amount:     dec(amount),
			CategoryID: cat.ID,
			AccountID:  acct.ID,
			When:       date(2025, time.March, 8),
		})
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
	}
}

func TestRecordExpensePendingDoesNotTouchBalance(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "100.00")
	cat := mkExpenseCategory(t, st, "Utilities")

	m, err := svc.RecordExpense(ExpenseParams{
		Amount:     dec("500.00"), // far above the balance; fine while pending
		CategoryID: cat.ID,
		AccountID:  acct.ID,
		IssuedAt:   date(2025, time.March, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, m.Status)
	assert.False(t, m.Applied)

	got, err := store.AccountByID(st.DB(), acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("100.00")))
}

func TestRecordExpensePaidGatedByFunds(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "100.00")
	cat := mkExpenseCategory(t, st, "Utilities")
	settled := date(2025, time.March, 1)

	_, err := svc.RecordExpense(ExpenseParams{
		Amount:     dec("500.00"),
		CategoryID: cat.ID,
		AccountID:  acct.ID,
		IssuedAt:   settled,
		SettledAt:  &settled,
	})
	require.Error(t, err)
	var insufficient *InsufficientFundsError
	assert.ErrorAs(t, err, &insufficient)

	// No row was left behind by the rolled-back attempt.
	movements, err := store.Movements(st.DB(), store.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movements)

	m, err := svc.RecordExpense(ExpenseParams{
		Amount:     dec("60.00"),
		CategoryID: cat.ID,
		AccountID:  acct.ID,
		IssuedAt:   settled,
		SettledAt:  &settled,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, m.Status)
	assert.True(t, m.Applied)

	got, err := store.AccountByID(st.DB(), acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("40.00")))
}

func TestTransferConservation(t *testing.T) {
	svc, st, _ := newTestService(t)
	bank := mkAccount(t, st, "Bank", "500.00")
	cash := mkAccount(t, st, "Cash Box", "20.00")

	before := totalBalance(t, st)

	pair, err := svc.Transfer(bank.ID, cash.ID, dec("120.00"), date(2025, time.March, 10))
	require.NoError(t, err)

	assert.Equal(t, model.KindExpense, pair.Out.Kind)
	assert.Equal(t, model.KindIncome, pair.In.Kind)
	for _, leg := range []model.Movement{pair.Out, pair.In} {
		assert.Equal(t, model.StatusPaid, leg.Status)
		assert.True(t, leg.Applied)
		assert.True(t, leg.InternalTransfer)
		require.NotNil(t, leg.SettledAt)
	}

	bankGot, err := store.AccountByID(st.DB(), bank.ID)
	require.NoError(t, err)
	cashGot, err := store.AccountByID(st.DB(), cash.ID)
	require.NoError(t, err)
	assert.True(t, bankGot.Balance.Equal(dec("380.00")), "bank %s", bankGot.Balance)
	assert.True(t, cashGot.Balance.Equal(dec("140.00")), "cash %s", cashGot.Balance)

	// Total money in the system never changes.
	assert.True(t, totalBalance(t, st).Equal(before))
}

func TestTransferSameAccount(t *testing.T) {
	svc, st, _ := newTestService(t)
	bank := mkAccount(t, st, "Bank", "500.00")

	_, err := svc.Transfer(bank.ID, bank.ID, dec("50.00"), date(2025, time.March, 10))
	assert.ErrorIs(t, err, ErrInvalidTransfer)
}

func TestTransferInsufficientFunds(t *testing.T) {
	svc, st, _ := newTestService(t)
	bank := mkAccount(t, st, "Bank", "30.00")
	cash := mkAccount(t, st, "Cash Box", "0")

	_, err := svc.Transfer(bank.ID, cash.ID, dec("50.00"), date(2025, time.March, 10))
	require.Error(t, err)
	var insufficient *InsufficientFundsError
	assert.ErrorAs(t, err, &insufficient)

	// Neither leg exists.
	movements, err := store.Movements(st.DB(), store.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestDeleteMovementPendingOnly(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "100.00")
	cat := mkExpenseCategory(t, st, "Utilities")

	pending, err := svc.RecordExpense(ExpenseParams{
		Amount:     dec("10.00"),
		CategoryID: cat.ID,
		AccountID:  acct.ID,
		IssuedAt:   date(2025, time.March, 1),
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteMovement(pending.ID))

	_, err = store.MovementByID(st.DB(), pending.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	settled := date(2025, time.March, 1)
	paid, err := svc.RecordExpense(ExpenseParams{
		Amount:     dec("10.00"),
		CategoryID: cat.ID,
		AccountID:  acct.ID,
		IssuedAt:   settled,
		SettledAt:  &settled,
	})
	require.NoError(t, err)

	err = svc.DeleteMovement(paid.ID)
	assert.ErrorIs(t, err, ErrMovementPaid)
}

func TestReconcileDetectsAndRebuildsDrift(t *testing.T) {
	svc, st, _ := newTestService(t)
	acct := mkAccount(t, st, "Operating", "100.00")
	cat := &model.Category{Name: "Amenity Rental", Kind: model.KindIncome}
	require.NoError(t, store.CreateCategory(st.DB(), cat))

	_, err := svc.RecordIncome(IncomeParams{
		Amount:     dec("50.00"),
		CategoryID: cat.ID,
		AccountID:  acct.ID,
		When:       date(2025, time.March, 8),
	})
	require.NoError(t, err)

	drift, err := svc.Reconcile()
	require.NoError(t, err)
	assert.Empty(t, drift)

	// Corrupt the cached balance behind the engine's back.
	require.NoError(t, st.DB().Model(&model.Account{}).
		Where("id = ?", acct.ID).Update("balance", "999.00").Error)

	drift, err = svc.Reconcile()
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.True(t, drift[0].Cached.Equal(dec("999.00")))
	assert.True(t, drift[0].Derived.Equal(dec("150.00")))

	require.NoError(t, svc.RebuildBalances())

	drift, err = svc.Reconcile()
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func TestBalancesStayDerivableAcrossOperations(t *testing.T) {
	svc, st, _ := newTestService(t)
	bank := mkAccount(t, st, "Bank", "1000.00")
	cash := mkAccount(t, st, "Cash Box", "50.00")
	mkUnit(t, st, "1A", "150.00")
	mkUnit(t, st, "1B", "200.00")
	utilities := mkExpenseCategory(t, st, "Utilities")

	p := period.Period{Year: 2025, Month: time.March}
	run, err := svc.GenerateCharges(p, bank.ID)
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(run.Notices[0].Movement.ID, bank.ID, date(2025, time.March, 12), "")
	require.NoError(t, err)

	settled := date(2025, time.March, 14)
	_, err = svc.RecordExpense(ExpenseParams{
		Amount:     dec("300.00"),
		CategoryID: utilities.ID,
		AccountID:  bank.ID,
		IssuedAt:   settled,
		SettledAt:  &settled,
	})
	require.NoError(t, err)

	_, err = svc.Transfer(bank.ID, cash.ID, dec("100.00"), date(2025, time.March, 20))
	require.NoError(t, err)

	for _, id := range []uint{bank.ID, cash.ID} {
		acct, err := store.AccountByID(st.DB(), id)
		require.NoError(t, err)
		derived, err := svc.DerivedBalance(id)
		require.NoError(t, err)
		assert.True(t, acct.Balance.Equal(derived),
			"account %s cached %s derived %s", acct.Name, acct.Balance, derived)
	}

	drift, err := svc.Reconcile()
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func TestChargeRunDispatchesNotices(t *testing.T) {
	svc, st, disp := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	unit := mkUnit(t, st, "1A", "150.00")
	mkContact(t, st, unit.ID, "Ana Perez", "ana@example.com")

	p := period.Period{Year: 2025, Month: time.March}
	_, err := svc.GenerateCharges(p, acct.ID)
	require.NoError(t, err)

	require.Len(t, disp.messages, 1)
	msg := disp.messages[0]
	assert.Equal(t, []string{"ana@example.com"}, msg.To)
	assert.Contains(t, msg.Subject, "1A")
	assert.Equal(t, "notice-2025-03-unit-1A.txt", msg.AttachmentName)
	assert.Contains(t, string(msg.Attachment), "DUES NOTICE")
}

func TestAutoEmailDisabledSuppressesNotices(t *testing.T) {
	svc, st, disp := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	unit := mkUnit(t, st, "1A", "150.00")
	mkContact(t, st, unit.ID, "Ana Perez", "ana@example.com")

	err := store.SetParam(st.DB(), model.ParamAutoEmail, "false", model.ParamBoolean, "", "notifications")
	require.NoError(t, err)

	run, err := svc.GenerateCharges(period.Period{Year: 2025, Month: time.March}, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Created)
	assert.Empty(t, disp.messages)
}

func TestReceiptRenderFailureDoesNotFailConfirm(t *testing.T) {
	st := newTestStore(t)
	disp := &captureDispatcher{}
	svc := NewService(st, quietLogger(), WithDispatcher(disp), WithRenderer(failRenderer{}))

	acct := mkAccount(t, st, "Operating", "0")
	unit := mkUnit(t, st, "1A", "150.00")
	mkContact(t, st, unit.ID, "Ana Perez", "ana@example.com")

	run, err := svc.GenerateCharges(period.Period{Year: 2025, Month: time.March}, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Created)
	assert.Empty(t, disp.messages)

	// The confirmation sticks even though the receipt cannot render.
	m, err := svc.ConfirmPayment(run.Notices[0].Movement.ID, acct.ID, date(2025, time.March, 15), "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, m.Status)

	got, err := store.AccountByID(st.DB(), acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("150.00")))
}

func TestConfirmDispatchesReceipt(t *testing.T) {
	svc, st, disp := newTestService(t)
	acct := mkAccount(t, st, "Operating", "0")
	unit := mkUnit(t, st, "1A", "150.00")
	mkContact(t, st, unit.ID, "Ana Perez", "ana@example.com")

	run, err := svc.GenerateCharges(period.Period{Year: 2025, Month: time.March}, acct.ID)
	require.NoError(t, err)
	disp.messages = nil // drop the dues notice

	m, err := svc.ConfirmPayment(run.Notices[0].Movement.ID, acct.ID, date(2025, time.March, 15), "")
	require.NoError(t, err)
	assert.True(t, m.Applied)

	require.Len(t, disp.messages, 1)
	msg := disp.messages[0]
	assert.Contains(t, msg.Subject, "receipt")
	assert.Contains(t, string(msg.Attachment), "TRANSACTION RECEIPT")
	assert.Contains(t, string(msg.Attachment), "UNIT 1A")
}
