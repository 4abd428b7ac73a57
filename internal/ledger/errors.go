package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for rule violations. Lookup failures surface the
// store's ErrNotFound unchanged.
var (
	ErrNotPending      = errors.New("ledger: movement is not pending")
	ErrNotPaid         = errors.New("ledger: movement is not paid")
	ErrAlreadyApplied  = errors.New("ledger: movement balance effect already applied")
	ErrMovementPaid    = errors.New("ledger: paid movements cannot be deleted")
	ErrInvalidTransfer = errors.New("ledger: source and destination accounts must differ")
	ErrInvalidAmount   = errors.New("ledger: amount must be positive with at most 2 decimal places")
	ErrUnitRequired    = errors.New("ledger: ordinary dues income requires a unit")
	ErrKindMismatch    = errors.New("ledger: category kind does not match movement kind")
)

// InsufficientFundsError rejects an expense settlement or transfer that
// would drive an account balance negative. The operation that raised it
// aborted with no partial state.
type InsufficientFundsError struct {
	Account   string
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("ledger: insufficient funds in %q: balance %s, requested %s (short %s)",
		e.Account, e.Balance.StringFixed(2), e.Requested.StringFixed(2), e.Shortfall().StringFixed(2))
}

// Shortfall is how much the account is missing.
func (e *InsufficientFundsError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Balance)
}

// ConfigurationError reports required reference data that is missing:
// a protected category or a default-account parameter. Generation-wide
// fatal; nothing was processed.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("ledger: required configuration missing: %s", e.Missing)
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsInsufficientFunds reports whether err is an InsufficientFundsError.
func IsInsufficientFunds(err error) bool {
	var ife *InsufficientFundsError
	return errors.As(err, &ife)
}
