package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/ledger"
	"github.com/edificio-dev/edificio/internal/oplog"
	"github.com/edificio-dev/edificio/internal/store"
)

func newIncomeCommand(configPath *string) *cobra.Command {
	var categoryName string
	var accountName string
	var unitNumber string
	var amountFlag string
	var dateFlag string
	var description string

	cmd := &cobra.Command{
		Use:   "income",
		Short: "Record a received income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			db := app.store.DB()

			cat, err := store.CategoryByName(db, categoryName)
			if err != nil {
				return err
			}
			acct, err := store.AccountByName(db, accountName)
			if err != nil {
				return err
			}

			var unitID *uint
			if unitNumber != "" {
				unit, err := store.UnitByNumber(db, unitNumber)
				if err != nil {
					return err
				}
				unitID = &unit.ID
			}

			amount, err := decimal.NewFromString(amountFlag)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amountFlag, err)
			}
			when, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}

			m, err := app.ledger.RecordIncome(ledger.IncomeParams{
				Amount:      amount,
				CategoryID:  cat.ID,
				AccountID:   acct.ID,
				UnitID:      unitID,
				Description: description,
				When:        when,
			})
			if err != nil {
				return err
			}

			app.audit(oplog.OpIncome, fmt.Sprintf("%d", m.ID),
				fmt.Sprintf("category=%s amount=%s", cat.Name, m.Amount.StringFixed(2)))

			fmt.Printf("Recorded income #%d of %s into %s\n", m.ID, m.Amount.StringFixed(2), acct.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryName, "category", "", "income category (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&accountName, "account", "", "receiving account (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&unitNumber, "unit", "", "paying unit number")
	cmd.Flags().StringVar(&amountFlag, "amount", "", "amount received (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&dateFlag, "date", "", "receipt date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&description, "description", "", "movement description")

	return cmd
}

func newExpenseCommand(configPath *string) *cobra.Command {
	var categoryName string
	var accountName string
	var counterpartyID uint
	var amountFlag string
	var dateFlag string
	var paidFlag string
	var evidenceFlag string
	var description string

	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record an expense, pending or paid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			db := app.store.DB()

			cat, err := store.CategoryByName(db, categoryName)
			if err != nil {
				return err
			}
			acct, err := store.AccountByName(db, accountName)
			if err != nil {
				return err
			}

			var cpID *uint
			if counterpartyID != 0 {
				cp, err := store.CounterpartyByID(db, counterpartyID)
				if err != nil {
					return err
				}
				cpID = &cp.ID
			}

			amount, err := decimal.NewFromString(amountFlag)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amountFlag, err)
			}
			issuedAt, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}

			ref, err := app.storeEvidence(evidenceFlag)
			if err != nil {
				return err
			}

			params := ledger.ExpenseParams{
				Amount:         amount,
				CategoryID:     cat.ID,
				AccountID:      acct.ID,
				CounterpartyID: cpID,
				Description:    description,
				EvidenceRef:    ref,
				IssuedAt:       issuedAt,
			}
			if paidFlag != "" {
				settledAt, err := parseDateFlag(paidFlag)
				if err != nil {
					return err
				}
				params.SettledAt = &settledAt
			}

			m, err := app.ledger.RecordExpense(params)
			if err != nil {
				return err
			}

			app.audit(oplog.OpExpense, fmt.Sprintf("%d", m.ID),
				fmt.Sprintf("category=%s amount=%s status=%s", cat.Name, m.Amount.StringFixed(2), m.Status))

			fmt.Printf("Recorded expense #%d of %s (%s)\n", m.ID, m.Amount.StringFixed(2), m.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryName, "category", "", "expense category (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&accountName, "account", "", "paying account (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().UintVar(&counterpartyID, "counterparty", 0, "counterparty id")
	cmd.Flags().StringVar(&amountFlag, "amount", "", "amount owed (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&dateFlag, "date", "", "issue date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&paidFlag, "paid", "", "settlement date as YYYY-MM-DD; omit to leave pending")
	cmd.Flags().StringVar(&evidenceFlag, "evidence", "", "path to an invoice or proof-of-payment file")
	cmd.Flags().StringVar(&description, "description", "", "movement description")

	return cmd
}
