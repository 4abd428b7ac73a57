package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/export"
	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/oplog"
	"github.com/edificio-dev/edificio/internal/period"
	"github.com/edificio-dev/edificio/internal/store"
)

func newMovementsCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movements",
		Short: "Inspect and manage ledger movements",
	}
	cmd.AddCommand(newMovementsListCommand(configPath))
	cmd.AddCommand(newMovementsDeleteCommand(configPath))
	cmd.AddCommand(newMovementsExportCommand(configPath))
	cmd.AddCommand(newMovementsImportCommand(configPath))
	return cmd
}

// movementFilterFlags binds the shared listing filters to a command.
func movementFilterFlags(cmd *cobra.Command, kind, status, unitNumber, accountName, periodFlag *string) {
	cmd.Flags().StringVar(kind, "kind", "", "filter by kind (income or expense)")
	cmd.Flags().StringVar(status, "status", "", "filter by status (pending or paid)")
	cmd.Flags().StringVar(unitNumber, "unit", "", "filter by unit number")
	cmd.Flags().StringVar(accountName, "account", "", "filter by account name")
	cmd.Flags().StringVar(periodFlag, "period", "", "filter by issuance period (YYYY-MM)")
}

// resolveFilter turns flag values into a store filter.
func resolveFilter(app *app, kind, status, unitNumber, accountName, periodFlag string) (store.MovementFilter, error) {
	f := store.MovementFilter{
		Kind:   model.MovementKind(kind),
		Status: model.MovementStatus(status),
	}
	db := app.store.DB()

	if unitNumber != "" {
		unit, err := store.UnitByNumber(db, unitNumber)
		if err != nil {
			return f, err
		}
		f.UnitID = unit.ID
	}
	if accountName != "" {
		acct, err := store.AccountByName(db, accountName)
		if err != nil {
			return f, err
		}
		f.AccountID = acct.ID
	}
	if periodFlag != "" {
		p, err := period.Parse(periodFlag)
		if err != nil {
			return f, err
		}
		f.Period = &p
	}
	return f, nil
}

func newMovementsListCommand(configPath *string) *cobra.Command {
	var kind, status, unitNumber, accountName, periodFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movements, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			f, err := resolveFilter(app, kind, status, unitNumber, accountName, periodFlag)
			if err != nil {
				return err
			}
			movements, err := store.Movements(app.store.DB(), f)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tKIND\tSTATUS\tAMOUNT\tCATEGORY\tACCOUNT\tWHO\tDESCRIPTION")
			for _, m := range movements {
				who := ""
				if m.Unit != nil {
					who = m.Unit.Number
				} else if m.Counterparty != nil {
					who = m.Counterparty.Name
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					m.ID, m.IssuedAt.Format("2006-01-02"), m.Kind, m.Status,
					m.Amount.StringFixed(2), m.Category.Name, m.Account.Name, who, m.Description)
			}
			return w.Flush()
		},
	}

	movementFilterFlags(cmd, &kind, &status, &unitNumber, &accountName, &periodFlag)
	return cmd
}

func newMovementsDeleteCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <movement-id>",
		Short: "Delete a pending movement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movementID, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("parsing movement id %q: %w", args[0], err)
			}

			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.ledger.DeleteMovement(uint(movementID)); err != nil {
				return err
			}

			app.audit(oplog.OpDelete, args[0], "pending movement deleted")

			fmt.Printf("Deleted movement #%d\n", movementID)
			return nil
		},
	}
}

func newMovementsExportCommand(configPath *string) *cobra.Command {
	var kind, status, unitNumber, accountName, periodFlag string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export movements to a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			f, err := resolveFilter(app, kind, status, unitNumber, accountName, periodFlag)
			if err != nil {
				return err
			}
			movements, err := store.Movements(app.store.DB(), f)
			if err != nil {
				return err
			}

			if err := export.Write(out, movements); err != nil {
				return err
			}

			fmt.Printf("Exported %d movement(s) to %s\n", len(movements), out)
			return nil
		},
	}

	movementFilterFlags(cmd, &kind, &status, &unitNumber, &accountName, &periodFlag)
	cmd.Flags().StringVar(&out, "out", "exports/movements.csv", "output file path")

	return cmd
}

func newMovementsImportCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import movement history from a CSV file",
		Long: "Import reads an exported CSV and recreates its rows, resolving\n" +
			"categories, accounts and units by name. Paid rows arrive marked as\n" +
			"already applied; run `reconcile --rebuild` afterwards so cached\n" +
			"balances absorb the imported history exactly once.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			rows, err := export.Read(args[0])
			if err != nil {
				return err
			}

			created, paid := 0, 0
			err = app.store.WithTx(func(tx *gorm.DB) error {
				for i, row := range rows {
					m, err := movementFromRow(tx, row)
					if err != nil {
						return fmt.Errorf("row %d: %w", i+1, err)
					}
					if err := store.CreateMovement(tx, m); err != nil {
						return fmt.Errorf("row %d: %w", i+1, err)
					}
					created++
					if m.IsPaid() {
						paid++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d movement(s), %d of them paid\n", created, paid)
			if paid > 0 {
				fmt.Println("Run `edificio reconcile --rebuild` to fold the paid history into balances")
			}
			return nil
		},
	}
}

// movementFromRow resolves one CSV row into an insertable movement.
// Paid rows keep their settlement date and are marked applied, so a
// balance rebuild counts them exactly once.
func movementFromRow(tx *gorm.DB, row export.Row) (*model.Movement, error) {
	kind := model.MovementKind(row.Kind)
	if kind != model.KindIncome && kind != model.KindExpense {
		return nil, fmt.Errorf("unknown kind %q", row.Kind)
	}

	cat, err := store.CategoryByName(tx, row.Category)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", row.Category, err)
	}
	if cat.Kind != kind {
		return nil, fmt.Errorf("category %q books %s, row is %s", cat.Name, cat.Kind, kind)
	}
	acct, err := store.AccountByName(tx, row.Account)
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", row.Account, err)
	}

	var unitID *uint
	if row.Unit != "" {
		unit, err := store.UnitByNumber(tx, row.Unit)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", row.Unit, err)
		}
		unitID = &unit.ID
	}

	var counterpartyID *uint
	if row.Counterparty != "" {
		cp, err := store.CounterpartyByName(tx, row.Counterparty)
		if err != nil {
			return nil, fmt.Errorf("counterparty %q: %w", row.Counterparty, err)
		}
		counterpartyID = &cp.ID
	}

	amount, err := export.ParseAmount(row.Amount)
	if err != nil {
		return nil, err
	}
	if !validImportAmount(amount) {
		return nil, fmt.Errorf("amount %q must be positive with at most 2 decimal places", row.Amount)
	}
	issuedAt, err := export.ParseDate(row.IssuedAt)
	if err != nil {
		return nil, err
	}

	m := &model.Movement{
		Kind:             kind,
		Amount:           amount,
		IssuedAt:         issuedAt,
		Status:           model.MovementStatus(row.Status),
		InternalTransfer: row.Transfer,
		CategoryID:       cat.ID,
		AccountID:        acct.ID,
		UnitID:           unitID,
		CounterpartyID:   counterpartyID,
		Description:      row.Description,
	}

	switch m.Status {
	case model.StatusPending:
	case model.StatusPaid:
		if row.SettledAt == "" {
			return nil, fmt.Errorf("paid row has no settlement date")
		}
		settledAt, err := export.ParseDate(row.SettledAt)
		if err != nil {
			return nil, err
		}
		m.SettledAt = &settledAt
		m.Applied = true
	default:
		return nil, fmt.Errorf("unknown status %q", row.Status)
	}

	return m, nil
}

// validImportAmount enforces the same money shape the ledger enforces
// on direct entries: positive, whole cents.
func validImportAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	cents := amount.Mul(decimal.NewFromInt(100))
	return cents.Equal(cents.Floor())
}
