package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/oplog"
	"github.com/edificio-dev/edificio/internal/period"
	"github.com/edificio-dev/edificio/internal/store"
)

func newChargeCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charge",
		Short: "Issue monthly dues charges",
	}
	cmd.AddCommand(newChargeGenerateCommand(configPath))
	return cmd
}

func newChargeGenerateCommand(configPath *string) *cobra.Command {
	var periodFlag string
	var accountName string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ordinary dues charges for a billing period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			p := period.Now()
			if periodFlag != "" {
				p, err = period.Parse(periodFlag)
				if err != nil {
					return err
				}
			}

			var accountID uint
			if accountName != "" {
				acct, err := store.AccountByName(app.store.DB(), accountName)
				if err != nil {
					return err
				}
				accountID = acct.ID
			}

			run, err := app.ledger.GenerateCharges(p, accountID)
			if err != nil {
				return err
			}

			app.audit(oplog.OpChargeRun, p.String(),
				fmt.Sprintf("created=%d skipped=%d", run.Created, run.Skipped))

			fmt.Printf("Charge run %s: %d created, %d skipped\n", p, run.Created, run.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&periodFlag, "period", "", "billing period as YYYY-MM (default: current month)")
	cmd.Flags().StringVar(&accountName, "account", "", "collection account (default: default_income_account parameter)")

	return cmd
}
