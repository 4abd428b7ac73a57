package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/oplog"
	"github.com/edificio-dev/edificio/internal/store"
)

func newTransferCommand(configPath *string) *cobra.Command {
	var fromName string
	var toName string
	var amountFlag string
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move funds between two accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			from, err := store.AccountByName(app.store.DB(), fromName)
			if err != nil {
				return err
			}
			to, err := store.AccountByName(app.store.DB(), toName)
			if err != nil {
				return err
			}

			amount, err := decimal.NewFromString(amountFlag)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amountFlag, err)
			}

			when, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}

			pair, err := app.ledger.Transfer(from.ID, to.ID, amount, when)
			if err != nil {
				return err
			}

			app.audit(oplog.OpTransfer, fmt.Sprintf("%s->%s", from.Name, to.Name),
				fmt.Sprintf("amount=%s out=%d in=%d", amount.StringFixed(2), pair.Out.ID, pair.In.ID))

			fmt.Printf("Transferred %s from %s to %s (movements #%d/#%d)\n",
				amount.StringFixed(2), from.Name, to.Name, pair.Out.ID, pair.In.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromName, "from", "", "source account (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringVar(&toName, "to", "", "destination account (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVar(&amountFlag, "amount", "", "amount to move (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&dateFlag, "date", "", "transfer date as YYYY-MM-DD (default: today)")

	return cmd
}
