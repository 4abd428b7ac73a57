package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/oplog"
	"github.com/edificio-dev/edificio/internal/store"
)

func newConfirmCommand(configPath *string) *cobra.Command {
	var accountName string
	var dateFlag string
	var evidenceFlag string

	cmd := &cobra.Command{
		Use:   "confirm <movement-id>",
		Short: "Confirm payment of a pending movement",
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

			acct, err := store.AccountByName(app.store.DB(), accountName)
			if err != nil {
				return err
			}

			when, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}

			ref, err := app.storeEvidence(evidenceFlag)
			if err != nil {
				return err
			}

			m, err := app.ledger.ConfirmPayment(uint(movementID), acct.ID, when, ref)
			if err != nil {
				return err
			}

			app.audit(oplog.OpConfirm, fmt.Sprintf("%d", m.ID),
				fmt.Sprintf("account=%s amount=%s", acct.Name, m.Amount.StringFixed(2)))

			fmt.Printf("Confirmed movement #%d (%s %s) into %s\n",
				m.ID, m.Kind, m.Amount.StringFixed(2), acct.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountName, "account", "", "settlement account (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&dateFlag, "date", "", "settlement date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&evidenceFlag, "evidence", "", "path to a proof-of-payment file")

	return cmd
}

// parseDateFlag interprets an optional YYYY-MM-DD flag, defaulting to now.
func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
