package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/store"
)

func newAccountCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage treasury accounts",
	}
	cmd.AddCommand(newAccountAddCommand(configPath))
	cmd.AddCommand(newAccountListCommand(configPath))
	return cmd
}

func newAccountAddCommand(configPath *string) *cobra.Command {
	var kind string
	var opening string
	var number string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a treasury account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			openingBalance, err := decimal.NewFromString(opening)
			if err != nil {
				return fmt.Errorf("parsing opening balance %q: %w", opening, err)
			}

			acct := &model.Account{
				Name:           args[0],
				Kind:           model.AccountKind(kind),
				Number:         number,
				OpeningBalance: openingBalance,
			}
			if err := store.CreateAccount(app.store.DB(), acct); err != nil {
				return err
			}

			fmt.Printf("Created account %q (#%d) with opening balance %s\n",
				acct.Name, acct.ID, acct.OpeningBalance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(model.AccountBank), "account kind (bank or cash)")
	cmd.Flags().StringVar(&opening, "opening", "0", "opening balance")
	cmd.Flags().StringVar(&number, "number", "", "bank account number")

	return cmd
}

func newAccountListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			accounts, err := store.Accounts(app.store.DB())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tBALANCE")
			for _, a := range accounts {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Name, a.Kind, a.Balance.StringFixed(2))
			}
			return w.Flush()
		},
	}
}
