package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/store"
)

func newCounterpartyCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "counterparty",
		Aliases: []string{"vendor"},
		Short:   "Manage vendors and employees",
	}
	cmd.AddCommand(newCounterpartyAddCommand(configPath))
	cmd.AddCommand(newCounterpartyListCommand(configPath))
	return cmd
}

func newCounterpartyAddCommand(configPath *string) *cobra.Command {
	var taxID string
	var phone string
	var tag string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a vendor or employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			c := &model.Counterparty{
				Name:  args[0],
				TaxID: taxID,
				Phone: phone,
				Tag:   model.CounterpartyTag(tag),
			}
			if err := store.CreateCounterparty(app.store.DB(), c); err != nil {
				return err
			}

			fmt.Printf("Created counterparty %q (#%d)\n", c.Name, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&taxID, "tax-id", "", "tax identifier")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&tag, "tag", string(model.TagOther), "grouping tag (utilities, maintenance, payroll, other)")

	return cmd
}

func newCounterpartyListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List counterparties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			list, err := store.Counterparties(app.store.DB())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTAG\tTAX ID\tPHONE")
			for _, c := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Tag, c.TaxID, c.Phone)
			}
			return w.Flush()
		},
	}
}
