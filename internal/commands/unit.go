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

func newUnitCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Manage units and their contacts",
	}
	cmd.AddCommand(newUnitAddCommand(configPath))
	cmd.AddCommand(newUnitListCommand(configPath))
	cmd.AddCommand(newUnitSetDueCommand(configPath))
	cmd.AddCommand(newUnitContactCommand(configPath))
	return cmd
}

func newUnitAddCommand(configPath *string) *cobra.Command {
	var floor int
	var share string
	var due string
	var rented bool
	var payerRole string

	cmd := &cobra.Command{
		Use:   "add <number>",
		Short: "Add a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			monthlyDue, err := decimal.NewFromString(due)
			if err != nil {
				return fmt.Errorf("parsing monthly due %q: %w", due, err)
			}
			sharePct, err := decimal.NewFromString(share)
			if err != nil {
				return fmt.Errorf("parsing share %q: %w", share, err)
			}

			u := &model.Unit{
				Number:     args[0],
				Floor:      floor,
				SharePct:   sharePct,
				MonthlyDue: monthlyDue,
				Rented:     rented,
				PayerRole:  model.PayerRole(payerRole),
			}
			if err := store.CreateUnit(app.store.DB(), u); err != nil {
				return err
			}

			fmt.Printf("Created unit %s (#%d), monthly due %s\n", u.Number, u.ID, u.MonthlyDue.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().IntVar(&floor, "floor", 0, "floor number")
	cmd.Flags().StringVar(&share, "share", "0", "ownership share percentage")
	cmd.Flags().StringVar(&due, "due", "0", "ordinary monthly due")
	cmd.Flags().BoolVar(&rented, "rented", false, "unit is rented out")
	cmd.Flags().StringVar(&payerRole, "payer", string(model.PayerOwner), "who pays the dues (owner or tenant)")

	return cmd
}

func newUnitListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List units with outstanding debt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			units, err := store.Units(app.store.DB())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUNIT\tFLOOR\tDUE\tDEBT")
			for _, u := range units {
				debt, err := app.ledger.OutstandingDebt(u.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
					u.ID, u.Number, u.Floor, u.MonthlyDue.StringFixed(2), debt.StringFixed(2))
			}
			return w.Flush()
		},
	}
}

func newUnitSetDueCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set-due <unit-number> <amount>",
		Short: "Change a unit's ordinary monthly due",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			due, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("parsing monthly due %q: %w", args[1], err)
			}

			unit, err := store.UnitByNumber(app.store.DB(), args[0])
			if err != nil {
				return err
			}

			unit.MonthlyDue = due
			if err := store.SaveUnit(app.store.DB(), unit); err != nil {
				return err
			}

			fmt.Printf("Unit %s monthly due set to %s\n", unit.Number, due.StringFixed(2))
			return nil
		},
	}
}

func newUnitContactCommand(configPath *string) *cobra.Command {
	var email string
	var phone string
	var role string
	var notify bool

	cmd := &cobra.Command{
		Use:   "contact <unit-number> <name>",
		Short: "Attach a contact person to a unit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			unit, err := store.UnitByNumber(app.store.DB(), args[0])
			if err != nil {
				return err
			}

			c := &model.Contact{
				UnitID: unit.ID,
				Name:   args[1],
				Email:  email,
				Phone:  phone,
				Role:   model.PayerRole(role),
				Notify: notify,
			}
			if err := store.AddContact(app.store.DB(), c); err != nil {
				return err
			}

			fmt.Printf("Added contact %q to unit %s\n", c.Name, unit.Number)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&role, "role", string(model.PayerOwner), "relationship to the unit (owner or tenant)")
	cmd.Flags().BoolVar(&notify, "notify", true, "send notices and receipts to this contact")

	return cmd
}
