package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/store"
)

func newMaintenanceCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Track building equipment and its technical log",
	}
	cmd.AddCommand(newEquipmentAddCommand(configPath))
	cmd.AddCommand(newEquipmentListCommand(configPath))
	cmd.AddCommand(newEquipmentArchiveCommand(configPath))
	cmd.AddCommand(newMaintenanceLogCommand(configPath))
	cmd.AddCommand(newMaintenanceHistoryCommand(configPath))
	return cmd
}

func newEquipmentAddCommand(configPath *string) *cobra.Command {
	var location string
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a building asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			e := &model.Equipment{
				Name:        args[0],
				Location:    location,
				Description: description,
			}
			if err := store.CreateEquipment(app.store.DB(), e); err != nil {
				return err
			}

			fmt.Printf("Registered equipment %q (#%d)\n", e.Name, e.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "where the asset lives")
	cmd.Flags().StringVar(&description, "description", "", "asset description")

	return cmd
}

func newEquipmentListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active equipment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			list, err := store.ActiveEquipment(app.store.DB())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLOCATION\tDESCRIPTION")
			for _, e := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Name, e.Location, e.Description)
			}
			return w.Flush()
		},
	}
}

func newEquipmentArchiveCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <equipment-id>",
		Short: "Archive an asset, keeping its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("parsing equipment id %q: %w", args[0], err)
			}

			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := store.DeactivateEquipment(app.store.DB(), uint(id)); err != nil {
				return err
			}

			fmt.Printf("Archived equipment #%d\n", id)
			return nil
		},
	}
}

func newMaintenanceLogCommand(configPath *string) *cobra.Command {
	var dateFlag string
	var cost string
	var photoBefore string
	var photoAfter string
	var movementID uint

	cmd := &cobra.Command{
		Use:   "log <equipment-id> <description>",
		Short: "Append an entry to an asset's technical log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("parsing equipment id %q: %w", args[0], err)
			}

			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			when, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}

			referenceCost := decimal.Zero
			if cost != "" {
				referenceCost, err = decimal.NewFromString(cost)
				if err != nil {
					return fmt.Errorf("parsing cost %q: %w", cost, err)
				}
			}

			r := &model.MaintenanceRecord{
				EquipmentID:   uint(id),
				Date:          when,
				Description:   args[1],
				ReferenceCost: referenceCost,
			}
			if movementID != 0 {
				if _, err := store.MovementByID(app.store.DB(), movementID); err != nil {
					return err
				}
				r.MovementID = &movementID
			}

			// Photos go through the evidence store; the record keeps refs.
			if r.PhotoBefore, err = app.storeEvidence(photoBefore); err != nil {
				return err
			}
			if r.PhotoAfter, err = app.storeEvidence(photoAfter); err != nil {
				return err
			}

			if err := store.AddMaintenanceRecord(app.store.DB(), r); err != nil {
				return err
			}

			fmt.Printf("Logged maintenance #%d for equipment #%d\n", r.ID, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "work date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&cost, "cost", "", "reference cost of the work")
	cmd.Flags().StringVar(&photoBefore, "photo-before", "", "path to a before photo")
	cmd.Flags().StringVar(&photoAfter, "photo-after", "", "path to an after photo")
	cmd.Flags().UintVar(&movementID, "movement", 0, "expense movement that paid for the work")

	return cmd
}

func newMaintenanceHistoryCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history <equipment-id>",
		Short: "Show an asset's technical log, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("parsing equipment id %q: %w", args[0], err)
			}

			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			records, err := store.MaintenanceHistory(app.store.DB(), uint(id))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tCOST\tMOVEMENT\tDESCRIPTION")
			for _, r := range records {
				movement := ""
				if r.MovementID != nil {
					movement = fmt.Sprintf("#%d", *r.MovementID)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					r.ID, r.Date.Format("2006-01-02"), r.ReferenceCost.StringFixed(2), movement, r.Description)
			}
			return w.Flush()
		},
	}
}
