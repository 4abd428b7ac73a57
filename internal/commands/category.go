package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/store"
)

func newCategoryCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage movement categories",
	}
	cmd.AddCommand(newCategoryAddCommand(configPath))
	cmd.AddCommand(newCategoryListCommand(configPath))
	cmd.AddCommand(newCategoryRenameCommand(configPath))
	cmd.AddCommand(newCategoryDeleteCommand(configPath))
	return cmd
}

func newCategoryAddCommand(configPath *string) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			c := &model.Category{Name: args[0], Kind: model.MovementKind(kind)}
			if err := store.CreateCategory(app.store.DB(), c); err != nil {
				return err
			}

			fmt.Printf("Created %s category %q (#%d)\n", c.Kind, c.Name, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(model.KindExpense), "category kind (income or expense)")

	return cmd
}

func newCategoryListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with usage counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			usage, err := store.Categories(app.store.DB())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tMOVEMENTS\tPROTECTED")
			for _, u := range usage {
				protected := ""
				if u.Category.Protected() {
					protected = "yes"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
					u.Category.ID, u.Category.Name, u.Category.Kind, u.Movements, protected)
			}
			return w.Flush()
		},
	}
}

func newCategoryRenameCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			c, err := store.CategoryByName(app.store.DB(), args[0])
			if err != nil {
				return err
			}
			if err := store.RenameCategory(app.store.DB(), c.ID, args[1]); err != nil {
				return err
			}

			fmt.Printf("Renamed category %q to %q\n", args[0], args[1])
			return nil
		},
	}
}

func newCategoryDeleteCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an unused category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			c, err := store.CategoryByName(app.store.DB(), args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteCategory(app.store.DB(), c.ID); err != nil {
				return err
			}

			fmt.Printf("Deleted category %q\n", args[0])
			return nil
		},
	}
}
