package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/store"
)

func newParamCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "param",
		Short: "Inspect and tune system parameters",
	}
	cmd.AddCommand(newParamListCommand(configPath))
	cmd.AddCommand(newParamGetCommand(configPath))
	cmd.AddCommand(newParamSetCommand(configPath))
	return cmd
}

func newParamListCommand(configPath *string) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			params, err := store.Params(app.store.DB(), group)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "GROUP\tKEY\tVALUE\tTYPE\tDESCRIPTION")
			for _, p := range params {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Group, p.Key, p.Value, p.Type, p.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "narrow to one parameter group")
	return cmd
}

func newParamGetCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one parameter value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := store.Param(app.store.DB(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(p.Value)
			return nil
		},
	}
}

func newParamSetCommand(configPath *string) *cobra.Command {
	var typ string
	var group string
	var description string

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Create or update a parameter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			err = store.SetParam(app.store.DB(), args[0], args[1],
				model.ParameterType(typ), description, group)
			if err != nil {
				return err
			}

			fmt.Printf("Set %s = %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", string(model.ParamText), "value type (text, number, boolean, date)")
	cmd.Flags().StringVar(&group, "group", "general", "parameter group")
	cmd.Flags().StringVar(&description, "description", "", "what the parameter controls")

	return cmd
}
