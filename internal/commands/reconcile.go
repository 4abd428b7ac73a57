package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/oplog"
)

func newReconcileCommand(configPath *string) *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check cached balances against movement history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			drift, err := app.ledger.Reconcile()
			if err != nil {
				return err
			}

			app.audit(oplog.OpReconcile, "", fmt.Sprintf("drifted=%d", len(drift)))

			if len(drift) == 0 {
				fmt.Println("All account balances match movement history")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ACCOUNT\tCACHED\tDERIVED")
			for _, d := range drift {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					d.Account.Name, d.Cached.StringFixed(2), d.Derived.StringFixed(2))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !rebuild {
				fmt.Println("Run with --rebuild to rewrite cached balances from history")
				return nil
			}

			if err := app.ledger.RebuildBalances(); err != nil {
				return err
			}
			app.audit(oplog.OpRebuild, "", fmt.Sprintf("rebuilt=%d", len(drift)))
			fmt.Printf("Rebuilt %d account balance(s)\n", len(drift))
			return nil
		},
	}

	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "rewrite drifted balances from movement history")

	return cmd
}
