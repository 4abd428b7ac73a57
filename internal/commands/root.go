package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "edificio",
		Short:   "Condominium administration ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "edificio.yaml", "path to the configuration file")

	rootCmd.AddCommand(newInitCommand(&configPath))
	rootCmd.AddCommand(newAccountCommand(&configPath))
	rootCmd.AddCommand(newUnitCommand(&configPath))
	rootCmd.AddCommand(newCategoryCommand(&configPath))
	rootCmd.AddCommand(newCounterpartyCommand(&configPath))
	rootCmd.AddCommand(newChargeCommand(&configPath))
	rootCmd.AddCommand(newConfirmCommand(&configPath))
	rootCmd.AddCommand(newTransferCommand(&configPath))
	rootCmd.AddCommand(newIncomeCommand(&configPath))
	rootCmd.AddCommand(newExpenseCommand(&configPath))
	rootCmd.AddCommand(newMovementsCommand(&configPath))
	rootCmd.AddCommand(newReconcileCommand(&configPath))
	rootCmd.AddCommand(newParamCommand(&configPath))
	rootCmd.AddCommand(newMaintenanceCommand(&configPath))

	return rootCmd
}
