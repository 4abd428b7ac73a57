package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/edificio-dev/edificio/internal/config"
	"github.com/edificio-dev/edificio/internal/model"
	"github.com/edificio-dev/edificio/internal/store"
)

func newInitCommand(configPath *string) *cobra.Command {
	var name string
	var taxID string
	var address string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new administration workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name, taxID, address)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "building name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&taxID, "tax-id", "", "building tax identifier")
	cmd.Flags().StringVar(&address, "address", "", "building address")

	return cmd
}

func runInit(dir, name, taxID, address string) error {
	dirs := []string{
		"data",
		filepath.Join("data", "evidence"),
		filepath.Join("data", "logs"),
		"exports",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name)
	cfg.Building.TaxID = taxID
	cfg.Building.Address = address
	cfg.Database.Path = filepath.Join(dir, "edificio.db")
	cfg.Data.Directory = filepath.Join(dir, "data")
	if err := config.Save(filepath.Join(dir, "edificio.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	log := cfg.Logger()
	st, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	if err := st.Seed(); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Push the building identity from the config into the parameter table.
	db := st.DB()
	identity := map[string]string{
		model.ParamBuildingName:    name,
		model.ParamBuildingTaxID:   taxID,
		model.ParamBuildingAddress: address,
	}
	for key, value := range identity {
		if value == "" {
			continue
		}
		if err := store.SetParam(db, key, value, model.ParamText, "", "general"); err != nil {
			return fmt.Errorf("setting parameter %s: %w", key, err)
		}
	}

	fmt.Printf("Initialized administration workspace at %s\n", dir)
	return nil
}
