package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thanulingayath/reception-agent/internal/models"
	"github.com/thanulingayath/reception-agent/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the Reception Agent database schema.

Available subcommands:
  up      - Apply the schema (GORM auto-migration)
  status  - Show which tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the database schema",
	Long: `Create or update the call_records and jobs tables to match the
current model definitions. Safe to run repeatedly.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows which tables exist
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema status",
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Schema applied to %s\n", cfg.Database.Path)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database: %s\n\n", cfg.Database.Path)

	tables := map[string]interface{}{
		"call_records": &models.CallRecord{},
		"jobs":         &models.Job{},
	}
	for name, model := range tables {
		status := "missing"
		if db.DB.Migrator().HasTable(model) {
			status = "present"
		}
		fmt.Fprintf(out, "  %-14s %s\n", name, status)
	}

	return nil
}
