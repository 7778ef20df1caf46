// Package commands provides CLI commands for the admin tool
package commands

import (
	"fmt"

	"ludora/internal/database"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MigrateCommands returns the schema migration commands
func MigrateCommands(db *sqlx.DB, log *zap.Logger) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
		Long: `Database schema migrations for Ludora.

Available commands:
  up        - Apply all pending migrations`,
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := database.EmbeddedSource()
			if err != nil {
				return fmt.Errorf("failed to open embedded migrations: %w", err)
			}
			applied, err := database.NewMigrator(db, src).Up(cmd.Context())
			if err != nil {
				log.Error("Migration failed", zap.Int("applied", applied), zap.Error(err))
				return err
			}
			log.Info("Migrations applied", zap.Int("count", applied))
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	})

	return migrateCmd
}
