package commands

import (
	"fmt"

	"kodbank/internal/database"

	"github.com/spf13/cobra"
)

var (
	migrationsPath string
	rollbackSteps  int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations",
	Long: `Apply pending migrations from the migrations directory and print the resulting version.

Examples:
  bankd migrate                 # apply everything pending
  bankd migrate --rollback 1    # revert the last migration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlDB, err := database.OpenSQL(&cfg.Database)
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		runner := database.NewMigrationRunner(sqlDB).WithPath(migrationsPath)
		if err := runner.WaitForDatabase(); err != nil {
			return fmt.Errorf("database not ready: %w", err)
		}

		if rollbackSteps > 0 {
			err = runner.RollbackMigrations(rollbackSteps)
		} else {
			err = runner.RunMigrations()
		}
		if err != nil {
			return err
		}

		version, dirty, err := runner.GetMigrationStatus()
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %v)\n", version, dirty)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsPath, "path", "db/migrations", "Migrations directory")
	migrateCmd.Flags().IntVar(&rollbackSteps, "rollback", 0, "Revert this many migrations instead of applying")
}
