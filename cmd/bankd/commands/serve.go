package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"kodbank/internal/database"
	"kodbank/internal/server"

	"github.com/spf13/cobra"
)

var skipSeed bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Connect to the database, apply the schema, seed the admin user and serve
the API until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServe(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "Do not create the admin user on startup")
}

func runServe(ctx context.Context) error {
	db, err := database.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	if !skipSeed {
		if err := seedAdmin(db); err != nil {
			return err
		}
	}

	return server.New(cfg, db.DB, logger).Run(ctx)
}
