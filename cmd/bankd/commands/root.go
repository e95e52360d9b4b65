package commands

import (
	"fmt"
	"log/slog"
	"os"

	"kodbank/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bankd",
	Short: "KodBank ledger API",
	Long: `bankd runs the KodBank HTTP API and its maintenance tasks.

Configuration comes from environment variables, optionally loaded from a .env file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", envFile, err)
		}

		cfg = config.Load()
		logger = newLogger(cfg, verbose)
		slog.SetDefault(logger)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedAdminCmd)
}

// newLogger writes JSON in deployed environments and text in development
func newLogger(cfg *config.Config, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
