package commands

import (
	"fmt"

	"kodbank/internal/database"
	"kodbank/internal/services"

	"github.com/spf13/cobra"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin user if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Initialize(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		return seedAdmin(db)
	},
}

func seedAdmin(db *database.DB) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Info("Admin seed skipped, no credentials configured")
		return nil
	}

	hash, err := services.NewPasswordService(&cfg.Security).HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, created, err := db.SeedAdminUser(cfg.Admin.Name, cfg.Admin.Email, hash)
	if err != nil {
		return err
	}

	if created {
		logger.Info("Admin user created", "email", user.Email)
	} else {
		logger.Info("Admin user already exists", "email", user.Email, "role", user.Role)
	}
	return nil
}
