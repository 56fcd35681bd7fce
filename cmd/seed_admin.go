package cmd

import (
	"errors"
	"os"

	"gst-billing-backend/database"
	"gst-billing-backend/logger"
	"gst-billing-backend/services"

	"github.com/spf13/cobra"
)

var (
	adminEmail string
	adminName  string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create or reset the platform admin account",
	Long: `Create a platform admin (no company) that can provision tenants through
POST /api/admin/companies. Running it again for the same email resets the password.

The password is read from ADMIN_PASSWORD.`,
	Example: `  ADMIN_PASSWORD=change-me-now billing seed-admin --email admin@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			return errors.New("ADMIN_PASSWORD is not set")
		}

		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		user, err := services.EnsureAdmin(db, adminEmail, password, adminName)
		if err != nil {
			return err
		}
		log := logger.WithComponent("seed-admin")
		log.Info().Str("user_id", user.Id).Str("email", user.Email).Msg("admin ready")
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (required)")
	seedAdminCmd.Flags().StringVar(&adminName, "name", "Admin", "Admin display name")
	_ = seedAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(seedAdminCmd)
}
