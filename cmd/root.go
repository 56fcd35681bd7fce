package cmd

import (
	"fmt"
	"os"

	"gst-billing-backend/config"
	"gst-billing-backend/logger"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "billing",
	Short: "Multi-tenant GST billing backend",
	Long: `billing serves the GST invoicing API and ships the operational commands
that go with it: schema migration, reminder scans and admin provisioning.

Configuration is read from the environment (and a .env file when present).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if err := logger.Setup(loaded.LoggerConfig()); err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
