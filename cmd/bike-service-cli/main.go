// Package main is the entry point for the bike-service-cli application.
// It initializes the root command and registers the operational sub-commands
// (backup, safe-migrate, ensure-admin, seed-demo), then executes the
// command-line interface.
package main

import (
	"fmt"
	"log"

	commands "github.com/litovianka/bike-service/cmd/bike-service-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "bike-service-cli",
		Short: "Operational tooling for the bike service",
		Long: `bike-service-cli bundles the operational commands of the bike service.
Supports workspace backups, backup-first database migrations, admin account
bootstrapping, and demo data seeding.

Database configuration is resolved from DATABASE_URL or from the config file
named by CONFIG_PATH.`,
		SilenceUsage: true,
	}

	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitBackupCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize backup commands: %w", err)
	}

	if err := commands.InitMigrateCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize migrate commands: %w", err)
	}

	if err := commands.InitAdminCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize admin commands: %w", err)
	}

	if err := commands.InitSeedCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize seed commands: %w", err)
	}

	return nil
}
