package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/litovianka/bike-service/internal/infrastructure/persistence"
	"github.com/litovianka/bike-service/internal/pkg/config"
)

// InitMigrateCommands registers the safe-migrate command with the root
// command.
func InitMigrateCommands(rootCmd *cobra.Command) error {
	migrateCmd := &cobra.Command{
		Use:   "safe-migrate",
		Short: "Back up the workspace, then apply pending migrations",
		Long: `Checks that the migrations directory exists and that the database
configuration is resolvable, takes a backup, and only then applies the
pending migrations. Any failure before the migration step leaves the
database untouched.`,
		RunE: runSafeMigrateCommand,
	}

	rootCmd.AddCommand(migrateCmd)
	return nil
}

func runSafeMigrateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadOpsConfig()
	if err != nil {
		return err
	}

	if info, err := os.Stat(cfg.MigrationsDir); err != nil || !info.IsDir() {
		return fmt.Errorf("migrations directory %s not found", cfg.MigrationsDir)
	}

	archivePath, err := RunBackup(cfg)
	if err != nil {
		return fmt.Errorf("backup failed, not migrating: %w", err)
	}
	if archivePath == "" {
		cmd.Println("Nothing to back up.")
	} else {
		cmd.Printf("Backup written to %s\n", archivePath)
	}

	log, err := setupLogger()
	if err != nil {
		return err
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite development databases have no versioned migration history;
	// their schema is synced from the models instead.
	if cfg.Database.Type == config.SqliteDbType {
		if err := persistence.AutoMigrateSchema(db); err != nil {
			return fmt.Errorf("failed to sync sqlite schema: %w", err)
		}
		cmd.Println("SQLite schema synced.")
		return nil
	}

	if err := persistence.RunMigrations(db, cfg.MigrationsDir, log); err != nil {
		return err
	}

	cmd.Println("Migrations applied.")
	return nil
}
