package commands

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/litovianka/bike-service/internal/pkg/config"
)

const backupTimestampFormat = "20060102_150405"

// InitBackupCommands registers the backup command with the root command.
func InitBackupCommands(rootCmd *cobra.Command) error {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the database file, migrations, and configs",
		Long: `Collects the SQLite database file (when the configured database is
SQLite and the file exists), the migrations directory, and the configs
directory into backups/backup_<timestamp>.zip. With nothing to archive the
command reports it and exits cleanly.`,
		RunE: runBackupCommand,
	}

	rootCmd.AddCommand(backupCmd)
	return nil
}

func runBackupCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadOpsConfig()
	if err != nil {
		return err
	}

	archivePath, err := RunBackup(cfg)
	if err != nil {
		return err
	}

	if archivePath == "" {
		cmd.Println("Nothing to back up.")
		return nil
	}

	cmd.Printf("Backup written to %s\n", archivePath)
	return nil
}

// RunBackup archives the backup sources into a timestamped zip under the
// configured backups directory. It returns the archive path, or an empty
// string when no source exists.
func RunBackup(cfg *config.OpsConfig) (string, error) {
	sources := collectBackupSources(cfg)
	if len(sources) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(cfg.BackupsDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create backups directory: %w", err)
	}

	archivePath := filepath.Join(cfg.BackupsDir,
		fmt.Sprintf("backup_%s.zip", time.Now().Format(backupTimestampFormat)))

	if err := writeArchive(archivePath, sources); err != nil {
		// A partial archive must not look like a valid backup.
		_ = os.Remove(archivePath)
		return "", err
	}

	return archivePath, nil
}

// collectBackupSources returns the paths that exist and belong in the
// archive: the SQLite database file plus the migrations and configs
// directories.
func collectBackupSources(cfg *config.OpsConfig) []string {
	var sources []string

	if cfg.Database.Type == config.SqliteDbType && cfg.Database.DSN != "" && cfg.Database.DSN != ":memory:" {
		if info, err := os.Stat(cfg.Database.DSN); err == nil && !info.IsDir() {
			sources = append(sources, cfg.Database.DSN)
		}
	}

	for _, dir := range []string{cfg.MigrationsDir, cfg.ConfigsDir} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			sources = append(sources, dir)
		}
	}

	return sources
}

func writeArchive(archivePath string, sources []string) error {
	archive, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", archivePath, err)
	}

	writer := zip.NewWriter(archive)

	for _, source := range sources {
		if err := addToArchive(writer, source); err != nil {
			_ = writer.Close()
			_ = archive.Close()
			return err
		}
	}

	if err := writer.Close(); err != nil {
		_ = archive.Close()
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}

	return nil
}

// addToArchive writes a file, or a directory tree, into the archive under its
// relative path.
func addToArchive(writer *zip.Writer, source string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", source, err)
	}

	if !info.IsDir() {
		return addFileToArchive(writer, source, filepath.Base(source))
	}

	return filepath.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(filepath.Dir(source), path)
		if err != nil {
			return err
		}
		return addFileToArchive(writer, path, filepath.ToSlash(rel))
	})
}

func addFileToArchive(writer *zip.Writer, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	entry, err := writer.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}

	if _, err := io.Copy(entry, file); err != nil {
		return fmt.Errorf("failed to write %s into archive: %w", name, err)
	}

	return nil
}
