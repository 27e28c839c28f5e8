//go:build integration
// +build integration

package commands

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeMigrate_SqliteSuccessBacksUpFirst(t *testing.T) {
	workspace := t.TempDir()

	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workspace))
	t.Cleanup(func() { _ = os.Chdir(previous) })

	dbPath := filepath.Join(workspace, "bike-service.db")
	require.NoError(t, os.WriteFile(dbPath, nil, 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, "migrations"), 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(workspace, "migrations", "000001_init_schema.up.sql"),
		[]byte("CREATE TABLE users ();"), 0o600))

	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", "sqlite:///"+dbPath)

	root := &cobra.Command{Use: "bike-service-cli", SilenceUsage: true}
	require.NoError(t, InitMigrateCommands(root))

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"safe-migrate"})

	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Backup written to")
	assert.Contains(t, out.String(), "SQLite schema synced.")

	// The backup was taken before the schema sync, so its database entry is
	// the untouched pre-migration file.
	entries, err := os.ReadDir(filepath.Join(workspace, "backups"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	reader, err := zip.OpenReader(filepath.Join(workspace, "backups", entries[0].Name()))
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	var dbEntry *zip.File
	for _, file := range reader.File {
		if file.Name == "bike-service.db" {
			dbEntry = file
		}
	}
	require.NotNil(t, dbEntry)
	assert.Zero(t, dbEntry.UncompressedSize64)

	// The live database did get the schema sync.
	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}
