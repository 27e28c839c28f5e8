//go:build unit
// +build unit

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMigrateCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	root := &cobra.Command{Use: "bike-service-cli", SilenceUsage: true}
	require.NoError(t, InitMigrateCommands(root))

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	return root, out
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(previous) })
}

func TestSafeMigrate_MissingMigrationsDir(t *testing.T) {
	workspace := t.TempDir()
	chdir(t, workspace)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", "sqlite:///"+filepath.Join(workspace, "bike-service.db"))

	root, _ := newMigrateCommand(t)
	root.SetArgs([]string{"safe-migrate"})

	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations directory")
	// Nothing migrated, nothing backed up.
	_, statErr := os.Stat(filepath.Join(workspace, "backups"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSafeMigrate_UnresolvableDatabase(t *testing.T) {
	workspace := t.TempDir()
	chdir(t, workspace)
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, "migrations"), 0o750))
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", "")

	root, _ := newMigrateCommand(t)
	root.SetArgs([]string{"safe-migrate"})

	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database configuration not resolvable")
}
