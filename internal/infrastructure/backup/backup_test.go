package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/krodas7/constructora-backend/internal/infrastructure/config"
)

func sqliteRunner(t *testing.T) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "app.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("sqlite data"), 0644))

	backupDir := filepath.Join(dir, "backups")
	runner := NewRunner(config.DatabaseConfig{Driver: "sqlite", SQLitePath: dbPath}, backupDir, zap.NewNop())
	return runner, backupDir
}

func TestRunner_SqliteDump(t *testing.T) {
	runner, backupDir := sqliteRunner(t)

	path, err := runner.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, backupDir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite data", string(data))
}

func TestRunner_DryRunWritesNothing(t *testing.T) {
	runner, backupDir := sqliteRunner(t)

	_, err := runner.Run(context.Background(), true)
	require.NoError(t, err)

	_, err = os.Stat(backupDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunner_PruneKeepsNewest(t *testing.T) {
	runner, backupDir := sqliteRunner(t)
	require.NoError(t, os.MkdirAll(backupDir, 0755))

	names := []string{
		"backup-20260101-000000.db",
		"backup-20260102-000000.db",
		"backup-20260103-000000.db",
		"backup-20260104-000000.db",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(backupDir, name), []byte("x"), 0644))
	}

	removed, err := runner.Prune(2, false)
	require.NoError(t, err)
	require.Len(t, removed, 2)

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "backup-20260103-000000.db", entries[0].Name())
	assert.Equal(t, "backup-20260104-000000.db", entries[1].Name())
}

func TestRunner_PruneDryRun(t *testing.T) {
	runner, backupDir := sqliteRunner(t)
	require.NoError(t, os.MkdirAll(backupDir, 0755))
	for _, name := range []string{"backup-a.db", "backup-b.db", "backup-c.db"} {
		require.NoError(t, os.WriteFile(filepath.Join(backupDir, name), []byte("x"), 0644))
	}

	removed, err := runner.Prune(1, true)
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
