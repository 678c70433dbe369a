package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQL(t *testing.T) *sql.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count))
	return count > 0
}

func TestSQLMigratorUpAndRollback(t *testing.T) {
	ctx := context.Background()
	db := openSQL(t)
	dir := writeMigrations(t, map[string]string{
		"0001_pantry.sql":          "CREATE TABLE flours (id INTEGER PRIMARY KEY); CREATE TABLE sugars (id INTEGER PRIMARY KEY);",
		"0001_pantry_rollback.sql": "DROP TABLE sugars; DROP TABLE flours;",
		"0002_ovens.sql":           "CREATE TABLE ovens (id INTEGER PRIMARY KEY);",
		"0002_ovens_rollback.sql":  "DROP TABLE ovens;",
		"README.md":                "not a migration",
	})
	m := NewSQLMigrator(db, dir, zap.NewNop())

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_pantry.sql", "0002_ovens.sql"}, applied)
	assert.True(t, tableExists(t, db, "sugars"))
	assert.True(t, tableExists(t, db, "ovens"))

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	name, err := m.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0002_ovens.sql", name)
	assert.False(t, tableExists(t, db, "ovens"))
	assert.True(t, tableExists(t, db, "flours"))

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_ovens.sql"}, pending)
}

func TestSQLMigratorStopsAtBrokenMigration(t *testing.T) {
	ctx := context.Background()
	db := openSQL(t)
	dir := writeMigrations(t, map[string]string{
		"0001_ok.sql":     "CREATE TABLE bowls (id INTEGER PRIMARY KEY);",
		"0002_broken.sql": "CREATE TABLE whisks (id INTEGER PRIMARY KEY",
	})
	m := NewSQLMigrator(db, dir, zap.NewNop())

	_, err := m.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0002_broken.sql")

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_broken.sql"}, pending)
}

func TestSQLMigratorRollbackWithNothingApplied(t *testing.T) {
	m := NewSQLMigrator(openSQL(t), t.TempDir(), zap.NewNop())

	_, err := m.Rollback(context.Background())
	assert.ErrorIs(t, err, ErrNoMigrations)
}
