package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const rollbackSuffix = "_rollback.sql"

// ErrNoMigrations is returned by Rollback when nothing has been applied.
var ErrNoMigrations = errors.New("no migrations to roll back")

// SQLMigrator applies the raw SQL files in dir in lexical order and records
// each one in schema_migrations. Files named VERSION_name.sql are migrations;
// VERSION_name_rollback.sql undoes them.
type SQLMigrator struct {
	db  *sql.DB
	dir string
	log *zap.Logger
}

func NewSQLMigrator(db *sql.DB, dir string, log *zap.Logger) *SQLMigrator {
	return &SQLMigrator{db: db, dir: dir, log: log}
}

func (m *SQLMigrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(32) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

// Pending lists migration files that have not been applied yet.
func (m *SQLMigrator) Pending(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	files, err := m.files()
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, file := range files {
		var count int
		if err := m.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM schema_migrations WHERE version = $1", version(file)).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to check migration status: %w", err)
		}
		if count == 0 {
			pending = append(pending, file)
		}
	}
	return pending, nil
}

// Up applies every pending migration, each in its own transaction.
func (m *SQLMigrator) Up(ctx context.Context) ([]string, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	for _, file := range pending {
		m.log.Info("applying migration", zap.String("file", file))
		err := m.inTx(ctx, file, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", version(file), file)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}
	return pending, nil
}

// Rollback undoes the most recently applied migration and returns its name.
func (m *SQLMigrator) Rollback(ctx context.Context) (string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return "", err
	}

	var ver, name string
	err := m.db.QueryRowContext(ctx,
		"SELECT version, name FROM schema_migrations ORDER BY version DESC LIMIT 1").Scan(&ver, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoMigrations
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}

	rollback := strings.TrimSuffix(name, ".sql") + rollbackSuffix
	m.log.Info("rolling back migration", zap.String("file", rollback))
	err = m.inTx(ctx, rollback, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = $1", ver)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to roll back %s: %w", name, err)
	}
	return name, nil
}

// inTx runs the SQL in file and then record, committing only if both succeed.
func (m *SQLMigrator) inTx(ctx context.Context, file string, record func(*sql.Tx) error) error {
	content, err := os.ReadFile(filepath.Join(m.dir, file))
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := record(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (m *SQLMigrator) files() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func version(file string) string {
	return strings.SplitN(file, "_", 2)[0]
}
