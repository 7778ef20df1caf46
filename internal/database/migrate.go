package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"ludora/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// EmbeddedSource returns the migrations compiled into the binary.
func EmbeddedSource() (source.Driver, error) {
	return iofs.New(migrationFS, "migrations")
}

const createVersionTable = `CREATE TABLE schema_migrations (
	version NUMBER(19) PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL
)`

// Migrator applies versioned up migrations read from a golang-migrate source.
// golang-migrate ships no Oracle database driver, so the version bookkeeping
// lives here; ordering, parsing of file names and reading are the source's.
type Migrator struct {
	db  *sqlx.DB
	src source.Driver
}

func NewMigrator(db *sqlx.DB, src source.Driver) *Migrator {
	return &Migrator{db: db, src: src}
}

// Up applies every migration newer than the recorded version. It returns the
// number of applied migrations.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}

	current, err := m.currentVersion(ctx)
	if err != nil {
		return 0, err
	}

	version, err := m.src.First()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read first migration: %w", err)
	}

	applied := 0
	for {
		if version > current {
			if err := m.apply(ctx, version); err != nil {
				return applied, err
			}
			applied++
		}

		next, err := m.src.Next(version)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				break
			}
			return applied, fmt.Errorf("failed to read migration after %d: %w", version, err)
		}
		version = next
	}

	logger.Get().Info("Migrations completed", zap.Int("applied", applied))
	return applied, nil
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	var count int
	if err := m.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`); err != nil {
		return fmt.Errorf("failed to check schema_migrations: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := m.db.ExecContext(ctx, createVersionTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) currentVersion(ctx context.Context) (uint, error) {
	var version sql.NullInt64
	if err := m.db.GetContext(ctx, &version, `SELECT MAX(version) FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return uint(version.Int64), nil
}

func (m *Migrator) apply(ctx context.Context, version uint) error {
	r, identifier, err := m.src.ReadUp(version)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// down-only version
			return nil
		}
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}

	for _, stmt := range SplitStatements(string(body)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", version, identifier, err)
		}
	}

	if _, err := m.db.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, applied_at) VALUES (:1, :2)`,
		int64(version), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}

	logger.Get().Info("Applied migration", zap.Uint("version", version), zap.String("name", identifier))
	return nil
}

// SplitStatements splits a script on ';' line endings. Oracle drivers execute
// one statement per call and reject the trailing semicolon.
func SplitStatements(script string) []string {
	var (
		stmts   []string
		current strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			current.WriteString(strings.TrimSuffix(trimmed, ";"))
			stmts = append(stmts, current.String())
			current.Reset()
			continue
		}
		current.WriteString(trimmed)
		current.WriteString("\n")
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
