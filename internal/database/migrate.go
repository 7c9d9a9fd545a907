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

	"eduassist/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator applies versioned SQL files to Oracle. Files are read through a
// golang-migrate source driver; applied versions are tracked in
// schema_migrations.
type Migrator struct {
	db  *sqlx.DB
	src source.Driver
}

// NewMigrator uses the embedded migrations.
func NewMigrator(db *sqlx.DB) (*Migrator, error) {
	return NewMigratorFromFS(db, migrationsFS, "migrations")
}

func NewMigratorFromFS(db *sqlx.DB, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("could not open migration source: %w", err)
	}
	return &Migrator{db: db, src: src}, nil
}

func (m *Migrator) Close() error {
	return m.src.Close()
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	var count int
	if err := m.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`); err != nil {
		return fmt.Errorf("could not inspect schema_migrations: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err := m.db.ExecContext(ctx,
		`CREATE TABLE schema_migrations (version NUMBER(19) PRIMARY KEY, applied_at TIMESTAMP DEFAULT SYSTIMESTAMP NOT NULL)`)
	if err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

// Version returns the highest applied version, 0 when none.
func (m *Migrator) Version(ctx context.Context) (uint, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}
	var version sql.NullInt64
	if err := m.db.GetContext(ctx, &version, `SELECT MAX(version) FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("could not read migration version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return uint(version.Int64), nil
}

// Up applies every migration newer than the current version and returns
// the number applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	current, err := m.Version(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	version, err := m.src.First()
	for err == nil {
		if version > current {
			if err := m.apply(ctx, version, true); err != nil {
				return applied, err
			}
			applied++
		}
		version, err = m.src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return applied, fmt.Errorf("could not list migrations: %w", err)
	}
	return applied, nil
}

// Down reverts the most recently applied migration. It is a no-op at
// version 0.
func (m *Migrator) Down(ctx context.Context) error {
	current, err := m.Version(ctx)
	if err != nil {
		return err
	}
	if current == 0 {
		return nil
	}
	return m.apply(ctx, current, false)
}

func (m *Migrator) apply(ctx context.Context, version uint, up bool) error {
	var (
		rc         io.ReadCloser
		identifier string
		err        error
	)
	if up {
		rc, identifier, err = m.src.ReadUp(version)
	} else {
		rc, identifier, err = m.src.ReadDown(version)
	}
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}

	l := logger.Get()
	// Oracle DDL auto-commits, so statements run one by one outside a transaction.
	for _, stmt := range SplitStatements(string(content)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %d_%s: %w", version, identifier, err)
		}
	}

	if up {
		_, err = m.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (:1)`, version)
	} else {
		_, err = m.db.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = :1`, version)
	}
	if err != nil {
		return fmt.Errorf("could not record migration %d: %w", version, err)
	}

	direction := "down"
	if up {
		direction = "up"
	}
	l.Info("Executed migration",
		zap.Uint("version", version),
		zap.String("name", identifier),
		zap.String("direction", direction))
	return nil
}

// SplitStatements splits a migration file on ";" and drops blank
// statements and "--" comment lines.
func SplitStatements(content string) []string {
	var cleaned strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteString("\n")
	}

	var statements []string
	for _, stmt := range strings.Split(cleaned.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
