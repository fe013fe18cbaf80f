package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/sqlscan"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/omriShneor/schedule_bot/internal/database/migrations"
)

const (
	usersTable  = "users"
	eventsTable = "events"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type DB struct {
	*sql.DB
	dialect  migrations.Dialect
	builder  sq.StatementBuilderType
	migrated []migrations.Migration
}

// New opens the store named by dsn. postgres:// and postgresql:// URLs use
// the pgx driver; anything else is treated as a SQLite path.
func New(dsn string) (*DB, error) {
	dialect, driver, source := resolveDSN(dsn)

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == migrations.SQLite {
		// A single connection keeps :memory: databases coherent and
		// serializes writers.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrated, err := migrations.RunMigrations(db, dialect)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{
		DB:       db,
		dialect:  dialect,
		builder:  sq.StatementBuilder.PlaceholderFormat(placeholderFor(dialect)),
		migrated: migrated,
	}, nil
}

func placeholderFor(dialect migrations.Dialect) sq.PlaceholderFormat {
	if dialect == migrations.Postgres {
		return sq.Dollar
	}
	return sq.Question
}

func resolveDSN(dsn string) (migrations.Dialect, string, string) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return migrations.Postgres, "pgx", dsn
	}

	// Enable WAL mode for better concurrency, busy timeout to wait instead of failing,
	// and foreign keys for referential integrity
	params := "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return migrations.SQLite, "sqlite3", dsn + sep + params
}

// Dialect reports which SQL flavour the store speaks.
func (d *DB) Dialect() migrations.Dialect {
	return d.dialect
}

// Migrated lists the migrations applied when the store was opened.
func (d *DB) Migrated() []migrations.Migration {
	return d.migrated
}

// Ping checks the store is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.DB.Close()
}

type sqlizer interface {
	ToSql() (string, []interface{}, error)
}

func (d *DB) exec(ctx context.Context, q sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ToSql: %w", err)
	}
	return d.ExecContext(ctx, query, args...)
}

func (d *DB) get(ctx context.Context, dst interface{}, q sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("ToSql: %w", err)
	}
	if err := sqlscan.Get(ctx, d.DB, dst, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (d *DB) selectAll(ctx context.Context, dst interface{}, q sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("ToSql: %w", err)
	}
	return sqlscan.Select(ctx, d.DB, dst, query, args...)
}
