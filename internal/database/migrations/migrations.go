package migrations

import (
	"database/sql"
	"fmt"
	"sort"
)

// Dialect selects the SQL flavour a migration must emit.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB, Dialect) error
}

// registry holds all registered migrations
var registry []Migration

// Register adds a migration to the registry
func Register(m Migration) {
	registry = append(registry, m)
}

// Pick returns the statement written for dialect.
func Pick(d Dialect, sqlite, postgres string) string {
	if d == Postgres {
		return postgres
	}
	return sqlite
}

// RunMigrations executes all pending migrations in order and returns the
// ones it applied.
func RunMigrations(db *sql.DB, dialect Dialect) ([]Migration, error) {
	// Create schema_migrations table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return nil, err
	}

	// Sort migrations by version
	sort.Slice(registry, func(i, j int) bool {
		return registry[i].Version < registry[j].Version
	})

	record := Pick(dialect,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)",
	)

	// Run pending migrations
	var ran []Migration
	for _, m := range registry {
		if applied[m.Version] {
			continue
		}

		if err := m.Up(db, dialect); err != nil {
			return ran, fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}

		if _, err := db.Exec(record, m.Version, m.Name); err != nil {
			return ran, fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		ran = append(ran, m)
	}

	return ran, nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
