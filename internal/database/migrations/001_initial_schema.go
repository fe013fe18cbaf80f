package migrations

import (
	"database/sql"
	"fmt"
)

func init() {
	Register(Migration{
		Version: 1,
		Name:    "initial_schema",
		Up:      initialSchema,
	})
}

var usersSchema = map[Dialect]string{
	SQLite: `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	Postgres: `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			telegram_id TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT now()
		)`,
}

var eventsSchema = map[Dialect]string{
	SQLite: `
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			title_folded TEXT NOT NULL,
			description TEXT,
			start_datetime TIMESTAMP NOT NULL,
			end_datetime TIMESTAMP,
			place TEXT,
			is_weekly BOOLEAN NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	Postgres: `
		CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			title_folded TEXT NOT NULL,
			description TEXT,
			start_datetime TIMESTAMP NOT NULL,
			end_datetime TIMESTAMP,
			place TEXT,
			is_weekly BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT now(),
			updated_at TIMESTAMP DEFAULT now()
		)`,
}

func initialSchema(db *sql.DB, d Dialect) error {
	if _, err := db.Exec(usersSchema[d]); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	if _, err := db.Exec(eventsSchema[d]); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}
	return nil
}
