package migrations

import (
	"database/sql"
	"fmt"
)

func init() {
	Register(Migration{
		Version: 2,
		Name:    "event_indexes",
		Up: func(db *sql.DB, _ Dialect) error {
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_events_user_start ON events(user_id, start_datetime)`,
				`CREATE INDEX IF NOT EXISTS idx_events_user_weekly ON events(user_id, is_weekly)`,
			}
			for _, stmt := range stmts {
				if _, err := db.Exec(stmt); err != nil {
					return fmt.Errorf("failed to create index: %w", err)
				}
			}
			return nil
		},
	})
}
