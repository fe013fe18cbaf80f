package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// User is a chat identity that owns events.
type User struct {
	ID         int64     `db:"id"`
	TelegramID string    `db:"telegram_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// GetOrCreateUser returns the internal id for telegramID, inserting a row on
// first contact.
func (d *DB) GetOrCreateUser(ctx context.Context, telegramID string) (int64, error) {
	insert := d.builder.
		Insert(usersTable).
		Columns("telegram_id").
		Values(telegramID).
		Suffix("ON CONFLICT (telegram_id) DO NOTHING")

	if _, err := d.exec(ctx, insert); err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	user, err := d.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// GetUserByTelegramID looks a user up by chat identity.
func (d *DB) GetUserByTelegramID(ctx context.Context, telegramID string) (*User, error) {
	qb := d.builder.
		Select("id", "telegram_id", "created_at").
		From(usersTable).
		Where(sq.Eq{"telegram_id": telegramID})

	var u User
	if err := d.get(ctx, &u, qb); err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", telegramID, err)
	}
	return &u, nil
}
