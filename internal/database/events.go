package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// ErrEmptyUpdate is returned when an update carries no fields.
var ErrEmptyUpdate = errors.New("no fields to update")

// Event is a committed calendar entry. Timestamps are zone-less wall clock
// readings carried in UTC.
type Event struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	StartTime   time.Time  `db:"start_datetime"`
	EndTime     *time.Time `db:"end_datetime"`
	Place       *string    `db:"place"`
	IsWeekly    bool       `db:"is_weekly"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

var eventColumns = []string{
	"id", "user_id", "title", "description", "start_datetime", "end_datetime",
	"place", "is_weekly", "created_at", "updated_at",
}

// EventFilter narrows ListEvents. Zero-valued fields are not applied.
type EventFilter struct {
	UserID        int64
	StartAt       *time.Time
	StartFrom     *time.Time
	StartTo       *time.Time
	TitleContains *string
	Weekly        *bool
	Descending    bool
	Limit         uint64
}

// EventUpdate is a partial update. Nil fields are left untouched.
type EventUpdate struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Place       *string
}

// IsEmpty reports whether the update changes nothing.
func (u EventUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.StartTime == nil && u.EndTime == nil && u.Place == nil
}

// CreateEvent inserts event and fills in its ID.
// The event must have UserID set
func (d *DB) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	if strings.TrimSpace(event.Title) == "" {
		return nil, errors.New("event title is required")
	}
	if event.StartTime.IsZero() {
		return nil, errors.New("event start is required")
	}

	now := time.Now().UTC().Truncate(time.Second)
	qb := d.builder.
		Insert(eventsTable).
		Columns("user_id", "title", "title_folded", "description", "start_datetime",
			"end_datetime", "place", "is_weekly", "created_at", "updated_at").
		Values(event.UserID, event.Title, fold(event.Title), event.Description, wallClock(event.StartTime),
			wallClockPtr(event.EndTime), event.Place, event.IsWeekly, now, now).
		Suffix("RETURNING id")

	var id int64
	if err := d.get(ctx, &id, qb); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	event.ID = id
	event.CreatedAt = now
	event.UpdatedAt = now
	return event, nil
}

// GetEventByID returns one of the user's events.
func (d *DB) GetEventByID(ctx context.Context, userID, id int64) (*Event, error) {
	qb := d.builder.
		Select(eventColumns...).
		From(eventsTable).
		Where(sq.Eq{"id": id, "user_id": userID})

	var e Event
	if err := d.get(ctx, &e, qb); err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return &e, nil
}

// ListEvents returns the user's events matching f ordered by start.
func (d *DB) ListEvents(ctx context.Context, f EventFilter) ([]Event, error) {
	qb := d.builder.
		Select(eventColumns...).
		From(eventsTable).
		Where(sq.Eq{"user_id": f.UserID})

	if f.StartAt != nil {
		qb = qb.Where(sq.Eq{"start_datetime": wallClock(*f.StartAt)})
	}
	if f.StartFrom != nil {
		qb = qb.Where(sq.GtOrEq{"start_datetime": wallClock(*f.StartFrom)})
	}
	if f.StartTo != nil {
		qb = qb.Where(sq.LtOrEq{"start_datetime": wallClock(*f.StartTo)})
	}
	if f.TitleContains != nil {
		qb = qb.Where(sq.Expr(`title_folded LIKE ? ESCAPE '\'`, "%"+escapeLike(fold(*f.TitleContains))+"%"))
	}
	if f.Weekly != nil {
		qb = qb.Where(sq.Eq{"is_weekly": *f.Weekly})
	}

	if f.Descending {
		qb = qb.OrderBy("start_datetime DESC", "id DESC")
	} else {
		qb = qb.OrderBy("start_datetime ASC", "id ASC")
	}
	if f.Limit > 0 {
		qb = qb.Limit(f.Limit)
	}

	var events []Event
	if err := d.selectAll(ctx, &events, qb); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// UpdateEvent applies a partial update to one of the user's events.
func (d *DB) UpdateEvent(ctx context.Context, userID, id int64, u EventUpdate) error {
	if u.IsEmpty() {
		return ErrEmptyUpdate
	}

	set := map[string]interface{}{
		"updated_at": time.Now().UTC().Truncate(time.Second),
	}
	if u.Title != nil {
		set["title"] = *u.Title
		set["title_folded"] = fold(*u.Title)
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.StartTime != nil {
		set["start_datetime"] = wallClock(*u.StartTime)
	}
	if u.EndTime != nil {
		set["end_datetime"] = wallClock(*u.EndTime)
	}
	if u.Place != nil {
		set["place"] = *u.Place
	}

	qb := d.builder.
		Update(eventsTable).
		SetMap(set).
		Where(sq.Eq{"id": id, "user_id": userID})

	result, err := d.exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("failed to update event %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update event %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteEvents removes the listed events owned by the user and returns how
// many rows went away.
func (d *DB) DeleteEvents(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	qb := d.builder.
		Delete(eventsTable).
		Where(sq.Eq{"id": ids, "user_id": userID})

	result, err := d.exec(ctx, qb)
	if err != nil {
		return 0, fmt.Errorf("failed to delete events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted events: %w", err)
	}
	return n, nil
}

// fold lowercases with full Unicode rules; SQLite's lower() is ASCII only.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// wallClock keeps the reading of t and drops its zone.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func wallClockPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	w := wallClock(*t)
	return &w
}
