package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database for testing.
// The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

var testUserCounter int64

// CreateTestUser creates a user with a unique Telegram id and returns its
// internal id.
func CreateTestUser(t *testing.T, db *DB) int64 {
	t.Helper()
	n := atomic.AddInt64(&testUserCounter, 1)

	id, err := db.GetOrCreateUser(context.Background(), fmt.Sprintf("tg-%d", n))
	require.NoError(t, err, "failed to create test user")
	return id
}

// CreateTestEvent stores an event for userID starting at start (ISO layout).
func CreateTestEvent(t *testing.T, db *DB, userID int64, title, start string) *Event {
	t.Helper()

	st, err := time.ParseInLocation("2006-01-02T15:04:05", start, time.UTC)
	require.NoError(t, err, "bad start fixture")

	e, err := db.CreateEvent(context.Background(), &Event{UserID: userID, Title: title, StartTime: st})
	require.NoError(t, err, "failed to create test event")
	return e
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// TimePtr returns a pointer to the given time
func TimePtr(t time.Time) *time.Time {
	return &t
}

// BoolPtr returns a pointer to the given bool
func BoolPtr(b bool) *bool {
	return &b
}
