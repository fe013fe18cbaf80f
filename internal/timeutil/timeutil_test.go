package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWallClock(t *testing.T) {
	want := time.Date(2025, 9, 20, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"iso seconds", "2025-09-20T15:00:00", false},
		{"iso minutes", "2025-09-20T15:00", false},
		{"space seconds", "2025-09-20 15:00:00", false},
		{"space minutes", " 2025-09-20 15:00 ", false},
		{"empty", "", true},
		{"single digit month", "2025-9-20 15:00", true},
		{"garbage", "tomorrow", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWallClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 18, Minute: 30}, c)

	c, err = ParseClock("07:05:09")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 7, Minute: 5, Second: 9}, c)
	assert.Equal(t, "07:05", c.String())

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestDayBounds(t *testing.T) {
	d := time.Date(2025, 9, 20, 13, 14, 15, 0, time.UTC)
	assert.Equal(t, "2025-09-20T00:00:00", FormatISO(DayStart(d)))
	assert.Equal(t, "2025-09-20T23:59:59", FormatISO(DayEnd(d)))
}

func TestToday(t *testing.T) {
	loc, fallback := ResolveLocation("Asia/Tokyo")
	require.False(t, fallback)

	now := time.Date(2025, 9, 20, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-09-21", Today(now, loc).Format(DateLayout))
	assert.Equal(t, "2025-09-20", Today(now, nil).Format(DateLayout))
}

func TestResolveLocation_Fallback(t *testing.T) {
	loc, fallback := ResolveLocation("Not/AZone")
	assert.True(t, fallback)
	assert.Equal(t, time.UTC, loc)
}
