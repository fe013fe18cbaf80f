package dialogue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omriShneor/schedule_bot/internal/timeutil"
)

func clock(t *testing.T, s string) *timeutil.Clock {
	t.Helper()
	c, err := timeutil.ParseClock(s)
	require.NoError(t, err)
	return &c
}

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := timeutil.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func titles(events []Occurrence) []string {
	out := make([]string, 0, len(events))
	for _, o := range events {
		out = append(out, o.Event.Title+"@"+timeutil.FormatISO(o.Start))
	}
	return out
}
