package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/omriShneor/schedule_bot/internal/mocks"
	"github.com/omriShneor/schedule_bot/internal/oracle"
	"github.com/omriShneor/schedule_bot/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var today = time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)

func answering(t *testing.T, answer string) *Extractor {
	t.Helper()
	m := new(mocks.MockOracle)
	m.On("Ask", mock.Anything, mock.Anything).Return(answer, nil)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return New(m, nil)
}

func failing(t *testing.T, err error) *Extractor {
	t.Helper()
	m := new(mocks.MockOracle)
	m.On("Ask", mock.Anything, mock.Anything).Return(nil, err)
	return New(m, nil)
}

func ts(s string) time.Time {
	t, err := time.ParseInLocation(timeutil.ISOLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEvent_FullAnswer(t *testing.T) {
	x := answering(t, `{
		"event_title": "Team sync",
		"event_description": "weekly planning",
		"start_datetime": "2025-09-20 15:00",
		"end_datetime": "2025-09-20T16:30:00",
		"event_place": "Zoom"
	}`)

	f := x.Event(context.Background(), "team sync on saturday 15-16:30 in zoom", today)

	require.NotNil(t, f.Title)
	assert.Equal(t, "Team sync", *f.Title)
	assert.Equal(t, "weekly planning", *f.Description)
	assert.Equal(t, "Zoom", *f.Place)
	require.NotNil(t, f.Start)
	assert.True(t, ts("2025-09-20T15:00:00").Equal(*f.Start))
	require.NotNil(t, f.End)
	assert.True(t, ts("2025-09-20T16:30:00").Equal(*f.End))
}

func TestEvent_NullPlaceholders(t *testing.T) {
	x := answering(t, `{
		"event_title": "Team sync",
		"event_description": "null",
		"start_datetime": null,
		"end_datetime": "",
		"event_place": "   "
	}`)

	f := x.Event(context.Background(), "team sync", today)

	require.NotNil(t, f.Title)
	assert.Nil(t, f.Description)
	assert.Nil(t, f.Start)
	assert.Nil(t, f.End)
	assert.Nil(t, f.Place)
}

func TestEvent_UnparseableStartDropped(t *testing.T) {
	x := answering(t, `{"event_title": "Demo", "start_datetime": "next friday"}`)

	f := x.Event(context.Background(), "demo next friday", today)

	assert.Equal(t, "Demo", *f.Title)
	assert.Nil(t, f.Start)
}

func TestEvent_NonStringValuesIgnored(t *testing.T) {
	x := answering(t, `{"event_title": 42, "event_place": ["a"]}`)

	f := x.Event(context.Background(), "x", today)
	assert.True(t, f.IsEmpty())
}

func TestEvent_PromptCarriesReferenceDate(t *testing.T) {
	m := new(mocks.MockOracle)
	m.On("Ask", mock.Anything, mock.MatchedBy(func(p string) bool {
		return assert.Contains(t, p, "2025-09-14 (Sunday)") && assert.Contains(t, p, "lunch tomorrow")
	})).Return(`{}`, nil)

	New(m, nil).Event(context.Background(), "lunch tomorrow", today)
	m.AssertExpectations(t)
}

func TestRange(t *testing.T) {
	x := answering(t, `{"start_date": "2025-09-20", "end_date": null, "start_time": null, "end_time": "null", "exact_time": "18:00"}`)

	r := x.Range(context.Background(), "sept 20 at 18:00", today)

	require.False(t, r.Failed())
	assert.Equal(t, "2025-09-20", r.StartDate.Format(timeutil.DateLayout))
	assert.Nil(t, r.EndDate)
	assert.Nil(t, r.StartTime)
	assert.Nil(t, r.EndTime)
	require.NotNil(t, r.ExactTime)
	assert.Equal(t, timeutil.Clock{Hour: 18}, *r.ExactTime)
}

func TestRange_BothDatesMissingIsFailure(t *testing.T) {
	x := answering(t, `{"start_date": null, "end_date": "someday", "start_time": "10:00"}`)

	r := x.Range(context.Background(), "whenever", today)
	assert.True(t, r.Failed())
	assert.NotNil(t, r.StartTime)
}

func TestTarget(t *testing.T) {
	x := answering(t, `{"event_title": "null", "start_date": "2025-09-20", "exact_time": "18:00"}`)

	tg := x.Target(context.Background(), "the one on the 20th at six", today)

	assert.Nil(t, tg.Title)
	assert.Equal(t, "2025-09-20", tg.StartDate.Format(timeutil.DateLayout))
	assert.Equal(t, "18:00", tg.ExactTime.String())
}

func TestChanges_StrictTimestamp(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantStart string
	}{
		{"canonical", "2025-09-15T19:00:00", "2025-09-15T19:00:00"},
		{"single digit month", "2025-9-5 19:00", ""},
		{"space separator", "2025-09-15 19:00:00", ""},
		{"missing seconds", "2025-09-15T19:00", ""},
		{"with zone", "2025-09-15T19:00:00Z", ""},
		{"impossible date", "2025-02-30T19:00:00", ""},
		{"impossible hour", "2025-09-15T25:00:00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := answering(t, `{"event_title": "Renamed", "start_datetime": "`+tt.value+`", "end_datetime": "`+tt.value+`"}`)

			f := x.Changes(context.Background(), "move it", today)

			assert.Equal(t, "Renamed", *f.Title)
			if tt.wantStart == "" {
				assert.Nil(t, f.Start)
				assert.Nil(t, f.End)
				return
			}
			require.NotNil(t, f.Start)
			assert.Equal(t, tt.wantStart, timeutil.FormatISO(*f.Start))
			require.NotNil(t, f.End)
		})
	}
}

func TestOracleFailure_AllNull(t *testing.T) {
	errs := []error{
		&oracle.Failure{Kind: oracle.Transport, Err: context.DeadlineExceeded},
		&oracle.Failure{Kind: oracle.Malformed, Err: errors.New("not json")},
		errors.New("unexpected"),
	}

	for _, err := range errs {
		t.Run(err.Error(), func(t *testing.T) {
			x := failing(t, err)
			ctx := context.Background()

			assert.True(t, x.Event(ctx, "anything", today).IsEmpty())
			assert.True(t, x.Changes(ctx, "anything", today).IsEmpty())
			assert.True(t, x.Target(ctx, "anything", today).IsEmpty())

			r := x.Range(ctx, "anything", today)
			assert.True(t, r.Failed())
			assert.Equal(t, DateRange{}, r)
		})
	}
}

func TestOracleFailure_LogsReason(t *testing.T) {
	tests := []struct {
		err    error
		reason string
	}{
		{&oracle.Failure{Kind: oracle.Transport, Err: context.DeadlineExceeded}, "transport"},
		{fmt.Errorf("ask: %w", &oracle.Failure{Kind: oracle.Malformed, Err: errors.New("not json")}), "malformed"},
		{errors.New("unexpected"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			m := new(mocks.MockOracle)
			m.On("Ask", mock.Anything, mock.Anything).Return(nil, tt.err)

			New(m, zap.New(core).Sugar()).Event(context.Background(), "anything", today)

			entries := logs.FilterMessage("oracle call failed").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.reason, entries[0].ContextMap()["reason"])
			assert.Equal(t, "event", entries[0].ContextMap()["extractor"])
		})
	}
}

func TestOracleAnswerNotObject(t *testing.T) {
	x := answering(t, `["not", "an", "object"]`)
	assert.True(t, x.Event(context.Background(), "x", today).IsEmpty())
}

func TestClean(t *testing.T) {
	for _, in := range []string{"", "  ", "null", "NULL", "None"} {
		assert.Nil(t, Clean(in), "input %q", in)
	}
	got := Clean("  Cafe  ")
	require.NotNil(t, got)
	assert.Equal(t, "Cafe", *got)
}
