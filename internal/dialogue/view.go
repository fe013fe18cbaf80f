package dialogue

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/omriShneor/schedule_bot/internal/database"
	"github.com/omriShneor/schedule_bot/internal/extract"
	"github.com/omriShneor/schedule_bot/internal/recurrence"
	"github.com/omriShneor/schedule_bot/internal/timeutil"
)

// Period is the window a view request resolves to.
type Period struct {
	StartDate time.Time
	EndDate   time.Time
	StartTime *timeutil.Clock
	EndTime   *timeutil.Clock
	ExactTime *timeutil.Clock

	From  time.Time
	To    time.Time
	Exact *time.Time
}

// NewPeriod turns an extracted range into a window. A missing bound date
// takes the other one. exact_time narrows the window to a single instant on
// the start date; otherwise start_time and end_time tighten the lower bound
// on the start date and the upper bound on the end date. A range given
// backwards is swapped along with its times. ok is false when neither date
// was extracted.
func NewPeriod(r extract.DateRange) (Period, bool) {
	if r.Failed() {
		return Period{}, false
	}

	p := Period{StartTime: r.StartTime, EndTime: r.EndTime, ExactTime: r.ExactTime}
	switch {
	case r.StartDate != nil && r.EndDate != nil:
		p.StartDate, p.EndDate = *r.StartDate, *r.EndDate
	case r.StartDate != nil:
		p.StartDate, p.EndDate = *r.StartDate, *r.StartDate
	default:
		p.StartDate, p.EndDate = *r.EndDate, *r.EndDate
	}
	if p.EndDate.Before(p.StartDate) {
		p.StartDate, p.EndDate = p.EndDate, p.StartDate
		p.StartTime, p.EndTime = p.EndTime, p.StartTime
	}

	p.From = timeutil.DayStart(p.StartDate)
	p.To = timeutil.DayEnd(p.EndDate)

	if r.ExactTime != nil {
		at := r.ExactTime.On(p.StartDate)
		p.Exact = &at
		return p, true
	}
	if p.StartTime != nil {
		p.From = p.StartTime.On(p.StartDate)
	}
	if p.EndTime != nil {
		p.To = p.EndTime.On(p.EndDate)
	}
	return p, true
}

// Contains reports whether an event starting at t falls in the period.
func (p Period) Contains(t time.Time) bool {
	if p.Exact != nil {
		return t.Equal(*p.Exact)
	}
	return !t.Before(p.From) && !t.After(p.To)
}

func (p Period) filter(userID int64) database.EventFilter {
	f := database.EventFilter{UserID: userID}
	if p.Exact != nil {
		f.StartAt = p.Exact
		return f
	}
	from, to := p.From, p.To
	f.StartFrom, f.StartTo = &from, &to
	return f
}

func (p Period) bounds() (time.Time, time.Time) {
	if p.Exact != nil {
		return *p.Exact, *p.Exact
	}
	return p.From, p.To
}

// Occurrence is one appearance of an event in a listing. Weekly events may
// appear several times with different starts.
type Occurrence struct {
	Event database.Event
	Start time.Time
}

// ListPeriod returns the user's events inside p ordered by start. Weekly
// events are expanded so every occurrence inside the period is listed,
// including those of series that began earlier.
func ListPeriod(ctx context.Context, finder EventFinder, userID int64, p Period) ([]Occurrence, error) {
	oneOff, weekly := false, true

	f := p.filter(userID)
	f.Weekly = &oneOff
	direct, err := finder.ListEvents(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list period: %w", err)
	}

	out := make([]Occurrence, 0, len(direct))
	for _, e := range direct {
		out = append(out, Occurrence{Event: e, Start: e.StartTime})
	}

	lower, upper := p.bounds()
	series, err := finder.ListEvents(ctx, database.EventFilter{UserID: userID, Weekly: &weekly, StartTo: &upper})
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly events: %w", err)
	}

	for _, e := range series {
		starts, err := recurrence.Occurrences(e.StartTime, lower, upper)
		if err != nil {
			return nil, err
		}
		for _, s := range starts {
			if p.Contains(s) {
				out = append(out, Occurrence{Event: e, Start: s})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].Event.ID < out[j].Event.ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}
