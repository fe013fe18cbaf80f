package dialogue

import (
	"context"
	"errors"
	"fmt"

	"github.com/omriShneor/schedule_bot/internal/database"
	"github.com/omriShneor/schedule_bot/internal/extract"
	"github.com/omriShneor/schedule_bot/internal/timeutil"
)

// ErrNotFound is returned when no stored event matches a target.
var ErrNotFound = errors.New("no matching event")

// Purpose selects how many matches a resolution keeps and whether the
// recency fallback applies.
type Purpose int

const (
	ForDelete Purpose = iota
	ForEdit
)

// EventFinder is the read side of the event store.
type EventFinder interface {
	ListEvents(ctx context.Context, f database.EventFilter) ([]database.Event, error)
}

// Resolve maps a target onto the user's stored events. Precedence, first
// match wins:
//
//  1. date and exact time: events starting at exactly that instant
//  2. title: case-insensitive substring, within the date's day when given
//  3. edit only: the most recent event by start
//  4. delete with only a date: every event that day
//
// Delete keeps all matches, edit keeps the first. ErrNotFound is returned
// when the chosen branch matches nothing.
func Resolve(ctx context.Context, finder EventFinder, userID int64, target extract.Target, purpose Purpose) ([]database.Event, error) {
	filter := database.EventFilter{UserID: userID}

	switch {
	case target.StartDate != nil && target.ExactTime != nil:
		at := target.ExactTime.On(*target.StartDate)
		filter.StartAt = &at

	case target.Title != nil:
		filter.TitleContains = target.Title
		if target.StartDate != nil {
			from, to := timeutil.DayStart(*target.StartDate), timeutil.DayEnd(*target.StartDate)
			filter.StartFrom, filter.StartTo = &from, &to
		}

	case purpose == ForEdit:
		filter.Descending = true

	case target.StartDate != nil:
		from, to := timeutil.DayStart(*target.StartDate), timeutil.DayEnd(*target.StartDate)
		filter.StartFrom, filter.StartTo = &from, &to

	default:
		return nil, ErrNotFound
	}

	if purpose == ForEdit {
		filter.Limit = 1
	}

	events, err := finder.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve event: %w", err)
	}
	if len(events) == 0 {
		return nil, ErrNotFound
	}
	return events, nil
}
