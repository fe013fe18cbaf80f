package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/omriShneor/schedule_bot/internal/database"
	"github.com/omriShneor/schedule_bot/internal/recurrence"
)

const productID = "-//schedule_bot//events export//EN"

// Filename is the name given to exported calendars.
const Filename = "events.ics"

// MIMEType is the content type of an exported calendar.
const MIMEType = "text/calendar"

// Export renders events as an iCalendar document. Stored wall clock times are
// interpreted in loc. stamp is written as DTSTAMP on every entry.
func Export(events []database.Event, loc *time.Location, stamp time.Time) string {
	if loc == nil {
		loc = time.UTC
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, e := range events {
		ev := cal.AddEvent(fmt.Sprintf("event-%d@schedule_bot", e.ID))
		ev.SetDtStampTime(stamp)
		ev.SetSummary(e.Title)

		start := inZone(e.StartTime, loc)
		ev.SetStartAt(start)
		if e.EndTime != nil {
			ev.SetEndAt(inZone(*e.EndTime, loc))
		}
		if e.Description != nil {
			ev.SetDescription(*e.Description)
		}
		if e.Place != nil {
			ev.SetLocation(*e.Place)
		}
		if e.IsWeekly {
			ev.AddRrule(recurrence.WeeklyRule(start))
		}
	}

	return cal.Serialize()
}

// inZone reads the wall clock of t as a time in loc.
func inZone(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}
