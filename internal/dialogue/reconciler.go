package dialogue

import (
	"time"

	"github.com/omriShneor/schedule_bot/internal/database"
	"github.com/omriShneor/schedule_bot/internal/extract"
	"github.com/omriShneor/schedule_bot/internal/timeutil"
)

// FieldDiff is one old → new change shown before an edit is confirmed.
// Old is empty when the stored field was unset. Start and end values carry
// only the time of day.
type FieldDiff struct {
	Field Field
	Old   string
	New   string
}

// Diff compares found against the proposed changes. Every present change is
// recorded and copied into the update payload. ok is false when nothing is
// present, in which case no confirmation should be asked for.
func Diff(found database.Event, changes extract.Fields) (diffs []FieldDiff, payload database.EventUpdate, ok bool) {
	if title := cleaned(changes.Title); title != nil {
		diffs = append(diffs, FieldDiff{Field: FieldTitle, Old: found.Title, New: *title})
		payload.Title = title
	}
	if desc := cleaned(changes.Description); desc != nil {
		diffs = append(diffs, FieldDiff{Field: FieldDescription, Old: deref(found.Description), New: *desc})
		payload.Description = desc
	}
	if changes.Start != nil {
		diffs = append(diffs, FieldDiff{Field: FieldStart, Old: clockOf(&found.StartTime), New: clockOf(changes.Start)})
		start := *changes.Start
		payload.StartTime = &start
	}
	if changes.End != nil {
		diffs = append(diffs, FieldDiff{Field: FieldEnd, Old: clockOf(found.EndTime), New: clockOf(changes.End)})
		end := *changes.End
		payload.EndTime = &end
	}
	if place := cleaned(changes.Place); place != nil {
		diffs = append(diffs, FieldDiff{Field: FieldPlace, Old: deref(found.Place), New: *place})
		payload.Place = place
	}

	return diffs, payload, !payload.IsEmpty()
}

func cleaned(s *string) *string {
	if s == nil {
		return nil
	}
	return extract.Clean(*s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func clockOf(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return timeutil.FormatClock(*t)
}
