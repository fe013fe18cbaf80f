package extract

import (
	"time"

	"github.com/omriShneor/schedule_bot/internal/timeutil"
)

// Fields is an event shape where every field may be absent. It is used for
// both creation output and proposed edit changes.
type Fields struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Place       *string
}

// IsEmpty reports whether no field was extracted.
func (f Fields) IsEmpty() bool {
	return f.Title == nil && f.Description == nil && f.Start == nil && f.End == nil && f.Place == nil
}

// DateRange is the period a view request asks about.
type DateRange struct {
	StartDate *time.Time
	EndDate   *time.Time
	StartTime *timeutil.Clock
	EndTime   *timeutil.Clock
	ExactTime *timeutil.Clock
}

// Failed reports whether neither bound date could be determined.
func (r DateRange) Failed() bool {
	return r.StartDate == nil && r.EndDate == nil
}

// Target identifies a stored event for delete or edit.
type Target struct {
	Title     *string
	StartDate *time.Time
	ExactTime *timeutil.Clock
}

// IsEmpty reports whether the target carries no signal at all.
func (t Target) IsEmpty() bool {
	return t.Title == nil && t.StartDate == nil && t.ExactTime == nil
}
