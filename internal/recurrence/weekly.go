package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

func weeklyOption(start time.Time) rrule.ROption {
	return rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: start,
	}
}

// WeeklyRule returns the RRULE value for a series repeating every week on
// the weekday and time of its first occurrence.
func WeeklyRule(start time.Time) string {
	opt := weeklyOption(start)
	return opt.RRuleString()
}

// Occurrences lists the starts of a weekly series beginning at start that
// fall within [from, to], both ends inclusive.
func Occurrences(start, from, to time.Time) ([]time.Time, error) {
	if to.Before(from) {
		return nil, nil
	}

	rule, err := rrule.NewRRule(weeklyOption(start))
	if err != nil {
		return nil, fmt.Errorf("failed to build weekly rule: %w", err)
	}
	return rule.Between(from, to, true), nil
}
