package dialogue

import (
	"strings"
	"time"

	"github.com/omriShneor/schedule_bot/internal/database"
	"github.com/omriShneor/schedule_bot/internal/i18n"
	"github.com/omriShneor/schedule_bot/internal/timeutil"
)

const displayDate = "02.01.2006"

func (e *Engine) eventBlock(locale string, ev database.Event, start time.Time) string {
	lines := []string{e.tr.T(locale, i18n.EventLine, map[string]any{
		"Title": ev.Title,
		"When":  timeutil.FormatDisplay(start),
	})}
	if ev.Place != nil {
		lines = append(lines, e.tr.T(locale, i18n.EventPlace, map[string]any{"Place": *ev.Place}))
	}
	if ev.Description != nil {
		lines = append(lines, e.tr.T(locale, i18n.EventDescription, map[string]any{"Description": *ev.Description}))
	}
	if ev.IsWeekly {
		lines = append(lines, e.tr.T(locale, i18n.EventWeekly, nil))
	}
	return strings.Join(lines, "\n")
}

func (e *Engine) eventList(locale string, events []database.Event) string {
	blocks := make([]string, 0, len(events))
	for _, ev := range events {
		blocks = append(blocks, e.eventBlock(locale, ev, ev.StartTime))
	}
	return strings.Join(blocks, "\n\n")
}

func (e *Engine) collected(locale string, p PartialEvent) string {
	var lines []string
	add := func(key string, v *string) {
		if v != nil {
			lines = append(lines, e.tr.T(locale, key, map[string]any{"Value": *v}))
		}
	}
	add(i18n.CollectedTitle, p.Title)
	add(i18n.CollectedStart, displayPtr(p.Start))
	add(i18n.CollectedEnd, displayPtr(p.End))
	add(i18n.CollectedPlace, p.Place)
	add(i18n.CollectedDescription, p.Description)

	if len(lines) == 0 {
		return ""
	}
	return e.tr.T(locale, i18n.CollectedHeader, nil) + "\n" + strings.Join(lines, "\n")
}

// missingPrompt explains which required fields are absent and what has been
// gathered so far.
func (e *Engine) missingPrompt(locale string, missing []Field, p PartialEvent) string {
	var problem, ask string
	switch {
	case len(missing) == 2:
		problem, ask = i18n.MissingTitleAndStart, i18n.AskTitleAndStart
	case missing[0] == FieldTitle:
		problem, ask = i18n.MissingTitle, i18n.AskTitle
	default:
		problem, ask = i18n.MissingStart, i18n.AskStart
	}

	parts := []string{e.tr.T(locale, problem, nil)}
	if c := e.collected(locale, p); c != "" {
		parts = append(parts, c)
	}
	parts = append(parts, e.tr.T(locale, ask, nil))
	return strings.Join(parts, "\n\n")
}

func (e *Engine) diffText(locale string, diffs []FieldDiff) string {
	keys := map[Field]string{
		FieldTitle:       i18n.DiffTitle,
		FieldDescription: i18n.DiffDescription,
		FieldStart:       i18n.DiffStart,
		FieldEnd:         i18n.DiffEnd,
		FieldPlace:       i18n.DiffPlace,
	}
	notSet := e.tr.T(locale, i18n.NotSet, nil)

	lines := make([]string, 0, len(diffs))
	for _, d := range diffs {
		old := d.Old
		if old == "" {
			old = notSet
		}
		lines = append(lines, e.tr.T(locale, keys[d.Field], map[string]any{"Old": old, "New": d.New}))
	}
	return strings.Join(lines, "\n")
}

func (e *Engine) periodHeader(locale string, p Period, empty bool) string {
	date := p.StartDate.Format(displayDate)
	switch {
	case p.ExactTime != nil:
		data := map[string]any{"Date": date, "Time": p.ExactTime.String()}
		if empty {
			return e.tr.T(locale, i18n.NoEventsExact, data)
		}
		return e.tr.T(locale, i18n.EventsHeaderExact, data)
	case p.StartTime != nil && p.EndTime == nil && !empty:
		return e.tr.T(locale, i18n.EventsHeaderAfter, map[string]any{"Date": date, "Time": p.StartTime.String()})
	case p.EndTime != nil && p.StartTime == nil && !empty:
		return e.tr.T(locale, i18n.EventsHeaderBefore, map[string]any{"Date": date, "Time": p.EndTime.String()})
	}

	span := map[string]any{"From": date, "To": p.EndDate.Format(displayDate)}
	if !empty {
		return e.tr.T(locale, i18n.EventsHeaderSpan, span)
	}
	if p.StartDate.Equal(p.EndDate) {
		return e.tr.T(locale, i18n.NoEventsDay, map[string]any{"Date": date})
	}
	return e.tr.T(locale, i18n.NoEventsSpan, span)
}

func displayPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := timeutil.FormatDisplay(*t)
	return &s
}
