package dialogue

import (
	"github.com/omriShneor/schedule_bot/internal/extract"
)

// Field names an event attribute.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldStart       Field = "start_datetime"
	FieldEnd         Field = "end_datetime"
	FieldPlace       Field = "place"
)

// Merge combines a freshly extracted partial with the one saved from earlier
// turns. For every field the fresh value wins when present; blank strings
// and the literal "null" count as absent. missing lists the required fields
// (title, then start) that are still nil after the merge.
func Merge(fresh, saved PartialEvent) (merged PartialEvent, missing []Field) {
	merged = PartialEvent{
		Title:       pickText(fresh.Title, saved.Title),
		Description: pickText(fresh.Description, saved.Description),
		Start:       saved.Start,
		End:         saved.End,
		Place:       pickText(fresh.Place, saved.Place),
		IsWeekly:    saved.IsWeekly || fresh.IsWeekly,
	}
	if fresh.Start != nil && !fresh.Start.IsZero() {
		merged.Start = fresh.Start
	}
	if fresh.End != nil && !fresh.End.IsZero() {
		merged.End = fresh.End
	}

	if merged.Title == nil {
		missing = append(missing, FieldTitle)
	}
	if merged.Start == nil {
		missing = append(missing, FieldStart)
	}
	return merged, missing
}

func pickText(fresh, saved *string) *string {
	if fresh != nil {
		if v := extract.Clean(*fresh); v != nil {
			return v
		}
	}
	if saved != nil {
		return extract.Clean(*saved)
	}
	return nil
}

// fromFields lifts creation extractor output into a PartialEvent.
func fromFields(f extract.Fields) PartialEvent {
	return PartialEvent{
		Title:       f.Title,
		Description: f.Description,
		Start:       f.Start,
		End:         f.End,
		Place:       f.Place,
	}
}
