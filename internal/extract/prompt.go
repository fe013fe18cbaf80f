package extract

import (
	"fmt"
	"time"
)

const eventPrompt = `Extract a calendar event from the message.
Return ONLY a JSON object in exactly this shape:
{
  "event_title": "string",
  "event_description": "string or null",
  "start_datetime": "YYYY-MM-DD HH:MM or null",
  "end_datetime": "YYYY-MM-DD HH:MM or null",
  "event_place": "string (address, cafe, Zoom, ...) or null"
}

Resolve relative dates ("tomorrow", "on Monday") against today: %s.
If the end time is not given, leave end_datetime null.
If the place is not given, leave event_place null.
Never invent a value that is not in the message.

Message:
%s
`

const rangePrompt = `Determine the date and/or time range the message asks about.
Return ONLY a JSON object in exactly this shape:
{
  "start_date": "YYYY-MM-DD or null",
  "end_date": "YYYY-MM-DD or null",
  "start_time": "HH:MM or null",
  "end_time": "HH:MM or null",
  "exact_time": "HH:MM or null"
}
Today: %s

Examples:
- "on September 14 at 18:00" -> start_date=2025-09-14, exact_time=18:00
- "after 18:00 today" -> start_date=today, start_time=18:00
- "before 12:00 tomorrow" -> end_date=tomorrow, end_time=12:00
- "friday evening" -> start_date=friday, start_time=18:00, end_time=22:00

Message:
%s
`

const targetPrompt = `Determine which existing event the message refers to.
Return ONLY a JSON object in exactly this shape:
{
  "event_title": "event title or null",
  "start_date": "YYYY-MM-DD",
  "exact_time": "HH:MM or null"
}
Today: %s

Examples:
- "the event tomorrow at 12:00" -> start_date=tomorrow, exact_time=12:00, event_title=null
- "team meeting at 18:00" -> event_title="team meeting", exact_time=18:00
- "on September 14 at 10:30" -> start_date=2025-09-14, exact_time=10:30

Message:
%s
`

const changesPrompt = `Determine which fields of an event the message wants to change.
Return ONLY a JSON object containing the fields that change:
{
  "event_title": "new title or null",
  "event_description": "new description or null",
  "start_datetime": "new start as YYYY-MM-DDTHH:MM:SS or null",
  "end_datetime": "new end as YYYY-MM-DDTHH:MM:SS or null",
  "event_place": "new place or null"
}

For "move it to tomorrow at 19:00" with today 2025-09-14:
start_datetime = "2025-09-15T19:00:00"

Today: %s

Message:
%s
`

// todayRef renders the reference date with its weekday so relative
// expressions resolve against it.
func todayRef(today time.Time) string {
	return today.Format("2006-01-02 (Monday)")
}

func buildPrompt(tmpl, text string, today time.Time) string {
	return fmt.Sprintf(tmpl, todayRef(today), text)
}
