package extract

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/omriShneor/schedule_bot/internal/oracle"
)

// Oracle answers a prompt with a JSON object.
type Oracle interface {
	Ask(ctx context.Context, prompt string) (json.RawMessage, error)
}

// Extractor turns free text into typed, validated partial records. It never
// returns an error: anything the oracle cannot supply comes back as nil.
type Extractor struct {
	oracle Oracle
	logger *zap.SugaredLogger
}

// New creates an Extractor backed by oracle.
func New(oracle Oracle, logger *zap.SugaredLogger) *Extractor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Extractor{oracle: oracle, logger: logger}
}

func (x *Extractor) ask(ctx context.Context, kind, tmpl, text string, today time.Time) rawObject {
	raw, err := x.oracle.Ask(ctx, buildPrompt(tmpl, text, today))
	if err != nil {
		reason := "unknown"
		if failure, ok := oracle.IsFailure(err); ok {
			reason = failure.Kind.String()
		}
		x.logger.Warnw("oracle call failed", "extractor", kind, "reason", reason, "error", err)
		return nil
	}

	obj, err := decode(raw)
	if err != nil {
		x.logger.Warnw("oracle answer rejected", "extractor", kind, "error", err)
		return nil
	}
	return obj
}

func (x *Extractor) dropped(kind, field string, err error) {
	x.logger.Debugw("dropping invalid field", "extractor", kind, "field", field, "error", err)
}

// Event extracts a new event. Start and end accept date and time with either
// a 'T' or a space separator, with or without seconds.
func (x *Extractor) Event(ctx context.Context, text string, today time.Time) Fields {
	obj := x.ask(ctx, "event", eventPrompt, text, today)
	if obj == nil {
		return Fields{}
	}

	f := Fields{
		Title:       obj.text("event_title"),
		Description: obj.text("event_description"),
		Place:       obj.text("event_place"),
	}

	var err error
	if f.Start, err = obj.wallClock("start_datetime"); err != nil {
		x.dropped("event", "start_datetime", err)
	}
	if f.End, err = obj.wallClock("end_datetime"); err != nil {
		x.dropped("event", "end_datetime", err)
	}
	return f
}

// Range extracts the period of a view request. The caller should treat a
// result with Failed() as nothing extracted.
func (x *Extractor) Range(ctx context.Context, text string, today time.Time) DateRange {
	obj := x.ask(ctx, "range", rangePrompt, text, today)
	if obj == nil {
		return DateRange{}
	}

	var r DateRange
	var err error
	if r.StartDate, err = obj.date("start_date"); err != nil {
		x.dropped("range", "start_date", err)
	}
	if r.EndDate, err = obj.date("end_date"); err != nil {
		x.dropped("range", "end_date", err)
	}
	if r.StartTime, err = obj.clock("start_time"); err != nil {
		x.dropped("range", "start_time", err)
	}
	if r.EndTime, err = obj.clock("end_time"); err != nil {
		x.dropped("range", "end_time", err)
	}
	if r.ExactTime, err = obj.clock("exact_time"); err != nil {
		x.dropped("range", "exact_time", err)
	}
	return r
}

// Target extracts which stored event a delete or edit refers to.
func (x *Extractor) Target(ctx context.Context, text string, today time.Time) Target {
	obj := x.ask(ctx, "target", targetPrompt, text, today)
	if obj == nil {
		return Target{}
	}

	t := Target{Title: obj.text("event_title")}
	var err error
	if t.StartDate, err = obj.date("start_date"); err != nil {
		x.dropped("target", "start_date", err)
	}
	if t.ExactTime, err = obj.clock("exact_time"); err != nil {
		x.dropped("target", "exact_time", err)
	}
	return t
}

// Changes extracts proposed edits. Timestamps must be exactly
// YYYY-MM-DDTHH:MM:SS and name a real instant, otherwise they are dropped.
func (x *Extractor) Changes(ctx context.Context, text string, today time.Time) Fields {
	obj := x.ask(ctx, "changes", changesPrompt, text, today)
	if obj == nil {
		return Fields{}
	}

	f := Fields{
		Title:       obj.text("event_title"),
		Description: obj.text("event_description"),
		Place:       obj.text("event_place"),
	}

	var err error
	if f.Start, err = obj.strictWallClock("start_datetime"); err != nil {
		x.dropped("changes", "start_datetime", err)
	}
	if f.End, err = obj.strictWallClock("end_datetime"); err != nil {
		x.dropped("changes", "end_datetime", err)
	}
	return f
}
