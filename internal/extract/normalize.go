package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/omriShneor/schedule_bot/internal/timeutil"
)

// strictTimestamp is the only shape accepted for timestamps in edit changes.
var strictTimestamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)

type rawObject map[string]any

func decode(raw json.RawMessage) (rawObject, error) {
	var obj rawObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode oracle answer: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("oracle answer is not an object")
	}
	return obj, nil
}

// text returns the trimmed string under key. JSON null, non-strings, blank
// strings and the literal "null" are all absent.
func (o rawObject) text(key string) *string {
	v, ok := o[key].(string)
	if !ok {
		return nil
	}
	return Clean(v)
}

// Clean maps placeholder values to nil and trims the rest.
func Clean(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "null") || strings.EqualFold(v, "none") {
		return nil
	}
	return &v
}

func (o rawObject) wallClock(key string) (*time.Time, error) {
	s := o.text(key)
	if s == nil {
		return nil, nil
	}
	t, err := timeutil.ParseWallClock(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (o rawObject) strictWallClock(key string) (*time.Time, error) {
	s := o.text(key)
	if s == nil {
		return nil, nil
	}
	if !strictTimestamp.MatchString(*s) {
		return nil, fmt.Errorf("timestamp %q does not match YYYY-MM-DDTHH:MM:SS", *s)
	}
	t, err := time.ParseInLocation(timeutil.ISOLayout, *s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("timestamp %q is not a calendar instant: %w", *s, err)
	}
	return &t, nil
}

func (o rawObject) date(key string) (*time.Time, error) {
	s := o.text(key)
	if s == nil {
		return nil, nil
	}
	d, err := timeutil.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (o rawObject) clock(key string) (*timeutil.Clock, error) {
	s := o.text(key)
	if s == nil {
		return nil, nil
	}
	c, err := timeutil.ParseClock(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
