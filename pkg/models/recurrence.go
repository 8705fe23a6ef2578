package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Frequency names the recurrence variant of a meeting.
type Frequency string

const (
	FrequencyOnce   Frequency = "once"   // Active on a single calendar date
	FrequencyDaily  Frequency = "daily"  // Active every day
	FrequencyWeekly Frequency = "weekly" // Active on a set of weekdays
)

// Recurrence decides which calendar dates a meeting is scheduled on.
// Date is only meaningful for FrequencyOnce, Weekdays only for FrequencyWeekly.
type Recurrence struct {
	Frequency Frequency
	Date      Date
	Weekdays  []time.Weekday
}

// Once returns a recurrence active only on d.
func Once(d Date) Recurrence {
	return Recurrence{Frequency: FrequencyOnce, Date: d}
}

// Daily returns a recurrence active every day.
func Daily() Recurrence {
	return Recurrence{Frequency: FrequencyDaily}
}

// Weekly returns a recurrence active on the given weekdays.
func Weekly(days ...time.Weekday) Recurrence {
	return Recurrence{Frequency: FrequencyWeekly, Weekdays: days}
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekday accepts short ("Mon") and long ("Monday") names, case-insensitive.
func ParseWeekday(s string) (time.Weekday, error) {
	if d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// WeekdayName returns the three letter name used when encoding schedules.
func WeekdayName(d time.Weekday) string {
	return d.String()[:3]
}

// Validate reports a recurrence that can never be evaluated.
func (r Recurrence) Validate() error {
	switch r.Frequency {
	case FrequencyDaily:
		return nil
	case FrequencyOnce:
		if r.Date.IsZero() {
			return errors.New("once recurrence needs a date")
		}
		return nil
	case FrequencyWeekly:
		if len(r.Weekdays) == 0 {
			return errors.New("weekly recurrence needs at least one weekday")
		}
		return nil
	case "":
		return errors.New("recurrence is missing")
	default:
		return fmt.Errorf("unknown recurrence %q", r.Frequency)
	}
}

func (r Recurrence) String() string {
	switch r.Frequency {
	case FrequencyOnce:
		return "once " + r.Date.String()
	case FrequencyWeekly:
		names := make([]string, len(r.Weekdays))
		for i, d := range r.Weekdays {
			names[i] = WeekdayName(d)
		}
		return "weekly " + strings.Join(names, ",")
	default:
		return string(r.Frequency)
	}
}

// ParseRecurrence converts a decoded document value into a Recurrence.
// Accepted shapes: "daily", {"once": "2024-05-01"}, {"weekly": ["Mon", "Thu"]}.
func ParseRecurrence(v any) (Recurrence, error) {
	switch val := v.(type) {
	case Recurrence:
		return val, val.Validate()
	case string:
		if Frequency(strings.ToLower(strings.TrimSpace(val))) == FrequencyDaily {
			return Daily(), nil
		}
		return Recurrence{}, fmt.Errorf("recurrence %q needs a value, use a table like {once: ...} or {weekly: [...]}", val)
	case map[string]any:
		return parseRecurrenceTable(val)
	case map[any]any:
		table := make(map[string]any, len(val))
		for k, item := range val {
			table[fmt.Sprint(k)] = item
		}
		return parseRecurrenceTable(table)
	case nil:
		return Recurrence{}, errors.New("recurrence is missing")
	default:
		return Recurrence{}, fmt.Errorf("unsupported recurrence value of type %T", v)
	}
}

func parseRecurrenceTable(table map[string]any) (Recurrence, error) {
	if len(table) != 1 {
		return Recurrence{}, fmt.Errorf("recurrence must have exactly one of once, daily, weekly; got %d keys", len(table))
	}
	for key, value := range table {
		switch Frequency(strings.ToLower(key)) {
		case FrequencyDaily:
			return Daily(), nil
		case FrequencyOnce:
			d, err := dateValue(value)
			if err != nil {
				return Recurrence{}, fmt.Errorf("once: %w", err)
			}
			return Once(d), nil
		case FrequencyWeekly:
			days, err := weekdayValues(value)
			if err != nil {
				return Recurrence{}, fmt.Errorf("weekly: %w", err)
			}
			r := Weekly(days...)
			return r, r.Validate()
		default:
			return Recurrence{}, fmt.Errorf("unknown recurrence %q", key)
		}
	}
	return Recurrence{}, errors.New("recurrence is missing")
}

func dateValue(v any) (Date, error) {
	switch val := v.(type) {
	case string:
		return ParseDate(val)
	case time.Time:
		return DateOf(val), nil
	case Date:
		return val, nil
	default:
		return Date{}, fmt.Errorf("expected a YYYY-MM-DD date, got %T", v)
	}
}

func weekdayValues(v any) ([]time.Weekday, error) {
	var names []string
	switch val := v.(type) {
	case string:
		names = []string{val}
	case []string:
		names = val
	case []any:
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected weekday name, got %T", item)
			}
			names = append(names, s)
		}
	default:
		return nil, fmt.Errorf("expected a list of weekday names, got %T", v)
	}

	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		d, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

// document is the format-neutral encoded shape shared by every schedule codec.
func (r Recurrence) document() any {
	switch r.Frequency {
	case FrequencyOnce:
		return map[string]any{string(FrequencyOnce): r.Date.String()}
	case FrequencyWeekly:
		names := make([]string, len(r.Weekdays))
		for i, d := range r.Weekdays {
			names[i] = WeekdayName(d)
		}
		return map[string]any{string(FrequencyWeekly): names}
	default:
		return string(r.Frequency)
	}
}

func (r Recurrence) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.document())
}

func (r Recurrence) MarshalYAML() (any, error) {
	return r.document(), nil
}

// MarshalTOML writes the recurrence as a string or an inline table.
func (r Recurrence) MarshalTOML() ([]byte, error) {
	switch r.Frequency {
	case FrequencyOnce:
		return []byte(fmt.Sprintf(`{ once = %q }`, r.Date.String())), nil
	case FrequencyWeekly:
		quoted := make([]string, len(r.Weekdays))
		for i, d := range r.Weekdays {
			quoted[i] = fmt.Sprintf("%q", WeekdayName(d))
		}
		return []byte(fmt.Sprintf(`{ weekly = [%s] }`, strings.Join(quoted, ", "))), nil
	default:
		return []byte(fmt.Sprintf("%q", string(r.Frequency))), nil
	}
}
