package calendar

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/borgmon/zooom/pkg/models"
)

var (
	errCancelled   = errors.New("cancelled")
	errAllDay      = errors.New("all-day event")
	errMissingTime = errors.New("missing start or end")
	errOvernight   = errors.New("spans midnight")
	errNoZoomLink  = errors.New("no zoom link")
)

var (
	zoomLinkRegex = regexp.MustCompile(`(?i)(?:https?|zoommtg)://[a-z0-9.-]*zoom\.us/[^\s<>"{}|\\^` + "`" + `]+`)
	zoomPathRegex = regexp.MustCompile(`/(?:j|w|s)/([^/?#]+)`)
	cleanTitle    = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

func parseEvent(comp *ical.Component) (models.Meeting, error) {
	m := models.Meeting{}

	if summary, err := comp.Props.Text(ical.PropSummary); err == nil {
		m.Name = strings.TrimSpace(summary)
	}

	if status := comp.Props.Get(ical.PropStatus); status != nil && strings.EqualFold(status.Value, "CANCELLED") {
		return m, errCancelled
	}
	if isCancelledTitle(m.Name) {
		return m, errCancelled
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return m, errMissingTime
	}
	if startProp.ValueType() == ical.ValueDate {
		return m, errAllDay
	}
	start, err := parseDateTimeProperty(startProp)
	if err != nil {
		return m, err
	}

	end, err := eventEnd(comp, start)
	if err != nil {
		return m, err
	}
	if models.DateOf(end) != models.DateOf(start) {
		return m, errOvernight
	}
	m.Start = models.ClockOf(start)
	m.End = models.ClockOf(end)

	m.Recurrence, err = parseRecurrence(comp, start)
	if err != nil {
		return m, err
	}

	number, passcode, ok := findZoomMeeting(comp)
	if !ok {
		return m, errNoZoomLink
	}
	m.MeetingNumber = number
	m.Passcode = passcode

	return m, nil
}

func eventEnd(comp *ical.Component, start time.Time) (time.Time, error) {
	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		return parseDateTimeProperty(endProp)
	}
	if durProp := comp.Props.Get(ical.PropDuration); durProp != nil {
		d, err := durProp.Duration()
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid DURATION: %w", err)
		}
		return start.Add(d), nil
	}
	return time.Time{}, errMissingTime
}

func parseDateTimeProperty(prop *ical.Prop) (time.Time, error) {
	// First try the standard DateTime method with local timezone
	if t, err := prop.DateTime(time.Local); err == nil {
		return t.In(time.Local), nil
	}

	formats := []string{
		"20060102T150405",
		"20060102T150405Z",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, prop.Value, time.Local); err == nil {
			return t.In(time.Local), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse %s value: %s", prop.Name, prop.Value)
}

var rruleWeekdays = map[int]time.Weekday{
	0: time.Monday,
	1: time.Tuesday,
	2: time.Wednesday,
	3: time.Thursday,
	4: time.Friday,
	5: time.Saturday,
	6: time.Sunday,
}

func parseRecurrence(comp *ical.Component, start time.Time) (models.Recurrence, error) {
	prop := comp.Props.Get(ical.PropRecurrenceRule)
	if prop == nil {
		return models.Once(models.DateOf(start)), nil
	}

	opt, err := rrule.StrToROption(prop.Value)
	if err != nil {
		return models.Recurrence{}, fmt.Errorf("invalid RRULE %q: %w", prop.Value, err)
	}
	if opt.Interval > 1 {
		return models.Recurrence{}, fmt.Errorf("unsupported RRULE %q: interval %d", prop.Value, opt.Interval)
	}

	switch opt.Freq {
	case rrule.DAILY:
		return models.Daily(), nil
	case rrule.WEEKLY:
		if len(opt.Byweekday) == 0 {
			return models.Weekly(start.Weekday()), nil
		}
		days := make([]time.Weekday, 0, len(opt.Byweekday))
		for i := range opt.Byweekday {
			days = append(days, rruleWeekdays[opt.Byweekday[i].Day()])
		}
		return models.Weekly(days...), nil
	default:
		return models.Recurrence{}, fmt.Errorf("unsupported RRULE %q", prop.Value)
	}
}

func findZoomMeeting(comp *ical.Component) (number, passcode string, ok bool) {
	for _, name := range []string{ical.PropURL, ical.PropLocation, ical.PropDescription} {
		text := propText(comp, name)
		if text == "" {
			continue
		}
		if number, passcode, ok = extractZoomMeeting(text); ok {
			return number, passcode, true
		}
	}
	return "", "", false
}

// propText returns the unescaped value of a TEXT property and the raw value
// of any other type, such as the URI-typed URL.
func propText(comp *ical.Component, name string) string {
	prop := comp.Props.Get(name)
	if prop == nil {
		return ""
	}
	if text, err := prop.Text(); err == nil {
		return text
	}
	return prop.Value
}

// extractZoomMeeting pulls the meeting number and passcode out of the first
// Zoom link in text. Both web links (zoom.us/j/<n>?pwd=<p>) and join links
// (zoommtg://zoom.us/join?confno=<n>&pwd=<p>) are recognised.
func extractZoomMeeting(text string) (number, passcode string, ok bool) {
	for _, match := range zoomLinkRegex.FindAllString(text, -1) {
		u, err := url.Parse(match)
		if err != nil {
			continue
		}
		query := u.Query()
		number = query.Get("confno")
		if number == "" {
			if sub := zoomPathRegex.FindStringSubmatch(u.Path); sub != nil {
				number = sub[1]
			}
		}
		if number != "" {
			return number, query.Get("pwd"), true
		}
	}
	return "", "", false
}

func isCancelledTitle(title string) bool {
	clean := cleanTitle.ReplaceAllString(strings.ToLower(title), "")
	return strings.HasPrefix(clean, "canceled") || strings.HasPrefix(clean, "cancelled")
}
