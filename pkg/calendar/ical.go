package calendar

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/borgmon/zooom/pkg/models"
)

const productID = "-//borgmon//zooom//EN"

// DecodeMeetings reads an iCalendar document and converts each VEVENT it can
// represent into a Meeting. Events that cannot be joined as a scheduled Zoom
// meeting are skipped and logged.
func DecodeMeetings(log *zap.Logger, r io.Reader) ([]models.Meeting, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := validateICalFormat(string(body)); err != nil {
		return nil, err
	}

	decoder := ical.NewDecoder(strings.NewReader(string(body)))
	meetings := []models.Meeting{}
	skipped := 0

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			normalizeComponentTimezones(comp)

			m, err := parseEvent(comp)
			if err != nil {
				skipped++
				log.Warn("skipping calendar event", zap.String("event", m.Name), zap.Error(err))
				continue
			}
			meetings = append(meetings, m)
		}
	}

	log.Debug("calendar decoded", zap.Int("meetings", len(meetings)), zap.Int("skipped", skipped))
	return meetings, nil
}

func validateICalFormat(body string) error {
	trimmed := strings.TrimSpace(strings.TrimPrefix(body, "\ufeff"))
	if !strings.HasPrefix(strings.ToUpper(trimmed), "BEGIN:VCALENDAR") {
		previewLen := 40
		if len(trimmed) < previewLen {
			previewLen = len(trimmed)
		}
		return fmt.Errorf("invalid iCalendar format - expected BEGIN:VCALENDAR, got: %q", trimmed[:previewLen])
	}
	return nil
}

var rruleDays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// EncodeMeetings writes meetings as an iCalendar document. Recurring meetings
// are anchored on their first occurrence on or after anchor.
func EncodeMeetings(w io.Writer, meetings []models.Meeting, anchor time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, m := range meetings {
		day := firstOccurrence(m.Recurrence, anchor)

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, uuid.NewString())
		event.Props.SetDateTime(ical.PropDateTimeStamp, anchor.UTC())
		event.Props.SetText(ical.PropSummary, m.Name)
		event.Props.Set(floatingDateTime(ical.PropDateTimeStart, m.Start.On(day)))
		event.Props.Set(floatingDateTime(ical.PropDateTimeEnd, m.End.On(day)))
		event.Props.SetText(ical.PropLocation, webLink(m))

		if rule := recurrenceRule(m.Recurrence); rule != "" {
			prop := ical.NewProp(ical.PropRecurrenceRule)
			prop.Value = rule
			event.Props.Set(prop)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	return ical.NewEncoder(w).Encode(cal)
}

// floatingDateTime builds a DATE-TIME without TZID so it is read back in local time.
func floatingDateTime(name string, t time.Time) *ical.Prop {
	prop := ical.NewProp(name)
	prop.Value = t.Format("20060102T150405")
	return prop
}

func recurrenceRule(r models.Recurrence) string {
	switch r.Frequency {
	case models.FrequencyDaily:
		return (&rrule.ROption{Freq: rrule.DAILY}).RRuleString()
	case models.FrequencyWeekly:
		opt := &rrule.ROption{Freq: rrule.WEEKLY}
		for _, d := range r.Weekdays {
			opt.Byweekday = append(opt.Byweekday, rruleDays[d])
		}
		return opt.RRuleString()
	default:
		return ""
	}
}

func firstOccurrence(r models.Recurrence, anchor time.Time) time.Time {
	if r.Frequency == models.FrequencyOnce {
		return r.Date.In(time.Local)
	}
	day := models.DateOf(anchor).In(time.Local)
	for i := 0; i < 7; i++ {
		candidate := day.AddDate(0, 0, i)
		if OccursOn(r, candidate) {
			return candidate
		}
	}
	return day
}

func webLink(m models.Meeting) string {
	link := "https://zoom.us/j/" + url.PathEscape(m.MeetingNumber)
	if m.Passcode != "" {
		link += "?" + url.Values{"pwd": {m.Passcode}}.Encode()
	}
	return link
}
