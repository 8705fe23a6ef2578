package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/borgmon/zooom/pkg/models"
)

const fixture = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//calendar//EN
BEGIN:VEVENT
UID:standup
DTSTAMP:20240101T000000Z
SUMMARY:Standup
DTSTART:20240506T090000
DTEND:20240506T091500
RRULE:FREQ=WEEKLY;BYDAY=MO,TH
LOCATION:https://us02web.zoom.us/j/123456789?pwd=s3cret
END:VEVENT
BEGIN:VEVENT
UID:review
DTSTAMP:20240101T000000Z
SUMMARY:Design review
DTSTART:20240507T140000
DURATION:PT1H
DESCRIPTION:Join: https://zoom.us/j/987654321
END:VEVENT
BEGIN:VEVENT
UID:sync
DTSTAMP:20240101T000000Z
SUMMARY:Team sync
DTSTART:20240508T100000
DTEND:20240508T103000
RRULE:FREQ=DAILY
URL:zoommtg://zoom.us/join?confno=555&pwd=abc
END:VEVENT
BEGIN:VEVENT
UID:weekly-no-byday
DTSTAMP:20240101T000000Z
SUMMARY:Retro
DTSTART:20240510T160000
DTEND:20240510T170000
RRULE:FREQ=WEEKLY
LOCATION:https://zoom.us/j/444
END:VEVENT
BEGIN:VEVENT
UID:holiday
DTSTAMP:20240101T000000Z
SUMMARY:Holiday
DTSTART;VALUE=DATE:20240527
LOCATION:https://zoom.us/j/1
END:VEVENT
BEGIN:VEVENT
UID:cancelled
DTSTAMP:20240101T000000Z
SUMMARY:Canceled: Planning
DTSTART:20240509T090000
DTEND:20240509T100000
LOCATION:https://zoom.us/j/2
END:VEVENT
BEGIN:VEVENT
UID:in-person
DTSTAMP:20240101T000000Z
SUMMARY:Lunch
DTSTART:20240509T120000
DTEND:20240509T130000
LOCATION:Cafeteria
END:VEVENT
BEGIN:VEVENT
UID:fortnightly
DTSTAMP:20240101T000000Z
SUMMARY:1:1
DTSTART:20240509T150000
DTEND:20240509T153000
RRULE:FREQ=WEEKLY;INTERVAL=2
LOCATION:https://zoom.us/j/3
END:VEVENT
END:VCALENDAR
`

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func TestDecodeMeetings(t *testing.T) {
	meetings, err := DecodeMeetings(zap.NewNop(), strings.NewReader(crlf(fixture)))
	require.NoError(t, err)

	want := []models.Meeting{
		{
			Name:          "Standup",
			Recurrence:    models.Weekly(time.Monday, time.Thursday),
			Start:         models.NewTimeOfDay(9, 0, 0),
			End:           models.NewTimeOfDay(9, 15, 0),
			MeetingNumber: "123456789",
			Passcode:      "s3cret",
		},
		{
			Name:          "Design review",
			Recurrence:    models.Once(models.Date{Year: 2024, Month: time.May, Day: 7}),
			Start:         models.NewTimeOfDay(14, 0, 0),
			End:           models.NewTimeOfDay(15, 0, 0),
			MeetingNumber: "987654321",
		},
		{
			Name:          "Team sync",
			Recurrence:    models.Daily(),
			Start:         models.NewTimeOfDay(10, 0, 0),
			End:           models.NewTimeOfDay(10, 30, 0),
			MeetingNumber: "555",
			Passcode:      "abc",
		},
		{
			Name:          "Retro",
			Recurrence:    models.Weekly(time.Friday),
			Start:         models.NewTimeOfDay(16, 0, 0),
			End:           models.NewTimeOfDay(17, 0, 0),
			MeetingNumber: "444",
		},
	}
	assert.Equal(t, want, meetings)
}

func TestDecodeMeetingsRejectsNonCalendar(t *testing.T) {
	_, err := DecodeMeetings(zap.NewNop(), strings.NewReader(`{"meetings": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BEGIN:VCALENDAR")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	meetings := []models.Meeting{
		{
			Name:          "Standup",
			Recurrence:    models.Daily(),
			Start:         models.NewTimeOfDay(9, 0, 0),
			End:           models.NewTimeOfDay(9, 15, 0),
			MeetingNumber: "123456789",
			Passcode:      "s3cret",
		},
		{
			Name:          "Planning, quarterly",
			Recurrence:    models.Weekly(time.Tuesday, time.Friday),
			Start:         models.NewTimeOfDay(13, 30, 0),
			End:           models.NewTimeOfDay(14, 45, 30),
			MeetingNumber: "42",
		},
		{
			Name:          "Offsite",
			Recurrence:    models.Once(models.Date{Year: 2024, Month: time.June, Day: 3}),
			Start:         models.NewTimeOfDay(8, 0, 0),
			End:           models.NewTimeOfDay(17, 0, 0),
			MeetingNumber: "777",
			Passcode:      "p&q",
		},
	}

	var buf bytes.Buffer
	anchor := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.Local)
	require.NoError(t, EncodeMeetings(&buf, meetings, anchor))
	assert.Contains(t, buf.String(), "PRODID:"+productID)

	decoded, err := DecodeMeetings(zap.NewNop(), &buf)
	require.NoError(t, err)
	assert.Equal(t, meetings, decoded)
}

func TestFirstOccurrence(t *testing.T) {
	anchor := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.Local) // Wednesday

	got := firstOccurrence(models.Weekly(time.Monday), anchor)
	assert.Equal(t, time.Date(2024, time.May, 6, 0, 0, 0, 0, time.Local), got)

	got = firstOccurrence(models.Daily(), anchor)
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.Local), got)

	got = firstOccurrence(models.Once(models.Date{Year: 2023, Month: time.December, Day: 24}), anchor)
	assert.Equal(t, time.Date(2023, time.December, 24, 0, 0, 0, 0, time.Local), got)
}

func TestExtractZoomMeeting(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		number   string
		passcode string
		ok       bool
	}{
		{"web link", "https://zoom.us/j/123456789", "123456789", "", true},
		{"vanity host with passcode", "Join https://acme.zoom.us/j/987?pwd=xyz now", "987", "xyz", true},
		{"webinar path", "https://zoom.us/w/555?tk=abc", "555", "", true},
		{"join scheme", "zoommtg://zoom.us/join?confno=42&pwd=p", "42", "p", true},
		{"first usable link wins", "https://zoom.us/signin then https://zoom.us/j/1?pwd=a", "1", "a", true},
		{"no link", "Room 4B", "", "", false},
		{"other provider", "https://meet.example.com/j/123", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, passcode, ok := extractZoomMeeting(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.number, number)
			assert.Equal(t, tt.passcode, passcode)
		})
	}
}

func TestIsCancelledTitle(t *testing.T) {
	assert.True(t, isCancelledTitle("Cancelled: Standup"))
	assert.True(t, isCancelledTitle("[CANCELED] Standup"))
	assert.False(t, isCancelledTitle("Standup (not cancelled)"))
}
