package calendar

import (
	"slices"
	"time"

	"github.com/borgmon/zooom/pkg/models"
)

// OccursOn reports whether the recurrence schedules a meeting on now's calendar date.
func OccursOn(r models.Recurrence, now time.Time) bool {
	switch r.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyOnce:
		return r.Date == models.DateOf(now)
	case models.FrequencyWeekly:
		return slices.Contains(r.Weekdays, now.Weekday())
	default:
		return false
	}
}

// InWindow applies the time-of-day gate: the meeting is in session when
// start - now <= buffer.Start and end - now >= buffer.End.
// A meeting whose start is after its end never satisfies both sides under
// non-negative buffers.
func InWindow(m models.Meeting, now time.Time, buffer models.Buffer) bool {
	clock := models.ClockOf(now)
	return m.Start.Sub(clock) <= buffer.Start && m.End.Sub(clock) >= buffer.End
}

// IsActive reports whether m is in session at now. now is the local date and
// time; callers pass time.Now() outside of tests.
func IsActive(m models.Meeting, now time.Time, buffer models.Buffer) bool {
	return OccursOn(m.Recurrence, now) && InWindow(m, now, buffer)
}
