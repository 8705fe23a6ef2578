package calendar

import (
	"time"

	"go.uber.org/zap"

	"github.com/borgmon/zooom/pkg/models"
)

// ActiveMeetings returns the meetings in session at now, preserving pool order.
func ActiveMeetings(log *zap.Logger, pool []models.Meeting, now time.Time, buffer models.Buffer) []models.Meeting {
	stats := &filterStats{total: len(pool)}
	active := make([]models.Meeting, 0, len(pool))

	for _, m := range pool {
		if shouldIncludeMeeting(log, m, now, buffer, stats) {
			active = append(active, m)
		}
	}

	stats.logSummary(log, len(active))
	return active
}

func shouldIncludeMeeting(log *zap.Logger, m models.Meeting, now time.Time, buffer models.Buffer, stats *filterStats) bool {
	if !OccursOn(m.Recurrence, now) {
		stats.filteredDate++
		log.Debug("filtered: not scheduled today",
			zap.String("meeting", m.Name),
			zap.Stringer("recurrence", m.Recurrence),
			zap.String("today", models.DateOf(now).String()))
		return false
	}

	if !InWindow(m, now, buffer) {
		stats.filteredWindow++
		log.Debug("filtered: outside window",
			zap.String("meeting", m.Name),
			zap.Stringer("start", m.Start),
			zap.Stringer("end", m.End),
			zap.Stringer("now", models.ClockOf(now)),
			zap.Duration("buffer_start", buffer.Start),
			zap.Duration("buffer_end", buffer.End))
		return false
	}

	log.Debug("included",
		zap.String("meeting", m.Name),
		zap.Stringer("start", m.Start),
		zap.Stringer("end", m.End))
	return true
}

type filterStats struct {
	total          int
	filteredDate   int
	filteredWindow int
}

func (s *filterStats) logSummary(log *zap.Logger, includedCount int) {
	log.Info("filter summary",
		zap.Int("total", s.total),
		zap.Int("included", includedCount),
		zap.Int("filtered_date", s.filteredDate),
		zap.Int("filtered_window", s.filteredWindow))
}
