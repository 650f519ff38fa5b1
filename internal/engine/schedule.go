package engine

import (
	"time"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

// ScheduleActiveAt reports whether the schedule covers the given local time:
// the weekday flag is set and start_time <= HH:MM <= end_time, bounds
// inclusive. Zero-padded "HH:MM" strings compare correctly as strings.
//
// Windows crossing midnight (start > end) never match after end_time; that is
// a documented limitation of the schedule format, not corrected here.
func ScheduleActiveAt(s *models.Schedule, now time.Time) bool {
	if !s.Day(now.Weekday()) {
		return false
	}
	hm := now.Format("15:04")
	return hm >= s.StartTime && hm <= s.EndTime
}
