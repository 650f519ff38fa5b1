package models

import "time"

// ChannelFlags enables or disables a contact per delivery channel.
type ChannelFlags struct {
	SMS   bool `json:"sms"`
	Email bool `json:"email"`
}

// Schedule is a contact's weekly delivery window. StartTime and EndTime are
// zero-padded "HH:MM" local-time strings; the bounds are inclusive.
// Windows crossing midnight (start > end) are not supported.
type Schedule struct {
	Sunday    bool   `json:"sunday"`
	Monday    bool   `json:"monday"`
	Tuesday   bool   `json:"tuesday"`
	Wednesday bool   `json:"wednesday"`
	Thursday  bool   `json:"thursday"`
	Friday    bool   `json:"friday"`
	Saturday  bool   `json:"saturday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Day returns whether the schedule covers the given weekday.
func (s *Schedule) Day(d time.Weekday) bool {
	switch d {
	case time.Sunday:
		return s.Sunday
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	}
	return false
}

// FullWeek returns a schedule that covers every day around the clock.
func FullWeek() Schedule {
	return Schedule{
		Sunday: true, Monday: true, Tuesday: true, Wednesday: true,
		Thursday: true, Friday: true, Saturday: true,
		StartTime: "00:00", EndTime: "23:59",
	}
}

// Contact is a notification recipient maintained by administrators.
type Contact struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Phone    string       `json:"phone"`
	Email    string       `json:"email"`
	Groups   []string     `json:"groups"`
	Active   ChannelFlags `json:"active"`
	Schedule Schedule     `json:"schedule"`
}
