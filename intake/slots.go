package intake

import (
	"slices"
	"time"
)

// Slots are the bookable session start times, in display form.
var Slots = []string{
	"10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM",
	"04:00 PM", "04:30 PM", "05:00 PM",
}

func IsSlot(s string) bool { return slices.Contains(Slots, s) }

const dateLayout = "2006-01-02"

// Calendar decides which dates can be booked.
type Calendar struct {
	Location *time.Location
	Closed   time.Weekday
	Now      func() time.Time
}

// DefaultCalendar is closed on Sundays and runs on UTC.
func DefaultCalendar() Calendar {
	return Calendar{Location: time.UTC, Closed: time.Sunday, Now: time.Now}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Calendar) today() time.Time {
	loc := c.location()
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	y, m, d := now().In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Bookable reports why date cannot be booked, or "" when it can.
func (c Calendar) Bookable(date string) string {
	day, err := time.ParseInLocation(dateLayout, date, c.location())
	if err != nil {
		return "must be a date in YYYY-MM-DD form"
	}
	if day.Before(c.today()) {
		return "must be today or later"
	}
	if day.Weekday() == c.Closed {
		return "falls on a day without sessions"
	}
	return ""
}

// AvailableDates lists the next n bookable dates starting today.
func (c Calendar) AvailableDates(n int) []string {
	out := make([]string, 0, n)
	for day := c.today(); len(out) < n; day = day.AddDate(0, 0, 1) {
		if day.Weekday() != c.Closed {
			out = append(out, day.Format(dateLayout))
		}
	}
	return out
}
