package domain

import (
	"fmt"
	"time"
)

// Day represents a calendar day with the number of users who joined on it
type Day struct {
	Date  time.Time
	Count int
}

// DateString returns date in YYYY-MM-DD format
func (d Day) DateString() string {
	return d.Date.Format("2006-01-02")
}

// DisplayString returns a short label relative to now
func (d Day) DisplayString(now time.Time) string {
	date := d.Date

	if sameDay(date, now) {
		return "Today"
	}

	if sameDay(date, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}

	if date.Year() == now.Year() {
		return date.Format("Mon 2 Jan")
	}
	return date.Format("2 Jan 2006")
}

// ISOWeek returns the ISO week label of t, e.g. "2024-W07"
func ISOWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
