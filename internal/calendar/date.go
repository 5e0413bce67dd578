package calendar

import (
	"cmp"
	"fmt"
	"time"
)

// Date is a civil calendar date, used as the day bucket key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// At returns the instant hour:00 of d in loc.
func (d Date) At(hour int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, 0, 0, 0, loc)
}

// AddDays returns the date n calendar days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// DaysUntil returns the number of calendar days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.At(0, time.UTC).Sub(d.At(0, time.UTC)).Hours() / 24)
}

func (d Date) Compare(other Date) int {
	if c := cmp.Compare(d.Year, other.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Month, other.Month); c != 0 {
		return c
	}
	return cmp.Compare(d.Day, other.Day)
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func (d Date) Weekday() time.Weekday {
	return d.At(0, time.UTC).Weekday()
}

// ISOWeek returns the ISO 8601 week d belongs to.
func (d Date) ISOWeek() Week {
	y, w := d.At(0, time.UTC).ISOWeek()
	return Week{Year: y, Week: w}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Week is an ISO 8601 (year, week) pair, used as the week bucket key.
type Week struct {
	Year int
	Week int
}

func (w Week) Compare(other Week) int {
	if c := cmp.Compare(w.Year, other.Year); c != 0 {
		return c
	}
	return cmp.Compare(w.Week, other.Week)
}

// String returns a label like "2008-W51".
func (w Week) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}
