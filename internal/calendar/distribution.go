package calendar

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// DefaultSplitHour is the hour at which a bucketing day starts.
const DefaultSplitHour = 4

// ErrIncompatible is returned when merging distributions that bucket days
// differently.
var ErrIncompatible = errors.New("incompatible distributions")

// DayTotal is the accumulated duration of one bucketing day.
type DayTotal struct {
	Date     Date          `json:"date"`
	Duration time.Duration `json:"duration"`
}

// WeekTotal is the accumulated duration of one ISO week.
type WeekTotal struct {
	Week     Week          `json:"week"`
	Duration time.Duration `json:"duration"`
}

// Distribution accumulates time intervals into day and ISO week buckets.
// A bucketing day runs from splitHour to splitHour the next calendar day, so
// work done shortly after midnight is credited to the previous day.
//
// The total always equals the sum of the day buckets and the sum of the week
// buckets. Buckets only exist for non-zero durations.
type Distribution struct {
	splitHour int
	loc       *time.Location
	days      map[Date]time.Duration
	weeks     map[Week]time.Duration
	total     time.Duration
}

// New returns an empty distribution. A nil loc means UTC.
func New(splitHour int, loc *time.Location) *Distribution {
	if loc == nil {
		loc = time.UTC
	}
	return &Distribution{
		splitHour: splitHour,
		loc:       loc,
		days:      make(map[Date]time.Duration),
		weeks:     make(map[Week]time.Duration),
	}
}

func (d *Distribution) SplitHour() int {
	return d.splitHour
}

func (d *Distribution) Location() *time.Location {
	return d.loc
}

// BucketDay returns the bucketing day t belongs to. The boundary is taken
// in wall-clock time, so instants before splitHour on a DST transition date
// still belong to the previous day.
func (d *Distribution) BucketDay(t time.Time) Date {
	day := DateOf(t.In(d.loc))
	if t.Before(d.boundary(day)) {
		return day.AddDays(-1)
	}
	return day
}

// boundary is the instant bucketing day day starts.
func (d *Distribution) boundary(day Date) time.Time {
	return day.At(d.splitHour, d.loc)
}

// Add distributes [start, end) over the bucketing days it covers.
func (d *Distribution) Add(start, end time.Time) {
	sd := d.BucketDay(start)
	ed := d.BucketDay(end)
	dateline := d.boundary(sd.AddDays(1))

	if !end.After(dateline) {
		d.credit(sd, end.Sub(start))
	} else {
		d.credit(sd, dateline.Sub(start))
		// Whole days are measured boundary to boundary so that DST days stay
		// consistent with the total.
		for day := sd.AddDays(1); day.Before(ed); day = day.AddDays(1) {
			d.credit(day, d.boundary(day.AddDays(1)).Sub(d.boundary(day)))
		}
		d.credit(ed, end.Sub(d.boundary(ed)))
	}

	d.total += end.Sub(start)
}

func (d *Distribution) credit(day Date, dur time.Duration) {
	if dur == 0 {
		return
	}
	addTo(d.days, day, dur)
	addTo(d.weeks, day.ISOWeek(), dur)
}

func addTo[K comparable](m map[K]time.Duration, key K, dur time.Duration) {
	if v := m[key] + dur; v != 0 {
		m[key] = v
	} else {
		delete(m, key)
	}
}

// Merge returns a new distribution holding the key-wise sum of d and other.
// Neither operand is modified. Both must share the split hour and location.
func (d *Distribution) Merge(other *Distribution) (*Distribution, error) {
	merged := New(d.splitHour, d.loc)
	if err := merged.MergeFrom(d); err != nil {
		return nil, err
	}
	if err := merged.MergeFrom(other); err != nil {
		return nil, err
	}
	return merged, nil
}

// MergeFrom adds every bucket of other into d. Buckets keyed under a
// different split hour or location would not line up, so such a merge fails
// and leaves d untouched.
func (d *Distribution) MergeFrom(other *Distribution) error {
	if other == nil {
		return nil
	}
	if other.splitHour != d.splitHour || other.loc.String() != d.loc.String() {
		return fmt.Errorf("%w: split hour %d %s vs %d %s", ErrIncompatible,
			d.splitHour, d.loc, other.splitHour, other.loc)
	}
	for k, v := range other.days {
		addTo(d.days, k, v)
	}
	for k, v := range other.weeks {
		addTo(d.weeks, k, v)
	}
	d.total += other.total
	return nil
}

// Total returns the accumulated duration.
func (d *Distribution) Total() time.Duration {
	return d.total
}

// IsNonEmpty reports whether any positive time has been accumulated.
func (d *Distribution) IsNonEmpty() bool {
	return d.total > 0
}

// Day returns the duration credited to date.
func (d *Distribution) Day(date Date) time.Duration {
	return d.days[date]
}

// Week returns the duration credited to week.
func (d *Distribution) Week(week Week) time.Duration {
	return d.weeks[week]
}

// Days returns the day buckets in chronological order.
func (d *Distribution) Days() []DayTotal {
	result := make([]DayTotal, 0, len(d.days))
	for k, v := range d.days {
		result = append(result, DayTotal{Date: k, Duration: v})
	}
	slices.SortFunc(result, func(a, b DayTotal) int {
		return a.Date.Compare(b.Date)
	})
	return result
}

// Weeks returns the week buckets in chronological order.
func (d *Distribution) Weeks() []WeekTotal {
	result := make([]WeekTotal, 0, len(d.weeks))
	for k, v := range d.weeks {
		result = append(result, WeekTotal{Week: k, Duration: v})
	}
	slices.SortFunc(result, func(a, b WeekTotal) int {
		return a.Week.Compare(b.Week)
	})
	return result
}

// Report renders one line per day, grouped by calendar year and then ISO week,
// followed by a grand total line. The year label appears on the first line of
// each year and the week label with the week total on the first line of each
// week within that year. A week whose ISO year differs from the calendar year
// of its days is labelled with its ISO year.
//
//	2008 W51        5h15'  2008-12-15 Mon   2h00'
//	                       2008-12-16 Tue   3h15'
//	     2009-W01   1h00'  2008-12-29 Mon   1h00'
//	Total                                   6h15'
func (d *Distribution) Report() []string {
	var lines []string
	prevYear := 0
	var prevWeek Week

	for _, day := range d.Days() {
		week := day.Date.ISOWeek()

		var yearLabel, weekLabel, weekTotal string
		newYear := day.Date.Year != prevYear
		if newYear {
			yearLabel = fmt.Sprintf("%d", day.Date.Year)
		}
		if newYear || week != prevWeek {
			weekLabel = fmt.Sprintf("W%02d", week.Week)
			if week.Year != day.Date.Year {
				weekLabel = week.String()
			}
			weekTotal = FormatDuration(d.weeks[week])
		}
		prevYear, prevWeek = day.Date.Year, week

		lines = append(lines, fmt.Sprintf("%-4s %-8s %7s  %s %s %7s",
			yearLabel, weekLabel, weekTotal,
			day.Date, day.Date.Weekday().String()[:3],
			FormatDuration(day.Duration)))
	}

	lines = append(lines, fmt.Sprintf("%-37s %7s", "Total", FormatDuration(d.total)))
	return lines
}
