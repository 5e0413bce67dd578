package calendar

import (
	"testing"
	"time"
)

func TestDate_ISOWeek(t *testing.T) {
	tests := []struct {
		date Date
		want Week
	}{
		{Date{2008, time.December, 14}, Week{2008, 50}},
		{Date{2008, time.December, 15}, Week{2008, 51}},
		{Date{2008, time.December, 29}, Week{2009, 1}},
		{Date{2010, time.January, 3}, Week{2009, 53}},
	}

	for _, tt := range tests {
		t.Run(tt.date.String(), func(t *testing.T) {
			if got := tt.date.ISOWeek(); got != tt.want {
				t.Errorf("ISOWeek() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := Date{2008, time.February, 28}

	if got := d.AddDays(1); got != (Date{2008, time.February, 29}) {
		t.Errorf("Expected leap day, got %s", got)
	}
	if got := d.AddDays(2); got != (Date{2008, time.March, 1}) {
		t.Errorf("Expected March 1st, got %s", got)
	}
	if got := d.DaysUntil(Date{2009, time.February, 28}); got != 366 {
		t.Errorf("Expected 366 days, got %d", got)
	}
	if !d.Before(d.AddDays(1)) || d.AddDays(1).Before(d) {
		t.Error("Before is inconsistent with AddDays")
	}
	if d.Weekday() != time.Thursday {
		t.Errorf("Expected Thursday, got %s", d.Weekday())
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2008-12-23")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d != (Date{2008, time.December, 23}) || d.String() != "2008-12-23" {
		t.Errorf("Unexpected date %v", d)
	}
	if _, err := ParseDate("23.12.2008"); err == nil {
		t.Error("Expected error for non-ISO date")
	}
}

func TestWeek_String(t *testing.T) {
	if got := (Week{2009, 1}).String(); got != "2009-W01" {
		t.Errorf("Unexpected label %q", got)
	}
}
