package timeparse

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2008-05-06", time.Date(2008, 5, 6, 0, 0, 0, 0, time.UTC)},
		{"2008-05-06 18", time.Date(2008, 5, 6, 18, 0, 0, 0, time.UTC)},
		{"2008-05-06_18:45", time.Date(2008, 5, 6, 18, 45, 0, 0, time.UTC)},
		{"2008-05-06T18:45", time.Date(2008, 5, 6, 18, 45, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := Parse(tt.value, nil)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, value := range []string{"", "2008", "2008-5-6", "2008-05-06 7", "2008-05-06 18:4", "2008-13-01", "2008-05-06 25"} {
		t.Run(value, func(t *testing.T) {
			if _, err := Parse(value, time.UTC); err == nil {
				t.Errorf("Expected error for %q", value)
			}
		})
	}
}

func TestTimestamp_Flag(t *testing.T) {
	var ts Timestamp
	if ts.IsSet() || !ts.Resolve(time.UTC).IsZero() {
		t.Fatal("Expected unset timestamp to resolve to the zero time")
	}

	if err := ts.Set("not a date"); err == nil {
		t.Fatal("Expected Set to reject invalid values")
	}
	if err := ts.Set("2008-09-01 12"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if ts.String() != "2008-09-01 12" || ts.Type() != "timestamp" {
		t.Errorf("Unexpected flag state %q/%q", ts.String(), ts.Type())
	}

	zone := time.FixedZone("EET", 2*60*60)
	got := ts.Resolve(zone)
	if want := time.Date(2008, 9, 1, 10, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}
