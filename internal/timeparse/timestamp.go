// Package timeparse parses the loose timestamps accepted by --after and --before.
package timeparse

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Parse accepts "2008-05-06", "2008-05-06 18" and "2008-05-06 18:45". The
// separator between date and time may be any single character, typically a
// space, "_" or "T". The result is expressed in loc.
func Parse(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	var layout string
	switch len(value) {
	case 10:
		layout = time.DateOnly
	case 13:
		layout = "2006-01-02" + value[10:11] + "15"
	case 16:
		layout = "2006-01-02" + value[10:11] + "15:04"
	default:
		return time.Time{}, fmt.Errorf("invalid timestamp value: %q", value)
	}

	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp value: %q", value)
	}
	return t, nil
}

// Timestamp is a pflag.Value for an optional timestamp flag. The zone is
// applied late, once configuration is known, through Resolve.
type Timestamp struct {
	raw string
}

var _ pflag.Value = (*Timestamp)(nil)

func (ts *Timestamp) String() string {
	return ts.raw
}

func (ts *Timestamp) Set(value string) error {
	if _, err := Parse(value, time.UTC); err != nil {
		return err
	}
	ts.raw = value
	return nil
}

func (ts *Timestamp) Type() string {
	return "timestamp"
}

// IsSet reports whether the flag was given.
func (ts *Timestamp) IsSet() bool {
	return ts.raw != ""
}

// Resolve returns the timestamp in loc, or the zero time when unset.
func (ts *Timestamp) Resolve(loc *time.Location) time.Time {
	if !ts.IsSet() {
		return time.Time{}
	}
	t, _ := Parse(ts.raw, loc)
	return t
}
