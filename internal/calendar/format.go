package calendar

import (
	"fmt"
	"time"
)

// FormatDuration renders d as "<hours>h<mm>'" or, below one hour, "<minutes>'".
// Minutes are rounded to the nearest whole minute, halves away from zero.
func FormatDuration(d time.Duration) string {
	minutes := int64(d.Round(time.Minute) / time.Minute)
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	if hours := minutes / 60; hours > 0 {
		return fmt.Sprintf("%s%dh%02d'", sign, hours, minutes%60)
	}
	return fmt.Sprintf("%s%d'", sign, minutes)
}

// FormatDurationPadded right-aligns FormatDuration in seven columns.
func FormatDurationPadded(d time.Duration) string {
	return fmt.Sprintf("%7s", FormatDuration(d))
}
