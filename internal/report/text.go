package report

import (
	"fmt"
	"io"

	"ditztime/internal/calendar"
)

// SummaryLines returns one line per issue with in-progress time:
// the padded duration, the short issue ID and the title.
func (r *Result) SummaryLines() []string {
	var lines []string
	for _, res := range r.Issues {
		if !res.Distribution.IsNonEmpty() {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			calendar.FormatDurationPadded(res.Total()), res.Issue.ShortID(), res.Issue.Title))
	}
	return lines
}

// WriteText writes the per-issue summary followed by the day/week report of
// the grand total.
func WriteText(w io.Writer, r *Result) error {
	for _, line := range r.SummaryLines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, s := range r.Skipped {
		if _, err := fmt.Fprintf(w, "skipped %s: %v\n", issueLabel(s.Issue), s.Err); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, line := range r.Total.Report() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
