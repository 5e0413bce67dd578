package visuals

import (
	"fmt"
	"math"
	"strings"
	"time"

	"ditztime/internal/calendar"
	"ditztime/internal/report"
)

// maxDailyBars limits the daily chart to the most recent days. Mermaid's
// xychart starts overlapping labels around 60 points.
const maxDailyBars = 60

// Fenced wraps a chart in a markdown mermaid code block.
func Fenced(chart string) string {
	if chart == "" {
		return ""
	}
	return "```mermaid\n" + chart + "```"
}

func hours(d time.Duration) float64 {
	return d.Hours()
}

func yAxisMax(maxVal float64) int {
	return int(math.Ceil(math.Max(1, maxVal*1.2)))
}

// GenerateDailyChart creates a Mermaid bar chart of in-progress hours per bucketing day.
func GenerateDailyChart(dist *calendar.Distribution) string {
	days := dist.Days()
	if len(days) == 0 {
		return ""
	}
	if len(days) > maxDailyBars {
		days = days[len(days)-maxDailyBars:]
	}

	var labels []string
	var values []string
	maxVal := 0.0

	for _, day := range days {
		h := hours(day.Duration)
		labels = append(labels, fmt.Sprintf("\"%s\"", day.Date))
		values = append(values, fmt.Sprintf("%.1f", h))
		if h > maxVal {
			maxVal = h
		}
	}

	var sb strings.Builder
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"In Progress per Day\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Hours\" 0 --> %d\n", yAxisMax(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	return sb.String()
}

// GenerateWeeklyChart creates a Mermaid bar chart of in-progress hours per ISO week.
func GenerateWeeklyChart(dist *calendar.Distribution) string {
	weeks := dist.Weeks()
	if len(weeks) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0

	for _, week := range weeks {
		h := hours(week.Duration)
		labels = append(labels, fmt.Sprintf("\"%s\"", week.Week))
		values = append(values, fmt.Sprintf("%.1f", h))
		if h > maxVal {
			maxVal = h
		}
	}

	var sb strings.Builder
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"In Progress per ISO Week\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Hours\" 0 --> %d\n", yAxisMax(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	return sb.String()
}

// GenerateIssueShare creates a Mermaid pie chart of the time spent per issue.
func GenerateIssueShare(res *report.Result) string {
	if !res.Total.IsNonEmpty() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("pie title Time in Progress per Issue\n")
	for _, r := range res.Issues {
		if !r.Distribution.IsNonEmpty() {
			continue
		}
		label := strings.ReplaceAll(r.Issue.Title, "\"", "'")
		sb.WriteString(fmt.Sprintf("    \"%s %s\" : %.2f\n", r.Issue.ShortID(), label, hours(r.Total())))
	}
	return sb.String()
}
