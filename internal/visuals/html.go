package visuals

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"ditztime/internal/calendar"
	"ditztime/internal/report"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

var pageTemplate = template.Must(template.New("report").Parse(reportTemplate))

type issueRow struct {
	Duration string
	ID       string
	Title    string
}

type page struct {
	Title     string
	Generated string
	SplitHour int
	Location  string
	Issues    []issueRow
	Skipped   []string
	Report    string
	Charts    []string
}

// WriteHTML renders a standalone HTML page with the issue summary, the
// day/week report and the charts of res.
func WriteHTML(w io.Writer, res *report.Result, generated time.Time) error {
	p := page{
		Title:     "Time in Progress",
		Generated: generated.Format(time.RFC1123),
		SplitHour: res.Total.SplitHour(),
		Location:  res.Total.Location().String(),
		Report:    strings.Join(res.Total.Report(), "\n"),
	}
	for _, r := range res.Issues {
		if !r.Distribution.IsNonEmpty() {
			continue
		}
		p.Issues = append(p.Issues, issueRow{
			Duration: calendar.FormatDuration(r.Total()),
			ID:       r.Issue.ShortID(),
			Title:    r.Issue.Title,
		})
	}
	for _, s := range res.Skipped {
		p.Skipped = append(p.Skipped, fmt.Sprintf("%s (%s): %v", s.Issue.Path, s.Issue.ShortID(), s.Err))
	}
	for _, chart := range []string{
		GenerateWeeklyChart(res.Total),
		GenerateDailyChart(res.Total),
		GenerateIssueShare(res),
	} {
		if chart != "" {
			p.Charts = append(p.Charts, chart)
		}
	}

	return pageTemplate.Execute(w, p)
}
