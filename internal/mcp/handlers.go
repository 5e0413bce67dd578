package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ditztime/internal/calendar"
	"ditztime/internal/eventlog"
	"ditztime/internal/progress"
	"ditztime/internal/report"
	"ditztime/internal/timeparse"
	"ditztime/internal/visuals"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// ReportOutput is the structured result of progress_report.
type ReportOutput struct {
	Total        string        `json:"total"`
	TotalSeconds float64       `json:"total_seconds"`
	SplitHour    int           `json:"split_hour"`
	TimeZone     string        `json:"timezone"`
	Issues       []IssueTotal  `json:"issues"`
	Days         []BucketTotal `json:"days"`
	Weeks        []BucketTotal `json:"weeks"`
	Warnings     []string      `json:"warnings,omitempty"`
}

// IssueTotal is the in-progress time of one issue.
type IssueTotal struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Path    string  `json:"path"`
	Total   string  `json:"total"`
	Seconds float64 `json:"seconds"`
}

// BucketTotal is the time credited to one day or ISO week.
type BucketTotal struct {
	Key     string  `json:"key"`
	Total   string  `json:"total"`
	Seconds float64 `json:"seconds"`
}

// IntervalsOutput is the structured result of issue_intervals.
type IntervalsOutput struct {
	Issues []IssueIntervals `json:"issues"`
}

// IssueIntervals lists the in-progress intervals of one issue.
type IssueIntervals struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Intervals []IntervalInfo `json:"intervals"`
}

type IntervalInfo struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration string `json:"duration"`
}

func (s *Server) handleProgressReport(ctx context.Context, _ *sdk.CallToolRequest, in ReportInput) (*sdk.CallToolResult, ReportOutput, error) {
	splitHour := s.cfg.SplitHour
	if in.SplitHour != nil {
		splitHour = *in.SplitHour
	}
	if splitHour < 0 || splitHour > 23 {
		return nil, ReportOutput{}, fmt.Errorf("split_hour must be between 0 and 23, got %d", splitHour)
	}

	res, err := s.runReport(ctx, in.Paths, in.After, in.Before, splitHour, true)
	if err != nil {
		return nil, ReportOutput{}, err
	}

	var text strings.Builder
	if err := report.WriteText(&text, res); err != nil {
		return nil, ReportOutput{}, err
	}
	for _, chart := range []string{
		visuals.GenerateWeeklyChart(res.Total),
		visuals.GenerateDailyChart(res.Total),
	} {
		if chart != "" {
			text.WriteString("\n")
			text.WriteString(visuals.Fenced(chart))
			text.WriteString("\n")
		}
	}

	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text.String()}},
	}, summarize(res), nil
}

func (s *Server) handleIssueIntervals(ctx context.Context, _ *sdk.CallToolRequest, in IntervalsInput) (*sdk.CallToolResult, IntervalsOutput, error) {
	res, err := s.runReport(ctx, in.Paths, in.After, in.Before, s.cfg.SplitHour, false)
	if err != nil {
		return nil, IntervalsOutput{}, err
	}

	out := IntervalsOutput{Issues: make([]IssueIntervals, 0, len(res.Issues))}
	for _, r := range res.Issues {
		item := IssueIntervals{
			ID:        r.Issue.ID,
			Title:     r.Issue.Title,
			Intervals: make([]IntervalInfo, 0, len(r.Intervals)),
		}
		for _, iv := range r.Intervals {
			item.Intervals = append(item.Intervals, IntervalInfo{
				Start:    iv.Start.In(s.cfg.Location()).Format(time.RFC3339),
				End:      iv.End.In(s.cfg.Location()).Format(time.RFC3339),
				Duration: calendar.FormatDuration(iv.Duration()),
			})
		}
		out.Issues = append(out.Issues, item)
	}
	return nil, out, nil
}

// runReport loads the issues under paths and runs the report with the
// server configuration.
func (s *Server) runReport(ctx context.Context, paths []string, after, before string, splitHour int, keepGoing bool) (*report.Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one path is required")
	}

	loc := s.cfg.Location()
	window, err := parseWindow(after, before, loc)
	if err != nil {
		return nil, err
	}

	provider := eventlog.NewLogProvider(eventlog.NewIssueStore(), s.cfg.IssuePattern)
	issues, err := provider.Hydrate(ctx, paths)
	if err != nil {
		return nil, err
	}

	log.Debug().Strs("paths", paths).Int("issues", len(issues)).Msg("Running report for MCP client")
	return report.Run(ctx, issues, report.Options{
		Window:    window,
		SplitHour: splitHour,
		Location:  loc,
		Workers:   s.cfg.Workers,
		KeepGoing: keepGoing,
	})
}

func parseWindow(after, before string, loc *time.Location) (progress.Window, error) {
	var w progress.Window
	if after != "" {
		t, err := timeparse.Parse(after, loc)
		if err != nil {
			return w, fmt.Errorf("after: %w", err)
		}
		w.Earliest = t
	}
	if before != "" {
		t, err := timeparse.Parse(before, loc)
		if err != nil {
			return w, fmt.Errorf("before: %w", err)
		}
		w.Latest = t
	}
	return w, nil
}

func summarize(res *report.Result) ReportOutput {
	out := ReportOutput{
		Total:        calendar.FormatDuration(res.Total.Total()),
		TotalSeconds: res.Total.Total().Seconds(),
		SplitHour:    res.Total.SplitHour(),
		TimeZone:     res.Total.Location().String(),
		Issues:       make([]IssueTotal, 0, len(res.Issues)),
		Days:         make([]BucketTotal, 0),
		Weeks:        make([]BucketTotal, 0),
	}

	for _, r := range res.Issues {
		if !r.Distribution.IsNonEmpty() {
			continue
		}
		out.Issues = append(out.Issues, IssueTotal{
			ID:      r.Issue.ID,
			Title:   r.Issue.Title,
			Path:    r.Issue.Path,
			Total:   calendar.FormatDuration(r.Total()),
			Seconds: r.Total().Seconds(),
		})
	}
	for _, d := range res.Total.Days() {
		out.Days = append(out.Days, bucket(d.Date.String(), d.Duration))
	}
	for _, w := range res.Total.Weeks() {
		out.Weeks = append(out.Weeks, bucket(w.Week.String(), w.Duration))
	}
	for _, sk := range res.Skipped {
		out.Warnings = append(out.Warnings, fmt.Sprintf("skipped %s: %v", sk.Issue.Path, sk.Err))
	}
	return out
}

func bucket(key string, d time.Duration) BucketTotal {
	return BucketTotal{Key: key, Total: calendar.FormatDuration(d), Seconds: d.Seconds()}
}
