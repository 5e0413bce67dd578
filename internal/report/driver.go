package report

import (
	"context"
	"fmt"
	"time"

	"ditztime/internal/calendar"
	"ditztime/internal/eventlog"
	"ditztime/internal/progress"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options controls a report run.
type Options struct {
	Window    progress.Window
	SplitHour int
	Location  *time.Location
	// Workers bounds the number of issues analyzed concurrently.
	Workers int
	// KeepGoing skips issues whose log cannot be interpreted instead of
	// failing the whole run.
	KeepGoing bool
}

// IssueResult holds the in-progress time of a single issue.
type IssueResult struct {
	Issue        eventlog.Issue
	Intervals    []progress.Interval
	Distribution *calendar.Distribution
}

// Total returns the time the issue spent in progress.
func (r IssueResult) Total() time.Duration {
	return r.Distribution.Total()
}

// SkippedIssue records an issue dropped under the KeepGoing policy.
type SkippedIssue struct {
	Issue eventlog.Issue
	Err   error
}

// Result is the outcome of a report run.
type Result struct {
	// Issues are in input order, including issues without in-progress time.
	Issues  []IssueResult
	Skipped []SkippedIssue
	// Total is the merge of every issue distribution.
	Total *calendar.Distribution
}

// Analyze extracts the in-progress intervals of one issue and distributes
// them over bucketing days.
func Analyze(issue eventlog.Issue, opts Options) (IssueResult, error) {
	intervals, err := progress.Extract(issue.Events, opts.Window)
	if err != nil {
		return IssueResult{}, err
	}

	dist := calendar.New(opts.SplitHour, opts.Location)
	for _, iv := range intervals {
		dist.Add(iv.Start, iv.End)
	}

	return IssueResult{
		Issue:        issue,
		Intervals:    intervals,
		Distribution: dist,
	}, nil
}

// Run analyzes every issue concurrently and merges the per-issue
// distributions into a grand total.
func Run(ctx context.Context, issues []eventlog.Issue, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	results := make([]IssueResult, len(issues))
	failures := make([]error, len(issues))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, issue := range issues {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Analyze(issue, opts)
			if err != nil {
				if !opts.KeepGoing {
					return fmt.Errorf("issue %s: %w", issueLabel(issue), err)
				}
				log.Warn().Err(err).Str("issue", issueLabel(issue)).Msg("Skipping issue with unreadable log")
				failures[i] = err
				return nil
			}
			log.Debug().
				Str("issue", issueLabel(issue)).
				Int("intervals", len(res.Intervals)).
				Dur("total", res.Total()).
				Msg("Analyzed issue")
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{
		Total: calendar.New(opts.SplitHour, opts.Location),
	}
	for i := range issues {
		if failures[i] != nil {
			out.Skipped = append(out.Skipped, SkippedIssue{Issue: issues[i], Err: failures[i]})
			continue
		}
		out.Issues = append(out.Issues, results[i])
		if err := out.Total.MergeFrom(results[i].Distribution); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("issues", len(out.Issues)).
		Int("skipped", len(out.Skipped)).
		Dur("total", out.Total.Total()).
		Msg("Report computed")
	return out, nil
}

func issueLabel(issue eventlog.Issue) string {
	if issue.ID != "" {
		return issue.ShortID()
	}
	return issue.Path
}
