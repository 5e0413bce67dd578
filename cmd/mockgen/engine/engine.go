package engine

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"ditztime/internal/eventlog"
)

const actor = "Mock Developer <dev@example.com>"

type GeneratorConfig struct {
	Scenario     string // "mild", "night" or "chaos"
	Distribution string // "uniform" or "weibull"
	Count        int
	Now          time.Time
	Seed         int64
}

// Generate builds Count synthetic issues, one arriving per day up to Now.
// Each issue goes through a few in_progress/paused sessions and is closed
// unless its last session is still running at Now.
func Generate(cfg GeneratorConfig) []eventlog.Issue {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	cfg.Now = cfg.Now.UTC()
	r := rand.New(rand.NewSource(cfg.Seed))

	firstArrival := cfg.Now.Truncate(24*time.Hour).AddDate(0, 0, -cfg.Count)
	issues := make([]eventlog.Issue, 0, cfg.Count)

	for i := 0; i < cfg.Count; i++ {
		arrival := firstArrival.AddDate(0, 0, i).Add(8 * time.Hour)
		issue := eventlog.Issue{
			ID:    fmt.Sprintf("%016x%016x%08x", r.Uint64(), r.Uint64(), r.Uint32()),
			Title: fmt.Sprintf("Mock issue %d (%s)", i+1, cfg.Scenario),
		}

		add := func(ts time.Time, msg string) bool {
			if ts.After(cfg.Now) {
				return false
			}
			issue.Events = append(issue.Events, eventlog.LogEvent{Timestamp: ts, Actor: actor, Message: msg})
			return true
		}
		add(arrival, eventlog.MessageCreated)

		sessions := 1 + r.Intn(4)
		day := arrival
		from := "unstarted"
		for s := 0; s < sessions; s++ {
			start := sessionStart(r, cfg.Scenario, day)
			if !start.After(day) {
				start = start.AddDate(0, 0, 1)
			}
			if !add(start, fmt.Sprintf("changed status from %s to in_progress", from)) {
				break
			}

			length := sessionLength(r, cfg)
			end := start.Add(length)
			if cfg.Scenario == "chaos" && length > 10*time.Minute && r.Float64() < 0.3 {
				add(start.Add(5*time.Minute), "assigned to release 0.1 from unassigned")
			}
			if s == sessions-1 {
				add(end, "closed issue with disposition fixed")
				break
			}
			if !add(end, "changed status from in_progress to paused") {
				break
			}
			from = "paused"
			day = end.Truncate(24 * time.Hour).AddDate(0, 0, 1+r.Intn(3))
		}

		issues = append(issues, issue)
	}

	return issues
}

// sessionStart picks the time of day a session starts on day.
func sessionStart(r *rand.Rand, scenario string, day time.Time) time.Time {
	midnight := day.Truncate(24 * time.Hour)
	switch scenario {
	case "night":
		// 22:00 to 02:00, across the calendar day boundary
		return midnight.Add(22*time.Hour + time.Duration(r.Intn(4*60))*time.Minute)
	case "chaos":
		return midnight.Add(time.Duration(r.Intn(24*60)) * time.Minute)
	default:
		return midnight.Add(9*time.Hour + time.Duration(r.Intn(5*60))*time.Minute)
	}
}

// sessionLength samples how long one in-progress session lasts.
func sessionLength(r *rand.Rand, cfg GeneratorConfig) time.Duration {
	var hours float64
	if cfg.Distribution == "weibull" {
		k, lambda := 1.5, 2.5
		if cfg.Scenario == "chaos" {
			k, lambda = 0.8, 6.0 // long tail, some sessions span days
		}
		hours = weibullSample(r, k, lambda)
	} else {
		hours = 0.5 + r.Float64()*3.5
	}
	return time.Duration(hours * float64(time.Hour)).Round(time.Second)
}

func weibullSample(r *rand.Rand, k, lambda float64) float64 {
	u := r.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// Save writes every issue as a Ditz issue file into outDir.
func Save(outDir string, issues []eventlog.Issue) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	for _, issue := range issues {
		data, err := eventlog.EncodeIssue(issue)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, "issue-"+issue.ID+".yaml")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
