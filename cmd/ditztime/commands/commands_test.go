package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixtureDir = "../../../internal/report/testdata/issues"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DITZTIME_FILE_LOG", "false")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReport_MatchesGolden(t *testing.T) {
	want, err := os.ReadFile("../../../internal/report/testdata/report.golden")
	if err != nil {
		t.Fatalf("Failed to read golden file: %v", err)
	}

	for _, args := range [][]string{
		{fixtureDir},
		{"report", fixtureDir},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			got, err := run(t, args...)
			if err != nil {
				t.Fatalf("Command failed: %v", err)
			}
			if got != string(want) {
				t.Errorf("Output mismatch:\n got:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestReport_FlagsOverrideConfig(t *testing.T) {
	t.Setenv("DITZTIME_SPLIT_HOUR", "4")

	got, err := run(t, "--split-hour", "0", "--after", "2008-06-17", fixtureDir)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	// The late session on 2008-06-17 now splits at midnight.
	for _, want := range []string{
		"2008-06-17 Tue   1h00'",
		"2008-06-18 Wed   2h00'",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "2008-06-16") {
		t.Errorf("Expected the session before --after to be filtered:\n%s", got)
	}
}

func TestReport_Timezone(t *testing.T) {
	got, err := run(t, "--timezone", "Europe/Helsinki", fixtureDir)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	// 23:00-02:00 UTC is 02:00-05:00 in Helsinki summer time, straddling 04:00.
	for _, want := range []string{
		"2008-06-17 Tue   2h00'",
		"2008-06-18 Wed   1h00'",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output:\n%s", want, got)
		}
	}
}

func TestReport_HTMLAndMermaid(t *testing.T) {
	htmlPath := filepath.Join(t.TempDir(), "report.html")

	got, err := run(t, "report", "--mermaid", "--html", htmlPath, fixtureDir)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if !strings.Contains(got, "```mermaid\nxychart-beta") || !strings.Contains(got, "pie title") {
		t.Errorf("Expected mermaid charts in output:\n%s", got)
	}

	page, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("Expected HTML report to be written: %v", err)
	}
	if !strings.Contains(string(page), "Fix parser") {
		t.Error("Expected the HTML report to list the issues")
	}
}

func TestReport_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"MissingPath", []string{"no/such/dir"}, "is not a file nor a directory"},
		{"BadTimestamp", []string{"--after", "June", fixtureDir}, "invalid timestamp value"},
		{"BadSplitHour", []string{"--split-hour", "24", fixtureDir}, "SplitHour"},
		{"BadTimezone", []string{"--timezone", "Mars/Olympus", fixtureDir}, "invalid time zone"},
		{"OpenWithoutHTML", []string{"report", "--open", fixtureDir}, "--open requires --html"},
		{"ReportNeedsPath", []string{"report"}, "requires at least 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("Expected command to fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
