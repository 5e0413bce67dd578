package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"ditztime/internal/config"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const fixtureDir = "../report/testdata/issues"

// connect starts the server on an in-memory transport and returns a client
// session attached to it.
func connect(t *testing.T, cfg *config.AppConfig) *sdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := sdk.NewInMemoryTransports()
	ss, err := NewServer(cfg, "test").build().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("Server connect failed: %v", err)
	}
	t.Cleanup(func() { _ = ss.Close() })

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("Client connect failed: %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *sdk.ClientSession, name string, args map[string]any, out any) *sdk.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s) failed: %v", name, err)
	}
	if out != nil && !res.IsError {
		raw, err := json.Marshal(res.StructuredContent)
		if err != nil {
			t.Fatalf("Failed to marshal structured content: %v", err)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("Failed to decode structured content: %v", err)
		}
	}
	return res
}

func textOf(res *sdk.CallToolResult) string {
	var sb strings.Builder
	for _, c := range res.Content {
		if tc, ok := c.(*sdk.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func TestListTools(t *testing.T) {
	cs := connect(t, nil)

	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"progress_report", "issue_intervals"} {
		if !names[want] {
			t.Errorf("Expected tool %s to be registered", want)
		}
	}
}

func TestProgressReport(t *testing.T) {
	cs := connect(t, nil)

	var out ReportOutput
	res := callTool(t, cs, "progress_report", map[string]any{"paths": []string{fixtureDir}}, &out)
	if res.IsError {
		t.Fatalf("Unexpected tool error: %s", textOf(res))
	}

	if out.Total != "6h15'" || out.TotalSeconds != 22500 {
		t.Errorf("Expected total 6h15' (22500s), got %s (%v)", out.Total, out.TotalSeconds)
	}
	if out.SplitHour != 4 || out.TimeZone != "UTC" {
		t.Errorf("Expected defaults 4/UTC, got %d/%s", out.SplitHour, out.TimeZone)
	}
	if len(out.Issues) != 2 || out.Issues[0].ID != "aaaaa11111" || out.Issues[0].Total != "5h30'" {
		t.Errorf("Unexpected issues: %+v", out.Issues)
	}

	wantDays := []BucketTotal{
		{Key: "2008-06-16", Total: "2h30'", Seconds: 9000},
		{Key: "2008-06-17", Total: "3h00'", Seconds: 10800},
		{Key: "2008-06-23", Total: "45'", Seconds: 2700},
	}
	if len(out.Days) != len(wantDays) {
		t.Fatalf("Expected %d days, got %+v", len(wantDays), out.Days)
	}
	for i, want := range wantDays {
		if out.Days[i] != want {
			t.Errorf("day %d = %+v, want %+v", i, out.Days[i], want)
		}
	}
	if len(out.Weeks) != 2 || out.Weeks[0].Key != "2008-W25" || out.Weeks[1].Key != "2008-W26" {
		t.Errorf("Unexpected weeks: %+v", out.Weeks)
	}

	text := textOf(res)
	if !strings.Contains(text, "  5h30' aaaaa Fix parser") {
		t.Errorf("Expected summary line in text report, got:\n%s", text)
	}
	if !strings.Contains(text, "```mermaid\nxychart-beta") {
		t.Errorf("Expected a mermaid chart in text report, got:\n%s", text)
	}
}

func TestProgressReport_Options(t *testing.T) {
	cs := connect(t, nil)

	t.Run("SplitHour", func(t *testing.T) {
		var out ReportOutput
		callTool(t, cs, "progress_report", map[string]any{"paths": []string{fixtureDir}, "split_hour": 0}, &out)
		if len(out.Days) != 4 {
			t.Errorf("Expected the late session to split over midnight, got %+v", out.Days)
		}
		if out.TotalSeconds != 22500 {
			t.Errorf("Expected total to be unchanged, got %v", out.TotalSeconds)
		}
	})

	t.Run("After", func(t *testing.T) {
		var out ReportOutput
		callTool(t, cs, "progress_report", map[string]any{"paths": []string{fixtureDir}, "after": "2008-06-20"}, &out)
		if out.Total != "45'" || len(out.Issues) != 1 || out.Issues[0].ID != "ccccc33333" {
			t.Errorf("Expected only the release prep session, got %+v", out)
		}
	})
}

func TestProgressReport_Errors(t *testing.T) {
	cs := connect(t, nil)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"MissingPath", map[string]any{"paths": []string{"does/not/exist"}}, "is not a file nor a directory"},
		{"BadTimestamp", map[string]any{"paths": []string{fixtureDir}, "after": "yesterday"}, "after: invalid timestamp value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, cs, "progress_report", tt.args, nil)
			if !res.IsError {
				t.Fatal("Expected a tool error")
			}
			if got := textOf(res); !strings.Contains(got, tt.want) {
				t.Errorf("Expected error containing %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIssueIntervals(t *testing.T) {
	cfg := config.Default()
	cs := connect(t, cfg)

	var out IntervalsOutput
	res := callTool(t, cs, "issue_intervals", map[string]any{"paths": []string{fixtureDir + "/issue-aaaaa11111.yaml"}}, &out)
	if res.IsError {
		t.Fatalf("Unexpected tool error: %s", textOf(res))
	}
	if len(out.Issues) != 1 {
		t.Fatalf("Expected one issue, got %+v", out.Issues)
	}

	want := []IntervalInfo{
		{Start: "2008-06-16T10:00:00Z", End: "2008-06-16T12:30:00Z", Duration: "2h30'"},
		{Start: "2008-06-17T23:00:00Z", End: "2008-06-18T02:00:00Z", Duration: "3h00'"},
	}
	got := out.Issues[0].Intervals
	if len(got) != len(want) {
		t.Fatalf("Expected %d intervals, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interval %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseWindow(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)
	w, err := parseWindow("2008-05-06 18", "", loc)
	if err != nil {
		t.Fatalf("parseWindow failed: %v", err)
	}
	if !w.Earliest.Equal(time.Date(2008, 5, 6, 16, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected earliest in the configured zone, got %v", w.Earliest)
	}
	if !w.Latest.IsZero() {
		t.Errorf("Expected no latest bound, got %v", w.Latest)
	}

	if _, err := parseWindow("", "2008/05/06", loc); err == nil {
		t.Error("Expected an invalid before value to fail")
	}
}
