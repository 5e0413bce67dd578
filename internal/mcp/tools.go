package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReportInput selects the issues and window of a progress_report call.
type ReportInput struct {
	Paths     []string `json:"paths" jsonschema:"Ditz issue files or issue directories to analyze"`
	After     string   `json:"after,omitempty" jsonschema:"Only count intervals that start at or after this time, e.g. 2008-05-06, 2008-05-06 18 or 2008-05-06T18:45"`
	Before    string   `json:"before,omitempty" jsonschema:"Only count intervals that start at or before this time, same format as after"`
	SplitHour *int     `json:"split_hour,omitempty" jsonschema:"Hour of the day (0-23) at which a working day starts. Defaults to the server configuration."`
}

// IntervalsInput selects the issues of an issue_intervals call.
type IntervalsInput struct {
	Paths  []string `json:"paths" jsonschema:"Ditz issue files or issue directories to analyze"`
	After  string   `json:"after,omitempty" jsonschema:"Only list intervals that start at or after this time"`
	Before string   `json:"before,omitempty" jsonschema:"Only list intervals that start at or before this time"`
}

func inputSchema[T any](splitHour bool) *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("input schema: %v", err))
	}
	schema.Properties["paths"].MinItems = jsonschema.Ptr(1)
	if splitHour {
		schema.Properties["split_hour"].Minimum = jsonschema.Ptr(0.0)
		schema.Properties["split_hour"].Maximum = jsonschema.Ptr(23.0)
	}
	return schema
}

func progressReportTool() *sdk.Tool {
	return &sdk.Tool{
		Name: "progress_report",
		Description: "Report how long Ditz issues spent in the in_progress state, distributed over working days and ISO weeks. " +
			"A working day starts at the split hour (default 04:00), so late-night work counts toward the previous day.\n\n" +
			"Returns the per-issue totals, the day and week buckets of the grand total, and the rendered text report with Mermaid charts. " +
			"The after/before window filters intervals by their START time only; an interval that started inside the window is counted in full.",
		InputSchema: inputSchema[ReportInput](true),
	}
}

func issueIntervalsTool() *sdk.Tool {
	return &sdk.Tool{
		Name: "issue_intervals",
		Description: "List the raw in-progress intervals of each Ditz issue, as reconstructed from the status changes in its event log. " +
			"Use this to audit a progress_report total. Issues that were never started are listed with no intervals.",
		InputSchema: inputSchema[IntervalsInput](false),
	}
}
