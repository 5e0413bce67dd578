package eventlog

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// IssueTag is the YAML tag Ditz writes at the top of every issue file.
const IssueTag = "!ditz.rubyforge.org,2008-03-06/issue"

// issueDTO mirrors the subset of a Ditz issue file we care about.
type issueDTO struct {
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	LogEvents [][]string `yaml:"log_events"`
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999 Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 -0700",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses a Ditz log timestamp such as "2008-06-16 10:39:28.385966 Z".
// Timestamps without a zone are taken as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid log timestamp %q", value)
}

// DecodeIssue converts the YAML content of a Ditz issue file into an Issue.
// The log events are returned in file order.
func DecodeIssue(data []byte) (Issue, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return Issue{}, fmt.Errorf("failed to parse issue yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return Issue{}, fmt.Errorf("issue yaml is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Issue{}, fmt.Errorf("issue yaml is not a mapping")
	}
	if root.Tag != IssueTag && root.Tag != "!!map" {
		log.Debug().Str("tag", root.Tag).Msg("Unexpected issue tag, decoding anyway")
	}

	var dto issueDTO
	if err := root.Decode(&dto); err != nil {
		return Issue{}, fmt.Errorf("failed to decode issue: %w", err)
	}

	return TransformIssue(dto)
}

// TransformIssue converts the decoded issue record into the plain event model.
func TransformIssue(dto issueDTO) (Issue, error) {
	issue := Issue{
		ID:     dto.ID,
		Title:  dto.Title,
		Events: make([]LogEvent, 0, len(dto.LogEvents)),
	}

	for i, raw := range dto.LogEvents {
		if len(raw) < 3 {
			return Issue{}, fmt.Errorf("log event %d: expected at least 3 fields, got %d", i, len(raw))
		}
		ts, err := ParseTimestamp(raw[0])
		if err != nil {
			return Issue{}, fmt.Errorf("log event %d: %w", i, err)
		}
		event := LogEvent{
			Timestamp: ts,
			Actor:     raw[1],
			Message:   raw[2],
		}
		if len(raw) > 3 {
			event.Comment = raw[3]
		}
		issue.Events = append(issue.Events, event)
	}

	return issue, nil
}

// TimestampLayout is the layout Ditz uses for log timestamps.
const TimestampLayout = "2006-01-02 15:04:05.000000 Z"

// EncodeIssue renders an Issue as a tagged Ditz issue document.
func EncodeIssue(issue Issue) ([]byte, error) {
	dto := issueDTO{
		ID:        issue.ID,
		Title:     issue.Title,
		LogEvents: make([][]string, 0, len(issue.Events)),
	}
	for _, e := range issue.Events {
		dto.LogEvents = append(dto.LogEvents, []string{
			e.Timestamp.UTC().Format(TimestampLayout),
			e.Actor,
			e.Message,
			e.Comment,
		})
	}

	var node yaml.Node
	if err := node.Encode(dto); err != nil {
		return nil, fmt.Errorf("failed to encode issue %s: %w", issue.ID, err)
	}
	node.Tag = IssueTag

	var buf bytes.Buffer
	buf.WriteString("--- ")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("failed to encode issue %s: %w", issue.ID, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
