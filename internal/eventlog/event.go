package eventlog

import "time"

// Literal log messages that never carry a status change.
const (
	MessageCreated   = "created"
	MessageCommented = "commented"
)

// LogEvent represents a single entry of an issue's log.
// It is the primary unit consumed by the interval extractor.
type LogEvent struct {
	// Timestamp is the instant the entry was recorded.
	Timestamp time.Time `json:"ts"`
	// Actor identifies who made the change (e.g. "Jane <jane@example.com>").
	Actor string `json:"actor"`
	// Message is either a status change message or one of the literal
	// messages "created" and "commented".
	Message string `json:"message"`
	// Comment is the free text attached to the entry.
	Comment string `json:"comment,omitempty"`
}

// IsStatusNeutral reports whether the event can never change the issue state.
func (e LogEvent) IsStatusNeutral() bool {
	return e.Message == MessageCreated || e.Message == MessageCommented
}

// Issue is the decoded form of one issue file.
type Issue struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Path   string     `json:"path,omitempty"`
	Events []LogEvent `json:"events"`
}

// ShortID returns the first five characters of the issue ID, the form used in
// summary lines.
func (i Issue) ShortID() string {
	if len(i.ID) > 5 {
		return i.ID[:5]
	}
	return i.ID
}
