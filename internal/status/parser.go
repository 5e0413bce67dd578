package status

import (
	"errors"
	"fmt"
	"regexp"
)

// Ditz issue states that may appear in a status change message.
const (
	Unstarted  = "unstarted"
	InProgress = "in_progress"
	Paused     = "paused"
	Closed     = "closed"
)

// ErrInvalidMessage is returned (wrapped) when a log message matches none of
// the known status change patterns.
var ErrInvalidMessage = errors.New("invalid status change message")

// InvalidMessageError carries the offending log message.
type InvalidMessageError struct {
	Message string
}

func (e *InvalidMessageError) Error() string {
	return fmt.Sprintf("invalid status change message %q", e.Message)
}

func (e *InvalidMessageError) Unwrap() error {
	return ErrInvalidMessage
}

// Transition is the parsed form of a status change message.
// From and To return "" when the message carries no such state.
type Transition interface {
	From() string
	To() string
}

// Close is "closed issue with disposition <word>".
type Close struct {
	Disposition string
}

func (Close) From() string { return "" }
func (c Close) To() string { return c.Disposition }
func (c Close) String() string {
	return "close:" + c.Disposition
}

// Change is "changed status from <A> to <B>".
type Change struct {
	FromState string
	ToState   string
}

func (c Change) From() string { return c.FromState }
func (c Change) To() string { return c.ToState }
func (c Change) String() string {
	return c.FromState + "->" + c.ToState
}

// Assign is "assigned to release ...". It never changes the issue state.
type Assign struct{}

func (Assign) From() string { return "" }
func (Assign) To() string { return "" }
func (Assign) String() string { return "assign" }

type matcher struct {
	re    *regexp.Regexp
	build func(m []string) Transition
}

// Order matters: the patterns are not mutually exclusive under prefix matching.
var matchers = []matcher{
	{
		re: regexp.MustCompile(`^closed (?:issue )?with disposition (\w+)`),
		build: func(m []string) Transition {
			return Close{Disposition: m[1]}
		},
	},
	{
		re: regexp.MustCompile(`^changed status from (unstarted|in_progress|paused|closed) to (in_progress|paused)\b`),
		build: func(m []string) Transition {
			return Change{FromState: m[1], ToState: m[2]}
		},
	},
	{
		re: regexp.MustCompile(`^assigned to release `),
		build: func([]string) Transition {
			return Assign{}
		},
	},
}

// Parse classifies a single Ditz log message.
func Parse(message string) (Transition, error) {
	for _, m := range matchers {
		if sub := m.re.FindStringSubmatch(message); sub != nil {
			return m.build(sub), nil
		}
	}
	return nil, &InvalidMessageError{Message: message}
}
