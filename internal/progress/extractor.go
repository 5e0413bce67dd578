package progress

import (
	"errors"
	"fmt"
	"time"

	"ditztime/internal/eventlog"
	"ditztime/internal/status"
)

// ErrUnknownStatus is returned (wrapped) when a parsed transition ends in a
// state that neither opens nor closes an in-progress interval.
var ErrUnknownStatus = errors.New("unknown status")

// UnknownStatusError carries the unexpected target state.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown status %q", e.Status)
}

func (e *UnknownStatusError) Unwrap() error {
	return ErrUnknownStatus
}

// Interval is a half-open time range [Start, End) spent in progress.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Window restricts which in-progress activations are accepted.
// A zero Earliest or Latest means that side is open.
type Window struct {
	Earliest time.Time
	Latest   time.Time
}

// Filtered reports whether an activation at t falls outside the window.
func (w Window) Filtered(t time.Time) bool {
	if !w.Earliest.IsZero() && t.Before(w.Earliest) {
		return true
	}
	if !w.Latest.IsZero() && t.After(w.Latest) {
		return true
	}
	return false
}

// State is the extractor state: Idle, or Active since Start.
type State struct {
	Active bool
	Start  time.Time
}

// Idle is the initial state.
var Idle = State{}

// ActiveSince returns the Active state opened at start.
func ActiveSince(start time.Time) State {
	return State{Active: true, Start: start}
}

// Step applies one log event to the state. It returns the next state and,
// when the event closes an open interval, that interval.
func Step(state State, event eventlog.LogEvent, window Window) (State, *Interval, error) {
	if event.IsStatusNeutral() {
		return state, nil, nil
	}

	tr, err := status.Parse(event.Message)
	if err != nil {
		return state, nil, fmt.Errorf("event at %s: %w", event.Timestamp.Format(time.RFC3339), err)
	}

	next, iv, err := Apply(state, event.Timestamp, tr, window)
	if err != nil {
		return state, nil, fmt.Errorf("event at %s: %w", event.Timestamp.Format(time.RFC3339), err)
	}
	return next, iv, nil
}

// Apply applies an already parsed transition recorded at ts.
func Apply(state State, ts time.Time, tr status.Transition, window Window) (State, *Interval, error) {
	switch tr.(type) {
	case status.Assign:
		return state, nil, nil
	case status.Close:
		// Any disposition ends the interval.
		return closeInterval(state, ts)
	}

	switch tr.To() {
	case status.InProgress:
		// Filtered activations leave the state untouched, even when Active.
		if window.Filtered(ts) {
			return state, nil, nil
		}
		return ActiveSince(ts), nil, nil
	case status.Paused:
		return closeInterval(state, ts)
	case "":
		return state, nil, nil
	}

	return state, nil, &UnknownStatusError{Status: tr.To()}
}

// The window is never applied to interval ends.
func closeInterval(state State, end time.Time) (State, *Interval, error) {
	if !state.Active {
		return Idle, nil, nil
	}
	return Idle, &Interval{Start: state.Start, End: end}, nil
}

// Extract walks an issue's events in order and returns the closed in-progress
// intervals whose start falls inside window. An interval still open at the end
// of the log contributes nothing.
func Extract(events []eventlog.LogEvent, window Window) ([]Interval, error) {
	var intervals []Interval
	state := Idle
	for _, e := range events {
		next, iv, err := Step(state, e, window)
		if err != nil {
			return nil, err
		}
		if iv != nil {
			intervals = append(intervals, *iv)
		}
		state = next
	}
	return intervals, nil
}

// TotalTime sums the durations of all extracted intervals.
func TotalTime(events []eventlog.LogEvent, window Window) (time.Duration, error) {
	intervals, err := Extract(events, window)
	if err != nil {
		return 0, err
	}
	var total time.Duration
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total, nil
}
