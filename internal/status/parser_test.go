package status

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantFrom string
		wantTo   string
		wantType string
	}{
		{"StartWork", "changed status from unstarted to in_progress", Unstarted, InProgress, "change"},
		{"Pause", "changed status from in_progress to paused", InProgress, Paused, "change"},
		{"Resume", "changed status from paused to in_progress", Paused, InProgress, "change"},
		{"Reopen", "changed status from closed to in_progress", Closed, InProgress, "change"},
		{"CloseFixed", "closed issue with disposition fixed", "", "fixed", "close"},
		{"CloseWithoutIssueWord", "closed with disposition wontfix", "", "wontfix", "close"},
		{"TrailingText", "changed status from paused to in_progress (again)", Paused, InProgress, "change"},
		{"AssignRelease", "assigned to release 0.5 from unassigned", "", "", "assign"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.message)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.message, err)
			}
			if got.From() != tt.wantFrom || got.To() != tt.wantTo {
				t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tt.message, got.From(), got.To(), tt.wantFrom, tt.wantTo)
			}

			switch tt.wantType {
			case "change":
				if _, ok := got.(Change); !ok {
					t.Errorf("Expected Change, got %T", got)
				}
			case "close":
				if _, ok := got.(Close); !ok {
					t.Errorf("Expected Close, got %T", got)
				}
			case "assign":
				if _, ok := got.(Assign); !ok {
					t.Errorf("Expected Assign, got %T", got)
				}
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	messages := []string{
		"changed status from unstarted to closed",
		"changed status from in_progress to unstarted",
		"changed status from bogus to in_progress",
		"changed status from unstarted in_progress",
		"status changed",
		"",
		" closed issue with disposition fixed",
	}

	for _, msg := range messages {
		t.Run(msg, func(t *testing.T) {
			_, err := Parse(msg)
			if err == nil {
				t.Fatalf("Expected error for %q", msg)
			}
			if !errors.Is(err, ErrInvalidMessage) {
				t.Errorf("Expected ErrInvalidMessage, got %v", err)
			}
			var invalid *InvalidMessageError
			if !errors.As(err, &invalid) {
				t.Fatalf("Expected *InvalidMessageError, got %T", err)
			}
			if invalid.Message != msg {
				t.Errorf("Expected offending message %q, got %q", msg, invalid.Message)
			}
		})
	}
}

func TestParse_ClosePrecedence(t *testing.T) {
	// A close message always wins, even with extra words that look like a change.
	got, err := Parse("closed issue with disposition fixed changed status from paused to in_progress")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c, ok := got.(Close); !ok || c.Disposition != "fixed" {
		t.Errorf("Expected Close{fixed}, got %#v", got)
	}
}
