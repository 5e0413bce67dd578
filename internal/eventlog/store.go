package eventlog

import (
	"slices"
	"strings"
	"sync"
)

// IssueStore provides thread-safe storage for decoded issues, keyed by file path.
type IssueStore struct {
	mu     sync.RWMutex
	issues map[string]Issue
}

// NewIssueStore creates a new empty IssueStore.
func NewIssueStore() *IssueStore {
	return &IssueStore{
		issues: make(map[string]Issue),
	}
}

// Put adds or replaces an issue. Issues without a path are keyed by ID.
func (s *IssueStore) Put(issue Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues[issue.key()] = issue
}

// Remove drops the issue loaded from path, if any.
func (s *IssueStore) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.issues[path]; !ok {
		return false
	}
	delete(s.issues, path)
	return true
}

// Get returns the issue loaded from path.
func (s *IssueStore) Get(path string) (Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	issue, ok := s.issues[path]
	return issue, ok
}

// Count returns the number of stored issues.
func (s *IssueStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.issues)
}

// All returns a copy of every stored issue ordered by path.
func (s *IssueStore) All() []Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Issue, 0, len(s.issues))
	for _, issue := range s.issues {
		result = append(result, issue)
	}
	slices.SortFunc(result, func(a, b Issue) int {
		return strings.Compare(a.key(), b.key())
	})
	return result
}

func (i Issue) key() string {
	if i.Path != "" {
		return i.Path
	}
	return i.ID
}
