package eventlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// DefaultIssuePattern matches Ditz issue files inside an issue directory.
const DefaultIssuePattern = "issue-*.yaml"

// LogProvider locates issue files and loads them into an IssueStore.
type LogProvider struct {
	store   *IssueStore
	pattern string
}

func NewLogProvider(store *IssueStore, pattern string) *LogProvider {
	if pattern == "" {
		pattern = DefaultIssuePattern
	}
	return &LogProvider{
		store:   store,
		pattern: pattern,
	}
}

// Store returns the store the provider hydrates.
func (p *LogProvider) Store() *IssueStore {
	return p.store
}

// Pattern returns the glob issue files must match inside a directory.
func (p *LogProvider) Pattern() string {
	return p.pattern
}

// Discover expands the given paths into issue files. Files are taken as is;
// directories contribute every entry matching the issue pattern, in name order.
func (p *LogProvider) Discover(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%s is not a file nor a directory: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(path, p.pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid issue pattern %q: %w", p.pattern, err)
		}
		for _, m := range matches {
			if mi, err := os.Stat(m); err == nil && mi.Mode().IsRegular() {
				files = append(files, m)
			}
		}
		log.Debug().Str("dir", path).Int("count", len(matches)).Msg("Discovered issue files")
	}
	return files, nil
}

// Hydrate loads every issue file reachable from paths into the store and
// returns the issues in discovery order.
func (p *LogProvider) Hydrate(ctx context.Context, paths []string) ([]Issue, error) {
	files, err := p.Discover(paths)
	if err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		issue, err := p.Reload(file)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}

	log.Info().Int("files", len(files)).Msg("Loaded issue files")
	return issues, nil
}

// Reload (re)reads a single issue file into the store.
func (p *LogProvider) Reload(path string) (Issue, error) {
	issue, err := LoadIssueFile(path)
	if err != nil {
		return Issue{}, err
	}
	p.store.Put(issue)
	return issue, nil
}

// LoadIssueFile reads and decodes one issue file.
func LoadIssueFile(path string) (Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Issue{}, fmt.Errorf("failed to read issue file: %w", err)
	}

	issue, err := DecodeIssue(data)
	if err != nil {
		return Issue{}, fmt.Errorf("%s: %w", path, err)
	}
	issue.Path = path
	return issue, nil
}
