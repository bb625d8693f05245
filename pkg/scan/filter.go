package scan

import (
	"path/filepath"
	"strings"

	"github.com/sdejongh/dupfinder/pkg/storage"
)

// HiddenMarker is the leading character of hidden entry names
const HiddenMarker = '.'

// SkipReason explains why an entry is not compared.
// The empty reason means the entry is eligible.
type SkipReason string

const (
	Eligible       SkipReason = ""
	SkipHidden     SkipReason = "hidden"
	SkipNotRegular SkipReason = "not_regular"
	SkipExcluded   SkipReason = "excluded"
)

// Filter decides which directory entries are compared against the reference.
// It never touches the filesystem.
type Filter struct {
	exclude []string
}

// NewFilter creates a filter. Entries whose name matches one of the exclude
// glob patterns are skipped in addition to the built-in rules.
func NewFilter(exclude []string) *Filter {
	patterns := make([]string, 0, len(exclude))
	for _, p := range exclude {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return &Filter{exclude: patterns}
}

// Check returns why entry would be skipped, or Eligible.
// Hidden names are rejected before the type is considered, so "." and ".."
// are always reported as hidden.
func (f *Filter) Check(entry storage.Entry) SkipReason {
	if reason := baseCheck(entry); reason != Eligible {
		return reason
	}
	if f != nil && shouldExclude(entry.Name, f.exclude) {
		return SkipExcluded
	}
	return Eligible
}

// IsEligible reports whether entry passes the hidden-name and regular-file rules.
// User exclude patterns are not applied.
func IsEligible(entry storage.Entry) bool {
	return baseCheck(entry) == Eligible
}

func baseCheck(entry storage.Entry) SkipReason {
	if len(entry.Name) > 0 && entry.Name[0] == HiddenMarker {
		return SkipHidden
	}
	if entry.Type != storage.TypeRegular {
		return SkipNotRegular
	}
	return Eligible
}

// shouldExclude checks an entry name against the exclude patterns.
// Names are single path components, so patterns are matched against the
// name alone:
//   - Simple glob patterns: *.tmp, *.log
//   - Any-depth prefix: **/*.bak behaves like *.bak
//   - Patterns naming a subdirectory (cache/, build/*) never match
func shouldExclude(name string, patterns []string) bool {
	for _, pattern := range patterns {
		normalized := strings.TrimPrefix(filepath.ToSlash(pattern), "**/")

		if strings.Contains(normalized, "/") {
			continue
		}

		if matched, _ := filepath.Match(normalized, name); matched {
			return true
		}
	}
	return false
}
