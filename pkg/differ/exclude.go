package differ

import (
	"path"
	"path/filepath"
	"strings"
)

// Excluder decides which entries are left out of a comparison.
// Patterns support:
//   - Simple glob patterns on the base name: *.tmp, *.log
//   - Directory patterns: .git/, node_modules/
//   - Any-depth patterns: **/cache, **/build/*.o
//   - Path patterns matched on the relative path: docs/*.md
type Excluder struct {
	patterns []string
}

// NewExcluder returns nil when there is nothing to exclude
func NewExcluder(patterns []string) *Excluder {
	var kept []string
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, filepath.ToSlash(p))
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return &Excluder{patterns: kept}
}

// Match reports whether the entry at relativePath is excluded.
// A nil Excluder matches nothing.
func (e *Excluder) Match(relativePath string, isDir bool) bool {
	if e == nil {
		return false
	}

	normalizedPath := filepath.ToSlash(relativePath)
	baseName := path.Base(normalizedPath)

	for _, pattern := range e.patterns {
		// Directory pattern: only directories match; their contents are
		// never visited so they need no check of their own
		if dirPattern, ok := strings.CutSuffix(pattern, "/"); ok {
			if isDir && (matchGlob(baseName, dirPattern) || matchGlob(normalizedPath, dirPattern)) {
				return true
			}
			continue
		}

		// **/pattern matches at any depth
		if suffix, ok := strings.CutPrefix(pattern, "**/"); ok {
			if matchGlob(baseName, suffix) || matchGlob(normalizedPath, suffix) || matchTail(normalizedPath, suffix) {
				return true
			}
			continue
		}

		if strings.Contains(pattern, "/") {
			if matchGlob(normalizedPath, pattern) {
				return true
			}
			continue
		}

		if matchGlob(baseName, pattern) {
			return true
		}
	}

	return false
}

// matchGlob performs glob matching, treating malformed patterns as no match
func matchGlob(name, pattern string) bool {
	matched, _ := path.Match(pattern, name)
	return matched
}

// matchTail checks whether any trailing run of path components matches pattern
func matchTail(relativePath, pattern string) bool {
	parts := strings.Split(relativePath, "/")
	for i := range parts {
		if matchGlob(strings.Join(parts[i:], "/"), pattern) {
			return true
		}
	}
	return false
}
