package tool

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreMatcher answers whether a workspace-relative path is excluded by
// the workspace's top-level .gitignore. A missing or unreadable ignore
// file produces a matcher that never excludes anything.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// NewIgnoreMatcher loads the .gitignore at the workspace root.
func NewIgnoreMatcher(root string) *IgnoreMatcher {
	patterns := readIgnorePatterns(filepath.Join(root, ".gitignore"))
	if len(patterns) == 0 {
		return &IgnoreMatcher{}
	}
	return &IgnoreMatcher{matcher: gitignore.NewMatcher(patterns)}
}

// Ignored reports whether the relative path should be hidden from
// listings. Paths are split on the platform separator before matching.
func (m *IgnoreMatcher) Ignored(relPath string, isDir bool) bool {
	if m.matcher == nil {
		return false
	}
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	return m.matcher.Match(parts, isDir)
}

func readIgnorePatterns(path string) []gitignore.Pattern {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}
