package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Globber expands doublestar patterns ("data/**/*.jsonl") into file paths.
type Globber struct {
	excludes []string
}

func NewGlobber(excludes []string) *Globber {
	return &Globber{excludes: excludes}
}

// Expand returns the sorted, de-duplicated regular files matched by patterns.
// A pattern that matches nothing is an error so typos do not silently load
// an empty corpus.
func (g *Globber) Expand(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", pattern)
		}

		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil {
				return nil, err
			}
			if info.IsDir() || g.shouldExclude(path) {
				continue
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[abs]; dup {
				continue
			}
			seen[abs] = struct{}{}
			files = append(files, abs)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (g *Globber) shouldExclude(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range g.excludes {
		matched, err := doublestar.Match(pattern, slashed)
		if err == nil && matched {
			return true
		}
	}
	return false
}
