package fs

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adamani-ai/rag"
	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves patterns to file paths, in pattern order and without
// duplicates. A pattern naming an existing file is taken literally, whatever
// its extension, so that validation can report it. Glob patterns support **
// and only yield files with a supported format.
func Expand(patterns []string) ([]string, error) {
	var (
		out  []string
		seen = map[string]bool{}
	)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil && !info.IsDir() {
			add(filepath.Clean(pattern))
			continue
		}

		matches, err := glob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("fs: %s: %w", pattern, ErrNoMatches)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func glob(pattern string) ([]string, error) {
	slashed := filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(slashed) {
		return nil, fmt.Errorf("fs: invalid glob pattern: %s", pattern)
	}
	base, rel := doublestar.SplitPattern(slashed)

	info, err := os.Stat(filepath.FromSlash(base))
	if err != nil {
		return nil, fmt.Errorf("fs: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fs: %s is not a directory", base)
	}

	var matches []string
	err = doublestar.GlobWalk(os.DirFS(filepath.FromSlash(base)), rel, func(p string, d iofs.DirEntry) error {
		if d.IsDir() || !supported(p) {
			return nil
		}
		matches = append(matches, filepath.FromSlash(path.Join(base, p)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fs: error matching pattern: %w", err)
	}
	return matches, nil
}

func supported(p string) bool {
	return slices.Contains(rag.SupportedFormats, strings.ToLower(path.Ext(p)))
}
