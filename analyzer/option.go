package analyzer

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

type Option func(*Analyzer)

// MatcherFn decides whether a walked entry takes part in a scan. location is
// the path relative to the scan root; returning false for a directory prunes
// its subtree.
type MatcherFn func(location string, info os.FileInfo) bool

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

func WithMatcher(matcher MatcherFn) Option {
	return func(a *Analyzer) {
		a.match = matcher
	}
}

// WithCache attaches a scan cache so unchanged files reuse their previous
// results instead of being re-parsed.
func WithCache(cache *Cache) Option {
	return func(a *Analyzer) {
		a.cache = cache
	}
}

// WithMaxDepth bounds directory recursion. Depth counts path segments below
// the scan root, so 1 keeps the scan to the root directory itself. Zero or
// negative means unbounded.
func WithMaxDepth(depth int) Option {
	return func(a *Analyzer) {
		a.maxDepth = depth
	}
}

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".git":         true,
	".next":        true,
}

// sourceExtensions lists the file extensions the analyzer parses.
var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".mts": true,
	".cts": true,
	".js":  true,
	".jsx": true,
	".mjs": true,
	".cjs": true,
}

// SourceFiles matches TypeScript and JavaScript sources and skips dependency
// and build output directories. Declaration files carry no runtime calls and
// are not analyzed.
func SourceFiles(location string, info os.FileInfo) bool {
	if info.IsDir() {
		return !skipDirs[info.Name()]
	}
	name := info.Name()
	if strings.HasSuffix(name, ".d.ts") {
		return false
	}
	return sourceExtensions[strings.ToLower(filepath.Ext(name))]
}

// NewMatcher layers include and exclude glob patterns on top of SourceFiles.
// Patterns use `/` separators and `**` spans directories; an empty include
// list admits every source file. Globs apply to files only so includes never
// prune the directories above their matches.
func NewMatcher(includes, excludes []string) (MatcherFn, error) {
	included, err := compileGlobs(includes)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	excluded, err := compileGlobs(excludes)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}
	return func(location string, info os.FileInfo) bool {
		if !SourceFiles(location, info) {
			return false
		}
		if info.IsDir() {
			return true
		}
		location = path.Clean(filepath.ToSlash(location))
		for _, g := range excluded {
			if g.Match(location) {
				return false
			}
		}
		if len(included) == 0 {
			return true
		}
		for _, g := range included {
			if g.Match(location) {
				return true
			}
		}
		return false
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	var result []glob.Glob
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%q: %w", pattern, err)
		}
		result = append(result, g)
	}
	return result, nil
}
