// Package analyzer implements the read-after-write scan over TypeScript and
// JavaScript sources. Each file is parsed with tree-sitter, store calls are
// classified as reads or writes, and every write followed by a replica-bound
// read inside the same function scope is reported as an issue.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/replicalint/replicalint/analyzer/replica"
)

// ErrNoSourceFiles is returned when a scan target contains nothing to parse.
var ErrNoSourceFiles = errors.New("no source files found")

// Analyzer detects read-after-write hazards in sources that use a
// primary/replica store client. It is single-threaded: one parser instance
// is reused across files and results keep document order.
type Analyzer struct {
	fs       afs.Service
	parser   *sitter.Parser
	logger   *slog.Logger
	match    MatcherFn
	cache    *Cache
	maxDepth int
}

// Result aggregates everything one scan produced.
type Result struct {
	Issues        []replica.Issue
	Clients       []replica.ClientInstance
	FilesAnalyzed int
}

// HasReplicaClient reports whether any detected client carries the read
// replicas extension.
func (r *Result) HasReplicaClient() bool {
	for _, client := range r.Clients {
		if client.HasReplicaExtension {
			return true
		}
	}
	return false
}

// New creates an Analyzer. Without options it matches every TypeScript and
// JavaScript source, keeps no cache and discards log output.
func New(options ...Option) *Analyzer {
	result := &Analyzer{
		fs:     afs.New(),
		parser: sitter.NewParser(),
		logger: slog.New(slog.DiscardHandler),
		match:  SourceFiles,
	}
	for _, option := range options {
		option(result)
	}
	return result
}

// AnalyzePath analyses target, which may name a single source file or a
// directory tree. For a single file a parse failure is an error; during a
// directory walk failing files are logged and skipped.
func (a *Analyzer) AnalyzePath(ctx context.Context, target string) (*Result, error) {
	object, err := a.fs.Object(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s: %w", target, err)
	}
	if object.IsDir() {
		return a.AnalyzeDir(ctx, target)
	}
	issues, clients, err := a.analyzeFile(ctx, target, target)
	if err != nil {
		return nil, err
	}
	return &Result{Issues: issues, Clients: clients, FilesAnalyzed: 1}, nil
}

// AnalyzeDir walks root and analyses every matching source file in
// lexicographic path order, so repeated scans of the same tree produce
// identical reports.
func (a *Analyzer) AnalyzeDir(ctx context.Context, root string) (*Result, error) {
	files, err := a.collectFiles(ctx, root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoSourceFiles, root)
	}
	result := &Result{Issues: []replica.Issue{}}
	for _, file := range files {
		issues, clients, err := a.analyzeFile(ctx, file.URL, file.location)
		if err != nil {
			a.logger.Warn("skipping file", "path", file.location, "error", err)
			continue
		}
		result.Issues = append(result.Issues, issues...)
		result.Clients = append(result.Clients, clients...)
		result.FilesAnalyzed++
	}
	return result, nil
}

// AnalyzeSource parses one source buffer and returns the issues and client
// instances it contains. path selects the grammar and labels every location.
func (a *Analyzer) AnalyzeSource(ctx context.Context, src []byte, path string) ([]replica.Issue, []replica.ClientInstance, error) {
	language, err := languageFor(path)
	if err != nil {
		return nil, nil, err
	}
	a.parser.SetLanguage(language)
	tree, err := a.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	root := tree.RootNode()
	scopes := collectScopes(root, src, path)
	issues := detectIssues(scopes)
	clients := detectClients(root, src, path)
	a.logger.Debug("analyzed source", "path", path, "scopes", len(scopes), "issues", len(issues), "clients", len(clients))
	return issues, clients, nil
}

type sourceFile struct {
	location string // path relative to the scan root, used in reports
	URL      string // absolute URL for download
}

func (a *Analyzer) collectFiles(ctx context.Context, root string) ([]sourceFile, error) {
	var files []sourceFile
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		location := path.Join(parent, info.Name())
		if info.IsDir() {
			if a.maxDepth > 0 && depthOf(location) >= a.maxDepth {
				return false, nil
			}
			return a.match(location, info), nil
		}
		if !a.match(location, info) {
			return false, nil
		}
		files = append(files, sourceFile{location: location, URL: url.Join(baseURL, location)})
		return true, nil
	}
	if err := a.fs.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].location < files[j].location })
	return files, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, URL, location string) ([]replica.Issue, []replica.ClientInstance, error) {
	src, err := a.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	if a.cache != nil {
		if issues, clients, ok := a.cache.Lookup(location, src); ok {
			a.logger.Debug("cache hit", "path", location)
			return issues, clients, nil
		}
	}
	issues, clients, err := a.AnalyzeSource(ctx, src, location)
	if err != nil {
		return nil, nil, err
	}
	if a.cache != nil {
		a.cache.Store(location, src, issues, clients)
	}
	return issues, clients, nil
}

// depthOf counts path segments: "src" is 1, "src/api" is 2.
func depthOf(location string) int {
	return strings.Count(location, "/") + 1
}
