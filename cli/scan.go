package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/replicalint/replicalint/analyzer"
	"github.com/replicalint/replicalint/analyzer/replica"
	"github.com/replicalint/replicalint/cli/config"
	"github.com/replicalint/replicalint/cli/output"
	"github.com/replicalint/replicalint/project"
)

// ErrIssuesFound marks a completed scan that reported at least one issue.
// Execute maps it to exit code 1 instead of the operational-error code.
var ErrIssuesFound = errors.New("replica consistency issues found")

// ScanOptions holds options for the scan command.
type ScanOptions struct {
	Path      string   // file or directory to scan
	Include   []string // glob patterns of files to scan
	Exclude   []string // glob patterns of files to skip
	Output    string   // report file, empty writes to stdout
	Cache     bool     // reuse results for unchanged files
	CachePath string   // cache file location
	MaxDepth  int      // directory recursion bound
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan sources for reads that may hit a stale replica",
		Long: `Analyze TypeScript and JavaScript sources for read-after-write hazards.

Within each function, a write through the store client followed by a read of
the client is reported unless the read is routed through $primary() or both
calls run inside a $transaction callback.`,
		Example: `  # Scan the current project
  replicalint scan

  # Scan a single file
  replicalint scan src/api/users.ts

  # JSON report for CI
  replicalint scan --format json

  # Restrict the scanned set
  replicalint scan --include 'src/**' --exclude 'src/legacy/**'

  # Reuse results for unchanged files between runs
  replicalint scan --cache`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runScan(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Include, "include", nil, "Glob patterns of files to scan")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Glob patterns of files to skip")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.Cache, "cache", false, "Reuse results for unchanged files")
	cmd.Flags().StringVar(&opts.CachePath, "cache-path", "", "Cache file location")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "Directory recursion depth, 0 scans everything")

	return cmd
}

func runScan(cmd *cobra.Command, opts *ScanOptions) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	r := GetRenderer(ctx)

	applyScanConfig(cmd, cfg, opts)

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	matcher, err := analyzer.NewMatcher(opts.Include, opts.Exclude)
	if err != nil {
		return err
	}

	options := []analyzer.Option{
		analyzer.WithLogger(logger),
		analyzer.WithMatcher(matcher),
	}
	if opts.MaxDepth > 0 {
		options = append(options, analyzer.WithMaxDepth(opts.MaxDepth))
	}
	var cache *analyzer.Cache
	if opts.Cache {
		cache = analyzer.OpenCache(ctx, opts.CachePath)
		options = append(options, analyzer.WithCache(cache))
	}

	// Pre-flight: name the project being scanned and warn when it does not
	// look like a JavaScript one. Detection failures never block the scan.
	if p, err := project.New().Detect(ctx, opts.Path); err == nil {
		logger.Debug("project detected",
			"name", p.Name, "kind", p.Kind, "root", p.Root, "typescript", p.HasTypeScript)
		if p.Kind != project.KindJavaScript {
			r.Warn(fmt.Sprintf("%s does not look like a JavaScript or TypeScript project (detected %s)",
				opts.Path, describeProject(p)))
		}
	}

	started := time.Now()
	result, err := analyzer.New(options...).AnalyzePath(ctx, opts.Path)
	if err != nil {
		return err
	}
	report := replica.BuildReport(result.Issues, result.FilesAnalyzed, time.Since(started))

	if cache != nil {
		if err := cache.Save(ctx); err != nil {
			logger.Warn("failed to persist cache", "path", opts.CachePath, "error", err)
		}
	}

	if !result.HasReplicaClient() {
		r.Warn("no store client with a read replicas extension was detected; reads may already target the primary")
	}

	if opts.Output != "" {
		if err := writeReportFile(opts.Output, report, r.EffectiveMode()); err != nil {
			return err
		}
	} else if err := renderReport(r, report); err != nil {
		return err
	}

	if report.Summary.TotalIssues > 0 {
		return ErrIssuesFound
	}
	return nil
}

// applyScanConfig fills options the user did not set on the command line
// from the merged configuration.
func applyScanConfig(cmd *cobra.Command, cfg *config.Config, opts *ScanOptions) {
	if opts.Path == "" {
		opts.Path = cfg.Path
	}
	if !cmd.Flags().Changed("include") {
		opts.Include = cfg.Include
	}
	if !cmd.Flags().Changed("exclude") {
		opts.Exclude = cfg.Exclude
	}
	if !cmd.Flags().Changed("cache") {
		opts.Cache = cfg.Cache
	}
	if opts.CachePath == "" {
		opts.CachePath = cfg.CachePath
	}
	if !cmd.Flags().Changed("max-depth") {
		opts.MaxDepth = cfg.MaxDepth
	}
	if opts.Output == "" {
		opts.Output = cfg.Output
	}
}

func describeProject(p *project.Project) string {
	if p.Kind == project.KindUnknown {
		return "no project manifest"
	}
	return fmt.Sprintf("%s project %s", p.Kind, p.Name)
}

func renderReport(r *output.Renderer, report replica.Report) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(report)
	case output.ModeYAML:
		return r.YAML(report)
	}
	renderReportText(r, report)
	return nil
}

func renderReportText(r *output.Renderer, report replica.Report) {
	styles := r.Styles()

	if report.Summary.TotalIssues == 0 {
		r.Success("No replica consistency issues found")
		r.Printf("Scanned %d files in %dms\n", report.Summary.FilesAnalyzed, report.Summary.ExecutionTime)
		return
	}

	currentFile := ""
	for _, issue := range report.Issues {
		location := issue.ReadOperation.Location
		if location.File != currentFile {
			if currentFile != "" {
				r.Println("")
			}
			currentFile = location.File
			r.Println(styles.Path.Render(currentFile))
		}
		r.Printf("  %s  %s  %s\n",
			styles.Muted.Render(fmt.Sprintf("%d:%d", location.Line, location.Column)),
			styles.Error.Render(string(issue.Severity)),
			issue.Message,
		)
	}
	r.Println("")
	r.Printf("Summary: %d issues in %d files (%dms)\n",
		report.Summary.TotalIssues, report.Summary.FilesAnalyzed, report.Summary.ExecutionTime)
}

// writeReportFile writes the report to path, as YAML when that mode is
// selected and as indented JSON otherwise.
func writeReportFile(path string, report replica.Report, mode output.Mode) error {
	var data []byte
	var err error
	if mode == output.ModeYAML {
		data, err = yaml.Marshal(report)
	} else {
		data, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
