package replica

import "time"

// Summary aggregates one scan run.
type Summary struct {
	TotalIssues   int   `json:"totalIssues" yaml:"totalIssues"`
	FilesAnalyzed int   `json:"filesAnalyzed" yaml:"filesAnalyzed"`
	ExecutionTime int64 `json:"executionTime" yaml:"executionTime"` // milliseconds
}

// Report is the wire shape handed to reporters.
type Report struct {
	Summary Summary `json:"summary" yaml:"summary"`
	Issues  []Issue `json:"issues" yaml:"issues"`
}

// BuildReport assembles a Report. Issues keep their analysis order; a nil
// slice becomes an empty one so the JSON form is always an array.
func BuildReport(issues []Issue, filesAnalyzed int, elapsed time.Duration) Report {
	if issues == nil {
		issues = []Issue{}
	}
	return Report{
		Summary: Summary{
			TotalIssues:   len(issues),
			FilesAnalyzed: filesAnalyzed,
			ExecutionTime: elapsed.Milliseconds(),
		},
		Issues: issues,
	}
}
