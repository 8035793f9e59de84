package analyzer

import (
	"github.com/replicalint/replicalint/analyzer/replica"
)

// detectIssues pairs writes with later reads inside each scope. Every write
// is paired with every read that follows it in document order, so a single
// write can produce several issues. Operations inside $transaction blocks
// are exempt on both sides, and reads routed through $primary() never pair.
func detectIssues(scopes []*scope) []replica.Issue {
	var issues []replica.Issue
	for _, s := range scopes {
		for i, write := range s.operations {
			if write.Kind != replica.Write || write.InTransaction {
				continue
			}
			for _, read := range s.operations[i+1:] {
				if read.Kind != replica.Read || read.InTransaction || read.UsesPrimaryRouting {
					continue
				}
				issues = append(issues, replica.NewIssue(*write, *read))
			}
		}
	}
	return issues
}
