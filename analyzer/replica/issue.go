package replica

import "fmt"

// Issue is one reported write/read pairing: a write followed, in the same
// function scope, by a read that may observe pre-write replica state.
type Issue struct {
	Severity       Severity  `json:"severity" yaml:"severity"`
	WriteOperation Operation `json:"writeOperation" yaml:"writeOperation"`
	ReadOperation  Operation `json:"readOperation" yaml:"readOperation"`
	CallChain      []string  `json:"callChain" yaml:"callChain"` // write location then read location, "file:line"
	Message        string    `json:"message" yaml:"message"`
}

// NewIssue pairs a write operation with a later read. The caller is
// responsible for the pairing preconditions: neither operation is
// transactional and the read does not use primary routing.
func NewIssue(write, read Operation) Issue {
	message := fmt.Sprintf(
		"write %s.%s at %s is followed by read %s.%s at %s that may hit a stale replica; route the read through $primary() or wrap both in a $transaction",
		write.Entity, write.Method, write.Location.FileLine(),
		read.Entity, read.Method, read.Location.FileLine(),
	)
	return Issue{
		Severity:       SeverityError,
		WriteOperation: write,
		ReadOperation:  read,
		CallChain:      []string{write.Location.FileLine(), read.Location.FileLine()},
		Message:        message,
	}
}
