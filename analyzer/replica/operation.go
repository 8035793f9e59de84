// Package replica defines the data model produced by the read-after-write
// analyzer: classified store operations, paired issues, detected client
// instances and the aggregated scan report.
package replica

import (
	"fmt"
	"sort"
)

// OperationKind classifies a store call as a read or a write.
type OperationKind string

const (
	Read  OperationKind = "read"
	Write OperationKind = "write"
)

// Method is one of the tracked store-API method names. The set is closed:
// methodKinds enumerates every member, and nothing outside the table is ever
// classified.
type Method string

const (
	MethodCreate     Method = "create"
	MethodCreateMany Method = "createMany"
	MethodUpdate     Method = "update"
	MethodUpdateMany Method = "updateMany"
	MethodUpsert     Method = "upsert"
	MethodDelete     Method = "delete"
	MethodDeleteMany Method = "deleteMany"

	MethodFindMany          Method = "findMany"
	MethodFindUnique        Method = "findUnique"
	MethodFindFirst         Method = "findFirst"
	MethodFindFirstOrThrow  Method = "findFirstOrThrow"
	MethodFindUniqueOrThrow Method = "findUniqueOrThrow"
	MethodCount             Method = "count"
	MethodAggregate         Method = "aggregate"
	MethodGroupBy           Method = "groupBy"
)

var methodKinds = map[Method]OperationKind{
	MethodCreate:     Write,
	MethodCreateMany: Write,
	MethodUpdate:     Write,
	MethodUpdateMany: Write,
	MethodUpsert:     Write,
	MethodDelete:     Write,
	MethodDeleteMany: Write,

	MethodFindMany:          Read,
	MethodFindUnique:        Read,
	MethodFindFirst:         Read,
	MethodFindFirstOrThrow:  Read,
	MethodFindUniqueOrThrow: Read,
	MethodCount:             Read,
	MethodAggregate:         Read,
	MethodGroupBy:           Read,
}

// KindOf looks up a raw method name in the classification table. It is the
// only entry point for turning source text into a Method.
func KindOf(name string) (Method, OperationKind, bool) {
	method := Method(name)
	kind, ok := methodKinds[method]
	if !ok {
		return "", "", false
	}
	return method, kind, true
}

// WriteMethods returns the write vocabulary in lexical order.
func WriteMethods() []Method {
	return methodsOfKind(Write)
}

// ReadMethods returns the read vocabulary in lexical order.
func ReadMethods() []Method {
	return methodsOfKind(Read)
}

func methodsOfKind(kind OperationKind) []Method {
	var result []Method
	for method, k := range methodKinds {
		if k == kind {
			result = append(result, method)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Severity of a reported issue. The analyzer only ever produces
// SeverityError; the type exists so reporters do not hard-code the string.
type Severity string

const SeverityError Severity = "error"

// CodeLocation is a 1-based position in a source file.
type CodeLocation struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

func (l CodeLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// FileLine renders the location as "file:line", the call-chain element
// format.
func (l CodeLocation) FileLine() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Operation is one classified store call expression. Operations are built
// fresh per call expression during a single pass and never mutated after.
type Operation struct {
	Kind               OperationKind `json:"kind" yaml:"kind"`                             // read or write
	Method             Method        `json:"method" yaml:"method"`                         // store-API method name
	Entity             string        `json:"entity" yaml:"entity"`                         // target model/collection name
	Location           CodeLocation  `json:"location" yaml:"location"`                     // call expression start
	UsesPrimaryRouting bool          `json:"usesPrimaryRouting" yaml:"usesPrimaryRouting"` // $primary() on the chain
	UsesReplicaRouting bool          `json:"usesReplicaRouting" yaml:"usesReplicaRouting"` // $replica() on the chain
	InTransaction      bool          `json:"inTransaction" yaml:"inTransaction"`           // wrapped by $transaction
}
