package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/replicalint/replicalint/analyzer/replica"
)

// scope is one function-like region of a source file. Operations collected
// while walking its body belong to it alone; a nested function opens a child
// scope and captures its own calls.
type scope struct {
	name       string
	parent     int
	operations []*replica.Operation
}

// collectScopes walks the syntax tree in document order and assigns every
// classified call to the innermost enclosing function-like scope. Calls at
// the top level of a module belong to no scope and are not collected.
func collectScopes(root *sitter.Node, src []byte, path string) []*scope {
	var scopes []*scope
	var walk func(n *sitter.Node, current int)
	walk = func(n *sitter.Node, current int) {
		if isFunctionLike(n) {
			scopes = append(scopes, &scope{name: functionName(n, src), parent: current})
			current = len(scopes) - 1
		}
		if n.Type() == "call_expression" && current >= 0 {
			if operation, ok := classifyCall(n, src, path); ok {
				scopes[current].operations = append(scopes[current].operations, operation)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), current)
		}
	}
	walk(root, -1)
	return scopes
}
