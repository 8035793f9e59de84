package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/replicalint/replicalint/analyzer/replica"
)

// functionLikeTypes are the node kinds that introduce a callable body. The
// grammar names anonymous function expressions plain "function"; newer
// grammar revisions use "function_expression", so both are listed.
var functionLikeTypes = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"method_definition":              true,
	"arrow_function":                 true,
	"function":                       true,
	"function_expression":            true,
	"generator_function":             true,
}

func isFunctionLike(n *sitter.Node) bool {
	return functionLikeTypes[n.Type()]
}

// locationOf resolves a node's start to a 1-based file position.
func locationOf(n *sitter.Node, path string) replica.CodeLocation {
	point := n.StartPoint()
	return replica.CodeLocation{
		File:   path,
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
	}
}

// findNodesByType collects every node of the given type in the subtree, the
// node itself included, in document order.
func findNodesByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node.Type() == nodeType {
		results = append(results, node)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		results = append(results, findNodesByType(child, nodeType)...)
	}
	return results
}

// functionName extracts a display name for a function-like node: the declared
// name when present, otherwise the variable a function expression is assigned
// to, otherwise empty.
func functionName(n *sitter.Node, src []byte) string {
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		return nameNode.Content(src)
	}
	if parent := n.Parent(); parent != nil && parent.Type() == "variable_declarator" {
		if nameNode := parent.ChildByFieldName("name"); nameNode != nil {
			return nameNode.Content(src)
		}
	}
	return ""
}
