package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/replicalint/replicalint/analyzer/replica"
)

// detectClients scans variable declarations for store client construction.
// Detection is textual on the initializer and deliberately loose: it feeds
// the advisory replica-extension notice, never the issue list.
func detectClients(root *sitter.Node, src []byte, path string) []replica.ClientInstance {
	var clients []replica.ClientInstance
	for _, declarator := range findNodesByType(root, "variable_declarator") {
		name := declarator.ChildByFieldName("name")
		value := declarator.ChildByFieldName("value")
		if name == nil || value == nil {
			continue
		}
		if !isClientInitializer(value, src) {
			continue
		}
		clients = append(clients, replica.ClientInstance{
			Name:                name.Content(src),
			File:                path,
			Line:                locationOf(declarator, path).Line,
			HasReplicaExtension: strings.Contains(value.Content(src), "readReplicas"),
		})
	}
	return clients
}

// isClientInitializer reports whether an initializer expression constructs a
// store client: a direct `new PrismaClient(...)`, or any expression whose
// text mentions the client type or an $extends chain.
func isClientInitializer(value *sitter.Node, src []byte) bool {
	if value.Type() == "new_expression" && constructedTypeName(value, src) == "PrismaClient" {
		return true
	}
	text := value.Content(src)
	return strings.Contains(text, "PrismaClient") || strings.Contains(text, "$extends")
}

// constructedTypeName returns the constructor name of a new_expression,
// empty when the constructor is anything but a plain identifier.
func constructedTypeName(value *sitter.Node, src []byte) string {
	constructor := value.ChildByFieldName("constructor")
	if constructor == nil || constructor.Type() != "identifier" {
		return ""
	}
	return constructor.Content(src)
}
