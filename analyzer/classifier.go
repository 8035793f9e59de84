package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/replicalint/replicalint/analyzer/replica"
)

// classifyCall inspects a call_expression node and, when the callee names a
// tracked store method on an entity access, returns the classified
// operation. Calls that do not match the shape receiver.entity.method(...)
// are ignored, as are accesses where the entity slot holds the routing
// accessors themselves.
func classifyCall(call *sitter.Node, src []byte, path string) (*replica.Operation, bool) {
	callee := call.ChildByFieldName("function")
	if callee == nil || callee.Type() != "member_expression" {
		return nil, false
	}
	property := callee.ChildByFieldName("property")
	if property == nil {
		return nil, false
	}
	method, kind, ok := replica.KindOf(property.Content(src))
	if !ok {
		return nil, false
	}
	entityAccess := callee.ChildByFieldName("object")
	if entityAccess == nil || entityAccess.Type() != "member_expression" {
		return nil, false
	}
	entityNode := entityAccess.ChildByFieldName("property")
	if entityNode == nil {
		return nil, false
	}
	entity := entityNode.Content(src)
	if entity == "$primary" || entity == "$replica" {
		return nil, false
	}
	operation := &replica.Operation{
		Kind:          kind,
		Method:        method,
		Entity:        entity,
		Location:      locationOf(call, path),
		InTransaction: insideTransaction(call, src),
	}
	operation.UsesPrimaryRouting, operation.UsesReplicaRouting = routingFlags(entityAccess, src)
	return operation, true
}

// routingFlags walks the receiver chain starting at the entity access and
// reports whether the chain routes through $primary() or $replica(). The
// first node whose text carries a routing call decides both flags; $primary
// wins when a single node carries both.
func routingFlags(start *sitter.Node, src []byte) (usesPrimary, usesReplica bool) {
	for n := start; n != nil; n = receiverOf(n) {
		text := n.Content(src)
		if strings.Contains(text, "$primary()") {
			return true, false
		}
		if strings.Contains(text, "$replica()") {
			return false, true
		}
	}
	return false, false
}

// receiverOf returns the expression the given one is applied to: the object
// of a member access, the callee of a call. Any other node kind ends the
// receiver chain.
func receiverOf(n *sitter.Node) *sitter.Node {
	switch n.Type() {
	case "member_expression":
		return n.ChildByFieldName("object")
	case "call_expression":
		return n.ChildByFieldName("function")
	}
	return nil
}

// insideTransaction reports whether the call sits anywhere inside a
// $transaction(...) call, however deeply nested.
func insideTransaction(call *sitter.Node, src []byte) bool {
	for n := call.Parent(); n != nil; n = n.Parent() {
		if n.Type() != "call_expression" {
			continue
		}
		callee := n.ChildByFieldName("function")
		if callee == nil || callee.Type() != "member_expression" {
			continue
		}
		property := callee.ChildByFieldName("property")
		if property != nil && property.Content(src) == "$transaction" {
			return true
		}
	}
	return false
}
