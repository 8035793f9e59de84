package analyzer

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"

	"github.com/replicalint/replicalint/analyzer/replica"
)

func parseSource(t *testing.T, path, source string) (*sitter.Node, []byte) {
	t.Helper()
	language, err := languageFor(path)
	if err != nil {
		t.Fatalf("failed to select language for %s: %v", path, err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(language)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
	return tree.RootNode(), []byte(source)
}

func classifySource(t *testing.T, path, source string) []*replica.Operation {
	t.Helper()
	root, src := parseSource(t, path, source)
	var result []*replica.Operation
	for _, call := range findNodesByType(root, "call_expression") {
		if operation, ok := classifyCall(call, src, path); ok {
			result = append(result, operation)
		}
	}
	return result
}

func TestClassifyCall(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected *replica.Operation
	}{
		{
			name:   "write on entity",
			source: `store.user.create({ data: input });`,
			expected: &replica.Operation{
				Kind:     replica.Write,
				Method:   replica.MethodCreate,
				Entity:   "user",
				Location: replica.CodeLocation{File: "app.ts", Line: 1, Column: 1},
			},
		},
		{
			name:   "read on entity",
			source: `store.user.findMany();`,
			expected: &replica.Operation{
				Kind:     replica.Read,
				Method:   replica.MethodFindMany,
				Entity:   "user",
				Location: replica.CodeLocation{File: "app.ts", Line: 1, Column: 1},
			},
		},
		{
			name:   "read routed through primary",
			source: `store.$primary().user.findMany();`,
			expected: &replica.Operation{
				Kind:               replica.Read,
				Method:             replica.MethodFindMany,
				Entity:             "user",
				Location:           replica.CodeLocation{File: "app.ts", Line: 1, Column: 1},
				UsesPrimaryRouting: true,
			},
		},
		{
			name:   "read routed through replica",
			source: `store.$replica().user.findMany();`,
			expected: &replica.Operation{
				Kind:               replica.Read,
				Method:             replica.MethodFindMany,
				Entity:             "user",
				Location:           replica.CodeLocation{File: "app.ts", Line: 1, Column: 1},
				UsesReplicaRouting: true,
			},
		},
		{
			name:   "routing below a longer receiver chain",
			source: `store.$primary().db.user.findMany();`,
			expected: &replica.Operation{
				Kind:               replica.Read,
				Method:             replica.MethodFindMany,
				Entity:             "user",
				Location:           replica.CodeLocation{File: "app.ts", Line: 1, Column: 1},
				UsesPrimaryRouting: true,
			},
		},
		{
			name:   "parenthesized routed receiver",
			source: `(store.$primary()).user.findMany();`,
			expected: &replica.Operation{
				Kind:               replica.Read,
				Method:             replica.MethodFindMany,
				Entity:             "user",
				Location:           replica.CodeLocation{File: "app.ts", Line: 1, Column: 1},
				UsesPrimaryRouting: true,
			},
		},
		{
			name:   "deep receiver chain",
			source: `app.services.db.user.findMany();`,
			expected: &replica.Operation{
				Kind:     replica.Read,
				Method:   replica.MethodFindMany,
				Entity:   "user",
				Location: replica.CodeLocation{File: "app.ts", Line: 1, Column: 1},
			},
		},
		{
			name:   "routing marker inside argument string is not routing",
			source: `store.user.findMany({ where: { note: "$replica()" } });`,
			expected: &replica.Operation{
				Kind:     replica.Read,
				Method:   replica.MethodFindMany,
				Entity:   "user",
				Location: replica.CodeLocation{File: "app.ts", Line: 1, Column: 1},
			},
		},
		{
			name: "call inside transaction",
			source: `store.$transaction(async (tx) => {
  await tx.user.create({ data: input });
});`,
			expected: &replica.Operation{
				Kind:          replica.Write,
				Method:        replica.MethodCreate,
				Entity:        "user",
				Location:      replica.CodeLocation{File: "app.ts", Line: 2, Column: 9},
				InTransaction: true,
			},
		},
		{
			name:     "method directly on primary accessor",
			source:   `store.$primary().findMany();`,
			expected: nil,
		},
		{
			name:     "method directly on replica accessor",
			source:   `store.$replica().findMany();`,
			expected: nil,
		},
		{
			name:     "accessor property in the entity slot",
			source:   `store.$replica.findMany();`,
			expected: nil,
		},
		{
			name:     "bare identifier receiver",
			source:   `user.findMany();`,
			expected: nil,
		},
		{
			name:     "bare call",
			source:   `findMany();`,
			expected: nil,
		},
		{
			name:     "untracked method",
			source:   `store.user.findSome();`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			operations := classifySource(t, "app.ts", tt.source)
			if tt.expected == nil {
				assert.Empty(t, operations)
				return
			}
			if !assert.Len(t, operations, 1) {
				return
			}
			assert.EqualValues(t, tt.expected, operations[0])
		})
	}
}

func TestInsideTransactionNested(t *testing.T) {
	source := `db.$transaction(async (tx) => {
  const rows = await withRetry(() => tx.user.findMany());
});`
	operations := classifySource(t, "app.ts", source)
	if !assert.Len(t, operations, 1) {
		return
	}
	assert.True(t, operations[0].InTransaction)
}
