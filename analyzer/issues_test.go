package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/replicalint/replicalint/analyzer/replica"
)

func detectSource(t *testing.T, path, source string) []replica.Issue {
	t.Helper()
	root, src := parseSource(t, path, source)
	return detectIssues(collectScopes(root, src, path))
}

func TestDetectIssues(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected [][2]replica.Method // write, read pairs in report order
	}{
		{
			name: "write followed by read",
			source: `async function handler(store) {
  await store.user.create({ data: input });
  return store.user.findMany();
}`,
			expected: [][2]replica.Method{
				{replica.MethodCreate, replica.MethodFindMany},
			},
		},
		{
			name: "read routed through primary",
			source: `async function handler(store) {
  await store.user.create({ data: input });
  return store.$primary().user.findMany();
}`,
			expected: nil,
		},
		{
			name: "write and read inside transaction",
			source: `async function handler(store) {
  await store.$transaction(async (tx) => {
    await tx.user.create({ data: input });
    return tx.user.findMany();
  });
}`,
			expected: nil,
		},
		{
			name: "interleaved writes and reads",
			source: `async function handler(store) {
  await store.user.create({ data: input });
  const first = await store.user.findFirst();
  await store.user.update({ where: { id }, data: patch });
  return store.user.findUnique({ where: { id } });
}`,
			expected: [][2]replica.Method{
				{replica.MethodCreate, replica.MethodFindFirst},
				{replica.MethodCreate, replica.MethodFindUnique},
				{replica.MethodUpdate, replica.MethodFindUnique},
			},
		},
		{
			name: "read before write",
			source: `async function handler(store) {
  const users = await store.user.findMany();
  await store.user.create({ data: input });
}`,
			expected: nil,
		},
		{
			name: "write and read in separate functions",
			source: `async function writeUser(store) {
  await store.user.create({ data: input });
}
async function readUsers(store) {
  return store.user.findMany();
}`,
			expected: nil,
		},
		{
			name: "read in nested function does not pair",
			source: `async function handler(store) {
  await store.user.create({ data: input });
  const later = async () => store.user.findMany();
}`,
			expected: nil,
		},
		{
			name: "write on one entity pairs with read on another",
			source: `async function handler(store) {
  await store.user.create({ data: input });
  return store.post.findMany();
}`,
			expected: [][2]replica.Method{
				{replica.MethodCreate, replica.MethodFindMany},
			},
		},
		{
			name: "explicit replica routing still pairs",
			source: `async function handler(store) {
  await store.user.create({ data: input });
  return store.$replica().user.findMany();
}`,
			expected: [][2]replica.Method{
				{replica.MethodCreate, replica.MethodFindMany},
			},
		},
		{
			name: "transactional write does not pair with later read",
			source: `async function handler(store) {
  await store.$transaction(async (tx) => {
    await tx.user.create({ data: input });
  });
  return store.user.findMany();
}`,
			expected: nil,
		},
		{
			name: "every write pairs with every later read",
			source: `async function handler(store) {
  await store.user.create({ data: a });
  await store.user.update({ where: { id }, data: patch });
  const first = await store.user.findFirst();
  const all = await store.user.findMany();
  return store.user.count();
}`,
			expected: [][2]replica.Method{
				{replica.MethodCreate, replica.MethodFindFirst},
				{replica.MethodCreate, replica.MethodFindMany},
				{replica.MethodCreate, replica.MethodCount},
				{replica.MethodUpdate, replica.MethodFindFirst},
				{replica.MethodUpdate, replica.MethodFindMany},
				{replica.MethodUpdate, replica.MethodCount},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := detectSource(t, "app.ts", tt.source)
			if !assert.Len(t, issues, len(tt.expected)) {
				return
			}
			for i, pair := range tt.expected {
				assert.Equal(t, pair[0], issues[i].WriteOperation.Method, "issue %d write", i)
				assert.Equal(t, pair[1], issues[i].ReadOperation.Method, "issue %d read", i)
			}
		})
	}
}

func TestDetectIssuesReportContent(t *testing.T) {
	source := `async function handler(store) {
  await store.user.create({ data: input });
  return store.user.findMany();
}`
	issues := detectSource(t, "src/app.ts", source)
	if !assert.Len(t, issues, 1) {
		return
	}
	issue := issues[0]
	assert.Equal(t, replica.SeverityError, issue.Severity)
	assert.Equal(t, "user", issue.WriteOperation.Entity)
	assert.Equal(t, replica.CodeLocation{File: "src/app.ts", Line: 2, Column: 9}, issue.WriteOperation.Location)
	assert.Equal(t, replica.CodeLocation{File: "src/app.ts", Line: 3, Column: 10}, issue.ReadOperation.Location)
	assert.Equal(t, []string{"src/app.ts:2", "src/app.ts:3"}, issue.CallChain)
	assert.Contains(t, issue.Message, "user.create")
	assert.Contains(t, issue.Message, "user.findMany")
	assert.Contains(t, issue.Message, "$primary()")
}
