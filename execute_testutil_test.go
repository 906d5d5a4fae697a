package anywhere

import (
	"context"
	"sync"
	"testing"

	"github.com/vektah/gqlparser/v2/ast"

	language "github.com/wizardzloy/graphql-anywhere/internal/language"
)

// mustParseQuery parses a GraphQL query and fails the test on error.
func mustParseQuery(t *testing.T, q string) *ast.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return d
}

// fieldNameResolver returns each field's own name, which makes the output
// shape directly readable in expectations.
func fieldNameResolver(_ context.Context, fieldName string, _ any, _ map[string]any, _ Info) (any, error) {
	return fieldName, nil
}

// recordingResolver wraps a Resolver and records the field names it was
// invoked with, in order.
type recordingResolver struct {
	mu    sync.Mutex
	calls []string
	next  Resolver
}

func (r *recordingResolver) resolve(ctx context.Context, fieldName string, rootValue any, args map[string]any, info Info) (any, error) {
	r.mu.Lock()
	r.calls = append(r.calls, fieldName)
	r.mu.Unlock()
	return r.next(ctx, fieldName, rootValue, args, info)
}
