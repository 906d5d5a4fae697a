package anywhere

import (
	"context"

	"github.com/vektah/gqlparser/v2/ast"
)

// Resolver produces the value for a single field.
//
// Contract
//   - ctx is the context given to Execute, threaded through unchanged. The
//     engine never inspects it.
//   - fieldName is the field's actual name from the document. The alias, if
//     any, is visible only as info.ResultKey and decides where the value
//     lands in the output.
//   - rootValue is the value the enclosing selection set is being executed
//     against: the Execute root at the top level, and whatever the parent
//     field's resolver returned below that. It may be anything, including
//     nil-adjacent values the resolver chooses to ignore.
//   - args holds the field's arguments with variables already substituted.
//     It is never nil; a field without arguments gets an empty map.
//   - A returned error aborts the entire execution immediately and reaches
//     the Execute caller unwrapped. There is no retry and no partial result.
//   - Implementations must not mutate rootValue or args.
type Resolver func(ctx context.Context, fieldName string, rootValue any, args map[string]any, info Info) (any, error)

// Info carries per-field metadata for one Resolver invocation.
type Info struct {
	// IsLeaf is true iff the field has no nested selection set.
	IsLeaf bool

	// ResultKey is the alias when present, else the field name. It is the
	// key the field's value is stored under in the output object.
	ResultKey string

	// Field is the underlying AST node, for resolvers that need position,
	// raw arguments, or the sub-selection itself.
	Field *ast.Field

	// Directives maps each directive on the field to its resolved argument
	// values, @skip/@include included. Nil when the field carries none.
	Directives map[string]map[string]any
}

// FragmentMatcher decides whether a fragment with the given type condition
// applies to rootValue. Fragments without a type condition always apply and
// are never passed to the matcher.
type FragmentMatcher func(rootValue any, typeCondition string, ctx context.Context) bool

// ResultMapper post-processes each assembled output object before it is
// returned or embedded into its parent.
type ResultMapper func(fields map[string]any, rootValue any) any

// Options tunes one execution.
type Options struct {
	// Matcher gates fragments by type condition. Nil means every fragment
	// matches, which is the schemaless default.
	Matcher FragmentMatcher

	// Mapper transforms each assembled object. Nil returns the plain map.
	Mapper ResultMapper
}

// Option mutates Options.
type Option func(*Options)

// WithFragmentMatcher installs a type-condition matcher.
func WithFragmentMatcher(m FragmentMatcher) Option {
	return func(o *Options) { o.Matcher = m }
}

// WithResultMapper installs a per-object result mapper.
func WithResultMapper(m ResultMapper) Option {
	return func(o *Options) { o.Mapper = m }
}
