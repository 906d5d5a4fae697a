package anywhere

import (
	"context"
	"reflect"

	"github.com/vektah/gqlparser/v2/ast"
)

// executionState holds everything one Execute call needs. Nothing in it is
// shared across calls; the fragment index in particular is rebuilt per call.
type executionState struct {
	ctx       context.Context
	resolver  Resolver
	fragments map[string]*ast.FragmentDefinition
	variables map[string]any
	opts      Options
}

// Execute runs an already-parsed query document against rootValue and
// returns the result pruned to the document's shape.
//
// The traversal is synchronous and single-threaded. The first error (an
// invalid document, an unknown fragment, a missing variable, or any error
// returned by the resolver) aborts the whole call with no partial result;
// resolver errors come back unwrapped.
func Execute(ctx context.Context, resolver Resolver, document *ast.QueryDocument, rootValue any, variables map[string]any, opts ...Option) (any, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	root, err := rootSelectionSet(document)
	if err != nil {
		return nil, err
	}
	state := &executionState{
		ctx:       ctx,
		resolver:  resolver,
		fragments: fragmentIndex(document),
		variables: variables,
		opts:      o,
	}
	// The root level skips the null short-circuit: a null root value still
	// produces the requested keys, since resolvers are free to ignore it.
	// Array roots fan out as usual.
	if items, ok := sliceElements(rootValue); ok {
		out := make([]any, len(items))
		for i, item := range items {
			v, err := state.assemble(item, root)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return state.executeSelectionLevel(rootValue, root)
}

// fragmentIndex maps fragment names to their definitions.
func fragmentIndex(document *ast.QueryDocument) map[string]*ast.FragmentDefinition {
	index := make(map[string]*ast.FragmentDefinition, len(document.Fragments))
	for _, f := range document.Fragments {
		index[f.Name] = f
	}
	return index
}

// rootSelectionSet locates the execution root: the first operation's
// selection set, or the selection set of a document that consists of a
// single standalone fragment definition.
func rootSelectionSet(document *ast.QueryDocument) (ast.SelectionSet, error) {
	if len(document.Operations) > 0 {
		return document.Operations[0].SelectionSet, nil
	}
	if len(document.Fragments) == 1 {
		return document.Fragments[0].SelectionSet, nil
	}
	return nil, &InvalidDocumentError{}
}

// assemble turns a (value, selection set) pair into the pruned output value.
//
// Policy, in order: nullish values short-circuit to nil without traversing
// the selection; slice and array values fan out element-wise against the
// same selection set, preserving nesting depth; anything else becomes the
// root for one selection level, producing a map keyed by ResultKey. When two
// included fields share a ResultKey at one level, the later one in document
// order wins.
func (s *executionState) assemble(value any, selectionSet ast.SelectionSet) (any, error) {
	if isNullish(value) {
		return nil, nil
	}

	if items, ok := sliceElements(value); ok {
		out := make([]any, len(items))
		for i, item := range items {
			v, err := s.assemble(item, selectionSet)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	return s.executeSelectionLevel(value, selectionSet)
}

// executeSelectionLevel runs one selection level against rootValue: expand
// the ordered field list, resolve each field, recurse into sub-selections,
// and key the results by ResultKey.
func (s *executionState) executeSelectionLevel(rootValue any, selectionSet ast.SelectionSet) (any, error) {
	fields, err := s.expandSelections(selectionSet, rootValue)
	if err != nil {
		return nil, err
	}
	result := make(map[string]any, len(fields))
	for _, field := range fields {
		raw, key, err := s.executeField(field, rootValue)
		if err != nil {
			return nil, err
		}
		if len(field.SelectionSet) > 0 {
			raw, err = s.assemble(raw, field.SelectionSet)
			if err != nil {
				return nil, err
			}
		}
		result[key] = raw
	}
	if s.opts.Mapper != nil {
		return s.opts.Mapper(result, rootValue), nil
	}
	return result, nil
}

// executeField invokes the resolver for one field. The resolver sees the
// actual field name; the alias only decides the output key.
func (s *executionState) executeField(field *ast.Field, rootValue any) (value any, resultKey string, err error) {
	args, err := argumentValues(field.Arguments, s.variables)
	if err != nil {
		return nil, "", err
	}
	directives, err := directiveValues(field.Directives, s.variables)
	if err != nil {
		return nil, "", err
	}
	resultKey = field.Alias
	if resultKey == "" {
		resultKey = field.Name
	}
	info := Info{
		IsLeaf:     len(field.SelectionSet) == 0,
		ResultKey:  resultKey,
		Field:      field,
		Directives: directives,
	}
	value, err = s.resolver(s.ctx, field.Name, rootValue, args, info)
	if err != nil {
		return nil, "", err
	}
	return value, resultKey, nil
}

// sliceElements extracts the elements of slice and array values. Byte slices
// count as scalars, not arrays.
func sliceElements(v any) ([]any, bool) {
	if direct, ok := v.([]any); ok {
		return direct, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// isNullish returns true for nil interfaces and typed nils (ptr, map, slice,
// func, chan, interface).
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
