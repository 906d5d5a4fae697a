package anywhere

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// expandSelections flattens one selection level into the ordered field list
// to execute. Inline fragments and named spreads contribute their fields in
// place; a spread naming an unknown fragment fails the walk. The walker is a
// pure function of the AST, the variables, and the fragment index; it never
// consults the data except through the optional fragment matcher.
func (s *executionState) expandSelections(selectionSet ast.SelectionSet, rootValue any) ([]*ast.Field, error) {
	var fields []*ast.Field
	for _, selection := range selectionSet {
		switch node := selection.(type) {
		case *ast.Field:
			include, err := shouldInclude(node.Directives, s.variables)
			if err != nil {
				return nil, err
			}
			if include {
				fields = append(fields, node)
			}

		case *ast.InlineFragment:
			include, err := shouldInclude(node.Directives, s.variables)
			if err != nil {
				return nil, err
			}
			if !include || !s.fragmentMatches(rootValue, node.TypeCondition) {
				continue
			}
			inner, err := s.expandSelections(node.SelectionSet, rootValue)
			if err != nil {
				return nil, err
			}
			fields = append(fields, inner...)

		case *ast.FragmentSpread:
			include, err := shouldInclude(node.Directives, s.variables)
			if err != nil {
				return nil, err
			}
			if !include {
				continue
			}
			fragment := s.fragments[node.Name]
			if fragment == nil {
				return nil, &MissingFragmentError{Name: node.Name}
			}
			if !s.fragmentMatches(rootValue, fragment.TypeCondition) {
				continue
			}
			inner, err := s.expandSelections(fragment.SelectionSet, rootValue)
			if err != nil {
				return nil, err
			}
			fields = append(fields, inner...)
		}
	}
	return fields, nil
}

func (s *executionState) fragmentMatches(rootValue any, typeCondition string) bool {
	if typeCondition == "" || s.opts.Matcher == nil {
		return true
	}
	return s.opts.Matcher(rootValue, typeCondition, s.ctx)
}

// shouldInclude applies @skip and @include. The result is include AND NOT
// skip; a missing directive defaults to keeping the node, and directives
// with any other name are no-ops. The if argument may be a literal boolean
// or a variable reference.
func shouldInclude(directives ast.DirectiveList, variables map[string]any) (bool, error) {
	skip, include := false, true
	if d := directives.ForName("skip"); d != nil {
		v, err := directiveIfValue(d, variables)
		if err != nil {
			return false, err
		}
		if b, ok := v.(bool); ok {
			skip = b
		}
	}
	if d := directives.ForName("include"); d != nil {
		v, err := directiveIfValue(d, variables)
		if err != nil {
			return false, err
		}
		if b, ok := v.(bool); ok {
			include = b
		}
	}
	return include && !skip, nil
}

func directiveIfValue(d *ast.Directive, variables map[string]any) (any, error) {
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return nil, nil
	}
	return valueFromAST(arg.Value, variables)
}
