package anywhere

import (
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// argumentValues resolves an argument list into a plain value map, with
// variable references substituted from variables. The map is never nil.
func argumentValues(args ast.ArgumentList, variables map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		v, err := valueFromAST(arg.Value, variables)
		if err != nil {
			return nil, err
		}
		out[arg.Name] = v
	}
	return out, nil
}

// directiveValues resolves every directive on a field into its argument map,
// keyed by directive name. Returns nil for an empty list so Info.Directives
// stays nil on undirected fields.
func directiveValues(directives ast.DirectiveList, variables map[string]any) (map[string]map[string]any, error) {
	if len(directives) == 0 {
		return nil, nil
	}
	out := make(map[string]map[string]any, len(directives))
	for _, d := range directives {
		args, err := argumentValues(d.Arguments, variables)
		if err != nil {
			return nil, err
		}
		out[d.Name] = args
	}
	return out, nil
}

// valueFromAST converts one AST value into a Go value. Enums carry their
// bare name as a string; lists and input objects resolve recursively, so a
// variable reference works at any nesting depth.
func valueFromAST(value *ast.Value, variables map[string]any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch value.Kind {
	case ast.Variable:
		v, ok := variables[value.Raw]
		if !ok {
			return nil, &MissingVariableError{Name: value.Raw}
		}
		return v, nil
	case ast.IntValue:
		iv, _ := strconv.Atoi(value.Raw)
		return iv, nil
	case ast.FloatValue:
		fv, _ := strconv.ParseFloat(value.Raw, 64)
		return fv, nil
	case ast.StringValue, ast.BlockValue:
		return value.Raw, nil
	case ast.BooleanValue:
		return value.Raw == "true", nil
	case ast.NullValue:
		return nil, nil
	case ast.EnumValue:
		return value.Raw, nil
	case ast.ListValue:
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			v, err := valueFromAST(c.Value, variables)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case ast.ObjectValue:
		m := make(map[string]any, len(value.Children))
		for _, f := range value.Children {
			v, err := valueFromAST(f.Value, variables)
			if err != nil {
				return nil, err
			}
			m[f.Name] = v
		}
		return m, nil
	default:
		return nil, nil
	}
}
