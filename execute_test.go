package anywhere

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestExecute_OutputShape(t *testing.T) {
	t.Run("keys follow the selection, not the data", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a b { c d } }`)
		got, err := Execute(context.Background(), fieldNameResolver, doc, map[string]any{"unrelated": 1}, nil)
		require.NoError(t, err)

		want := map[string]any{
			"a": "a",
			"b": map[string]any{"c": "c", "d": "d"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nil root value still produces the requested keys", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a }`)
		got, err := Execute(context.Background(), fieldNameResolver, doc, nil, nil)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": "a"}, got)
	})

	t.Run("empty output object when everything is excluded", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a @skip(if: true) }`)
		got, err := Execute(context.Background(), fieldNameResolver, doc, nil, nil)
		require.NoError(t, err)
		require.Equal(t, map[string]any{}, got)
	})
}

func TestExecute_Aliases(t *testing.T) {
	doc := mustParseQuery(t, `{ renamed: a a }`)
	var sawNames []string
	resolver := func(_ context.Context, fieldName string, _ any, _ map[string]any, info Info) (any, error) {
		sawNames = append(sawNames, fieldName+"/"+info.ResultKey)
		return fieldName, nil
	}
	got, err := Execute(context.Background(), resolver, doc, nil, nil)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"renamed": "a", "a": "a"}, got)
	// The resolver always sees the actual field name; the alias only moves
	// the output key.
	require.Equal(t, []string{"a/renamed", "a/a"}, sawNames)
}

func TestExecute_Info(t *testing.T) {
	doc := mustParseQuery(t, `{ leaf parent { child } }`)
	infos := map[string]Info{}
	resolver := func(_ context.Context, fieldName string, _ any, _ map[string]any, info Info) (any, error) {
		infos[info.ResultKey] = info
		return map[string]any{}, nil
	}
	_, err := Execute(context.Background(), resolver, doc, nil, nil)
	require.NoError(t, err)

	require.True(t, infos["leaf"].IsLeaf)
	require.False(t, infos["parent"].IsLeaf)
	require.True(t, infos["child"].IsLeaf)
	require.NotNil(t, infos["parent"].Field)
	require.Equal(t, "parent", infos["parent"].Field.Name)
	require.Nil(t, infos["leaf"].Directives)
}

func TestExecute_InfoDirectives(t *testing.T) {
	doc := mustParseQuery(t, `{ feed(type: "top") @connection(key: "feed", filter: ["type"]) }`)
	var info Info
	var args map[string]any
	resolver := func(_ context.Context, _ string, _ any, a map[string]any, i Info) (any, error) {
		info, args = i, a
		return nil, nil
	}
	_, err := Execute(context.Background(), resolver, doc, nil, nil)
	require.NoError(t, err)

	require.Equal(t, map[string]any{"type": "top"}, args)
	want := map[string]map[string]any{
		"connection": {"key": "feed", "filter": []any{"type"}},
	}
	if diff := cmp.Diff(want, info.Directives); diff != "" {
		t.Fatalf("info directives mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_EnumArgument(t *testing.T) {
	// Enums reach the resolver as their bare name.
	doc := mustParseQuery(t, `{ a(value: ENUM_VALUE) }`)
	resolver := func(_ context.Context, _ string, _ any, args map[string]any, _ Info) (any, error) {
		return args["value"], nil
	}
	got, err := Execute(context.Background(), resolver, doc, nil, nil)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": "ENUM_VALUE"}, got)
}

func TestExecute_ArrayTransparency(t *testing.T) {
	t.Run("constant array re-expanded per element", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a { b } }`)
		resolver := func(_ context.Context, _ string, _ any, _ map[string]any, _ Info) (any, error) {
			return []any{1, 2}, nil
		}
		got, err := Execute(context.Background(), resolver, doc, nil, nil)
		require.NoError(t, err)

		want := map[string]any{
			"a": []any{
				map[string]any{"b": []any{1, 2}},
				map[string]any{"b": []any{1, 2}},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nested arrays preserve depth", func(t *testing.T) {
		doc := mustParseQuery(t, `{ rows { x } }`)
		resolver := func(_ context.Context, fieldName string, root any, _ map[string]any, _ Info) (any, error) {
			if fieldName == "rows" {
				return [][]map[string]any{
					{{"x": 1}, {"x": 2}},
					{{"x": 3}},
				}, nil
			}
			v, _ := lookupField(root, fieldName)
			return v, nil
		}
		got, err := Execute(context.Background(), resolver, doc, nil, nil)
		require.NoError(t, err)

		want := map[string]any{
			"rows": []any{
				[]any{map[string]any{"x": 1}, map[string]any{"x": 2}},
				[]any{map[string]any{"x": 3}},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("typed slices of scalars pass through leaves", func(t *testing.T) {
		doc := mustParseQuery(t, `{ ids }`)
		resolver := func(_ context.Context, _ string, _ any, _ map[string]any, _ Info) (any, error) {
			return []int{1, 2, 3}, nil
		}
		got, err := Execute(context.Background(), resolver, doc, nil, nil)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"ids": []int{1, 2, 3}}, got)
	})
}

func TestExecute_NullPropagation(t *testing.T) {
	doc := mustParseQuery(t, `{ a { b { c } } }`)
	rec := &recordingResolver{next: func(_ context.Context, fieldName string, _ any, _ map[string]any, _ Info) (any, error) {
		if fieldName == "a" {
			return nil, nil
		}
		return fieldName, nil
	}}
	got, err := Execute(context.Background(), rec.resolve, doc, nil, nil)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": nil}, got)
	// The sub-selection below the null is never visited.
	require.Equal(t, []string{"a"}, rec.calls)
}

func TestExecute_TypedNilIsNull(t *testing.T) {
	doc := mustParseQuery(t, `{ a { b } }`)
	resolver := func(_ context.Context, _ string, _ any, _ map[string]any, _ Info) (any, error) {
		var m map[string]any
		return m, nil
	}
	got, err := Execute(context.Background(), resolver, doc, nil, nil)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": nil}, got)
}

func TestExecute_Directives(t *testing.T) {
	t.Run("skip and include literals", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a { b @skip(if: true) c @include(if: true) d @skip(if: false) e @include(if: false) } }`)
		resolver := func(_ context.Context, fieldName string, _ any, _ map[string]any, _ Info) (any, error) {
			if fieldName == "a" {
				return map[string]any{}, nil
			}
			return fieldName, nil
		}
		got, err := Execute(context.Background(), resolver, doc, nil, nil)
		require.NoError(t, err)

		want := map[string]any{"a": map[string]any{"c": "c", "d": "d"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("excluded fields never reach the resolver", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a b @skip(if: true) c @include(if: false) }`)
		rec := &recordingResolver{next: fieldNameResolver}
		_, err := Execute(context.Background(), rec.resolve, doc, nil, nil)
		require.NoError(t, err)
		require.Equal(t, []string{"a"}, rec.calls)
	})

	t.Run("variable-driven if", func(t *testing.T) {
		doc := mustParseQuery(t, `query Q($on: Boolean!) { a @include(if: $on) b @skip(if: $on) }`)
		got, err := Execute(context.Background(), fieldNameResolver, doc, nil, map[string]any{"on": true})
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": "a"}, got)

		got, err = Execute(context.Background(), fieldNameResolver, doc, nil, map[string]any{"on": false})
		require.NoError(t, err)
		require.Equal(t, map[string]any{"b": "b"}, got)
	})

	t.Run("missing directive variable fails", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a @skip(if: $absent) }`)
		_, err := Execute(context.Background(), fieldNameResolver, doc, nil, nil)
		var mv *MissingVariableError
		require.ErrorAs(t, err, &mv)
		require.Equal(t, "absent", mv.Name)
	})

	t.Run("unknown directives are no-ops", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a @whatever(if: false) }`)
		got, err := Execute(context.Background(), fieldNameResolver, doc, nil, nil)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": "a"}, got)
	})
}

func TestExecute_Fragments(t *testing.T) {
	t.Run("spreads and inline fragments merge into siblings", func(t *testing.T) {
		doc := mustParseQuery(t, `
			{
				a
				...Named
				... on Anything { c }
			}
			fragment Named on Anything { b }
		`)
		got, err := Execute(context.Background(), fieldNameResolver, doc, nil, nil)
		require.NoError(t, err)

		want := map[string]any{"a": "a", "b": "b", "c": "c"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("later duplicate resultKey overwrites", func(t *testing.T) {
		// Deliberate divergence risk flagged by the reimplementation notes:
		// duplicates overwrite, they are not deep-merged.
		doc := mustParseQuery(t, `
			{
				a
				...Override
			}
			fragment Override on Anything { a: altA }
		`)
		resolver := func(_ context.Context, fieldName string, _ any, _ map[string]any, _ Info) (any, error) {
			return "resolved:" + fieldName, nil
		}
		got, err := Execute(context.Background(), resolver, doc, nil, nil)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": "resolved:altA"}, got)
	})

	t.Run("same fragment spread twice contributes twice", func(t *testing.T) {
		doc := mustParseQuery(t, `
			{ ...F ...F }
			fragment F on Anything { x }
		`)
		rec := &recordingResolver{next: fieldNameResolver}
		got, err := Execute(context.Background(), rec.resolve, doc, nil, nil)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"x": "x"}, got)
		require.Equal(t, []string{"x", "x"}, rec.calls)
	})

	t.Run("missing fragment fails", func(t *testing.T) {
		doc := mustParseQuery(t, `{ ...Nope }`)
		_, err := Execute(context.Background(), fieldNameResolver, doc, nil, nil)
		var mf *MissingFragmentError
		require.ErrorAs(t, err, &mf)
		require.Equal(t, "Nope", mf.Name)
	})

	t.Run("skipped spread of a missing fragment is not an error", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a ...Nope @skip(if: true) }`)
		got, err := Execute(context.Background(), fieldNameResolver, doc, nil, nil)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": "a"}, got)
	})

	t.Run("directives gate spreads and inline fragments", func(t *testing.T) {
		doc := mustParseQuery(t, `
			{
				a
				...In @include(if: true)
				...Out @skip(if: true)
				... on Anything @include(if: false) { d }
			}
			fragment In on Anything { b }
			fragment Out on Anything { c }
		`)
		got, err := Execute(context.Background(), fieldNameResolver, doc, nil, nil)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": "a", "b": "b"}, got)
	})

	t.Run("standalone fragment document executes its own selection", func(t *testing.T) {
		doc := mustParseQuery(t, `fragment F on T { x y }`)
		got, err := Execute(context.Background(), fieldNameResolver, doc, nil, nil)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"x": "x", "y": "y"}, got)
	})
}

func TestExecute_FragmentMatcher(t *testing.T) {
	doc := mustParseQuery(t, `
		{
			...Dog
			...Cat
			... { always }
		}
		fragment Dog on Dog { bark }
		fragment Cat on Cat { meow }
	`)
	matcher := func(rootValue any, typeCondition string, _ context.Context) bool {
		m, _ := rootValue.(map[string]any)
		return m["__typename"] == typeCondition
	}
	root := map[string]any{"__typename": "Dog"}
	got, err := Execute(context.Background(), fieldNameResolver, doc, root, nil, WithFragmentMatcher(matcher))
	require.NoError(t, err)
	// Untyped fragments bypass the matcher.
	require.Equal(t, map[string]any{"bark": "bark", "always": "always"}, got)
}

func TestExecute_ResultMapper(t *testing.T) {
	doc := mustParseQuery(t, `{ a { b } }`)
	mapper := func(fields map[string]any, _ any) any {
		fields["__extra"] = true
		return fields
	}
	resolver := func(_ context.Context, fieldName string, _ any, _ map[string]any, _ Info) (any, error) {
		if fieldName == "a" {
			return map[string]any{}, nil
		}
		return fieldName, nil
	}
	got, err := Execute(context.Background(), resolver, doc, nil, nil, WithResultMapper(mapper))
	require.NoError(t, err)

	want := map[string]any{
		"a":       map[string]any{"b": "b", "__extra": true},
		"__extra": true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_Variables(t *testing.T) {
	t.Run("variables substitute into arguments", func(t *testing.T) {
		doc := mustParseQuery(t, `query Q($id: ID!) { user(id: $id) }`)
		var gotArgs map[string]any
		resolver := func(_ context.Context, _ string, _ any, args map[string]any, _ Info) (any, error) {
			gotArgs = args
			return nil, nil
		}
		_, err := Execute(context.Background(), resolver, doc, nil, map[string]any{"id": "u1"})
		require.NoError(t, err)
		require.Equal(t, map[string]any{"id": "u1"}, gotArgs)
	})

	t.Run("variables nested in lists and input objects", func(t *testing.T) {
		doc := mustParseQuery(t, `query Q($n: Int!) { a(filter: {limits: [$n, 10]}) }`)
		var gotArgs map[string]any
		resolver := func(_ context.Context, _ string, _ any, args map[string]any, _ Info) (any, error) {
			gotArgs = args
			return nil, nil
		}
		_, err := Execute(context.Background(), resolver, doc, nil, map[string]any{"n": 5})
		require.NoError(t, err)

		want := map[string]any{"filter": map[string]any{"limits": []any{5, 10}}}
		if diff := cmp.Diff(want, gotArgs); diff != "" {
			t.Fatalf("args mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing variable fails before the resolver runs", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a(id: $missing) }`)
		rec := &recordingResolver{next: fieldNameResolver}
		_, err := Execute(context.Background(), rec.resolve, doc, nil, nil)
		var mv *MissingVariableError
		require.ErrorAs(t, err, &mv)
		require.Equal(t, "missing", mv.Name)
		require.Empty(t, rec.calls)
	})
}

func TestExecute_InvalidDocument(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		_, err := Execute(context.Background(), fieldNameResolver, &ast.QueryDocument{}, nil, nil)
		var id *InvalidDocumentError
		require.ErrorAs(t, err, &id)
	})

	t.Run("two fragments and no operation", func(t *testing.T) {
		doc := mustParseQuery(t, `
			fragment A on T { x }
			fragment B on T { y }
		`)
		_, err := Execute(context.Background(), fieldNameResolver, doc, nil, nil)
		var id *InvalidDocumentError
		require.ErrorAs(t, err, &id)
	})

	t.Run("first operation wins", func(t *testing.T) {
		doc := mustParseQuery(t, `
			query First { a }
			query Second { b }
		`)
		got, err := Execute(context.Background(), fieldNameResolver, doc, nil, nil)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": "a"}, got)
	})
}

func TestExecute_ResolverErrorPropagation(t *testing.T) {
	doc := mustParseQuery(t, `{ a b { c } }`)
	sentinel := errors.New("backend exploded")
	rec := &recordingResolver{next: func(_ context.Context, fieldName string, _ any, _ map[string]any, _ Info) (any, error) {
		if fieldName == "b" {
			return nil, sentinel
		}
		return fieldName, nil
	}}
	got, err := Execute(context.Background(), rec.resolve, doc, nil, nil)
	// The error comes back unwrapped and no partial result leaks out.
	require.Same(t, sentinel, err)
	require.Nil(t, got)
	require.Equal(t, []string{"a", "b"}, rec.calls)
}

func TestExecute_ContextThreading(t *testing.T) {
	type ctxKey struct{}
	doc := mustParseQuery(t, `{ a { b } }`)
	resolver := func(ctx context.Context, fieldName string, _ any, _ map[string]any, _ Info) (any, error) {
		if ctx.Value(ctxKey{}) != "payload" {
			return nil, fmt.Errorf("context lost at %s", fieldName)
		}
		return map[string]any{}, nil
	}
	ctx := context.WithValue(context.Background(), ctxKey{}, "payload")
	_, err := Execute(ctx, resolver, doc, nil, nil)
	require.NoError(t, err)
}
