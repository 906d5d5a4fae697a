package anywhere

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// FieldLookup is a Resolver that reads each field straight off the root
// value: map keys for string-keyed maps, exported struct fields by json tag
// or name otherwise. Absent fields resolve to nil.
func FieldLookup(_ context.Context, fieldName string, rootValue any, _ map[string]any, _ Info) (any, error) {
	v, _ := lookupField(rootValue, fieldName)
	return v, nil
}

// Filter prunes a concrete Go value to the shape the document requests,
// using FieldLookup for every field.
func Filter(document *ast.QueryDocument, value any) (any, error) {
	return Execute(context.Background(), FieldLookup, document, value, nil)
}

// Check verifies that value carries every field the document requests. It is
// the strict sibling of Filter: the first missing field fails the walk.
func Check(document *ast.QueryDocument, value any) error {
	strict := func(_ context.Context, fieldName string, rootValue any, _ map[string]any, _ Info) (any, error) {
		v, ok := lookupField(rootValue, fieldName)
		if !ok {
			return nil, fmt.Errorf("graphql-anywhere: value has no field %q", fieldName)
		}
		return v, nil
	}
	_, err := Execute(context.Background(), strict, document, value, nil)
	return err
}

// lookupField reads fieldName from maps with string keys and from exported
// struct fields. Struct fields match their json tag first, then their name
// (case-insensitively, so lowerCamel queries find Go field names). Pointers
// are dereferenced on the way.
func lookupField(root any, name string) (any, bool) {
	if m, ok := root.(map[string]any); ok {
		v, ok := m[name]
		return v, ok
	}

	rv := reflect.ValueOf(root)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(name))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true

	case reflect.Struct:
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			if jsonTagName(f.Tag.Get("json")) == name {
				return rv.Field(i).Interface(), true
			}
		}
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() || f.Tag.Get("json") != "" {
				continue
			}
			if strings.EqualFold(f.Name, name) {
				return rv.Field(i).Interface(), true
			}
		}
		return nil, false

	default:
		return nil, false
	}
}

func jsonTagName(tag string) string {
	if i := strings.IndexByte(tag, ','); i >= 0 {
		tag = tag[:i]
	}
	return tag
}
