// Package language wraps the gqlparser query parser so the server, the CLI,
// and tests share one entry point for turning query text into an AST.
package language

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
)

// Error is a parse error with source position information.
type Error = gqlerror.Error

// ParseQuery parses a GraphQL query document. The execution engine itself
// never parses text; callers hand it the returned AST.
func ParseQuery(source string) (*ast.QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
