// Package anywhere executes an already-parsed GraphQL query document against
// an arbitrary in-memory value, without a schema and without a server. A
// single caller-supplied Resolver produces every field value; the result is a
// plain Go value pruned to exactly the shape the document requested.
//
// # Overview
//
// The engine is a compact interpreter over the gqlparser AST. One call to
// Execute performs a synchronous recursive descent:
//
//  1. The document's fragment definitions are indexed by name. The index is
//     rebuilt on every call and never outlives it.
//  2. The root selection set is located: the first operation's selection set,
//     or, when the document consists of a single standalone fragment
//     definition, that fragment's own selection set.
//  3. The selection set is assembled against the root value. Each selection
//     level flattens fields, inline fragments, and named fragment spreads
//     into one ordered field list, gated by @skip and @include. Every field
//     is handed to the Resolver together with its resolved arguments and
//     per-field Info; a nested selection set recurses into the value the
//     Resolver returned.
//
// # Shape transparency
//
// The assembler never requires the data to mirror the query. A nil (or typed
// nil) value short-circuits to null without touching its sub-selection. A
// slice or array value fans out element-wise against the same selection set,
// preserving nesting depth exactly. Everything else (structs, maps, scalars,
// opaque handles) is treated as the root for the next selection level; the
// Resolver alone decides what each field means.
//
// # Resolvers
//
// The Resolver receives the actual field name (never the alias), the current
// root value, the reconciled argument map (literals and variables), the
// caller's context, and Info carrying ResultKey and IsLeaf. An error returned
// by the Resolver aborts the whole execution and is returned to the caller
// unwrapped; no partial result is produced.
//
// Because there is no schema, fragment type conditions are not checked by
// default: every fragment applies. Callers that can discriminate values may
// install a matcher with WithFragmentMatcher.
//
// # Convenience helpers
//
// Filter prunes a concrete Go value (maps, structs, slices) to a document's
// shape using the built-in FieldLookup resolver; Check is its strict sibling
// that fails on any missing field.
package anywhere
