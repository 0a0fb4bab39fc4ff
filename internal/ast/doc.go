// Package ast defines the query syntax tree consumed by the rendering
// pipeline.
//
// This package contains type definitions only. All other internal packages
// import ast; ast imports nothing internal. This keeps the node model the
// foundational layer with no circular dependencies.
//
// Node is a sealed interface using the marker method pattern. Only the
// nine variants defined here implement it:
//
//   - Word: bare unquoted term
//   - Phrase: quoted exact phrase (value keeps its quotes)
//   - SearchField: field-scoped sub-expression (field:expr)
//   - Group: parenthesized sub-expression outside a field scope
//   - FieldGroup: parenthesized sub-expression inside a field scope
//   - OrOperation / AndOperation: n-ary boolean operations
//   - Not: negation of one sub-expression
//   - UnknownOperation: implicit juxtaposition with no explicit operator
//
// Sealing enables exhaustive type switches in the renderer and serializer:
// adding a variant forces a compile-visible update in both. Nodes carry no
// behavior beyond structural inspection and a String debug form; trees are
// built only by the grammar parser and are immutable once built.
package ast
