package ast

import (
	"fmt"
	"strings"
)

// Node is the sealed interface implemented by every query tree variant.
//
// The marker method prevents implementations outside this package, so
// consumers can type-switch exhaustively over the variants.
type Node interface {
	node() // Marker method - seals interface to this package

	// String returns a compact debug form. It is also the generic
	// fallback representation used when a consumer has no specific
	// handling for a node.
	String() string
}

// Word is a bare unquoted term.
type Word struct {
	// Value is the term text. Never empty in parser-produced trees.
	Value string
}

func (*Word) node() {}

func (w *Word) String() string { return w.Value }

// Phrase is a quoted exact phrase.
type Phrase struct {
	// Value is the phrase text INCLUDING the surrounding quote
	// characters, mirroring how the grammar lexes it. Consumers that
	// need the bare text strip the quotes themselves.
	Value string
}

func (*Phrase) node() {}

func (p *Phrase) String() string { return p.Value }

// SearchField scopes an inner expression to a named field (field:expr).
type SearchField struct {
	// Name is the field name. Never empty in parser-produced trees.
	Name string

	// Expr is the scoped expression. A parenthesized scope arrives as
	// a *FieldGroup; a bare term or phrase arrives directly.
	Expr Node
}

func (*SearchField) node() {}

func (f *SearchField) String() string { return f.Name + ":" + f.Expr.String() }

// Group is a parenthesized sub-expression outside any field scope.
// The parentheses carry no semantic weight once parsed.
type Group struct {
	Child Node
}

func (*Group) node() {}

func (g *Group) String() string { return "(" + g.Child.String() + ")" }

// FieldGroup is a parenthesized sub-expression inside a field scope.
// It exists as a distinct variant because SearchField rendering is
// special-cased on the shape of its inner expression.
type FieldGroup struct {
	Expr Node
}

func (*FieldGroup) node() {}

func (g *FieldGroup) String() string { return "(" + g.Expr.String() + ")" }

// OrOperation is a boolean OR across two or more children.
type OrOperation struct {
	Children []Node
}

func (*OrOperation) node() {}

func (o *OrOperation) String() string { return joinChildren(o.Children, " OR ") }

// AndOperation is a boolean AND across two or more children.
type AndOperation struct {
	Children []Node
}

func (*AndOperation) node() {}

func (a *AndOperation) String() string { return joinChildren(a.Children, " AND ") }

// Not negates a sub-expression. The grammar only ever emits a single
// child, but the slice shape is kept so downstream consumers can pin
// the first-child-only behavior explicitly.
type Not struct {
	Children []Node
}

func (*Not) node() {}

func (n *Not) String() string {
	if len(n.Children) == 0 {
		return "NOT"
	}
	return "NOT " + n.Children[0].String()
}

// UnknownOperation joins two or more adjacent expressions that have no
// explicit operator between them (implicit juxtaposition).
type UnknownOperation struct {
	Children []Node
}

func (*UnknownOperation) node() {}

func (u *UnknownOperation) String() string { return joinChildren(u.Children, " ") }

func joinChildren(children []Node, sep string) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = fmt.Sprintf("%v", c)
	}
	return strings.Join(parts, sep)
}
