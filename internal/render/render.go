// Package render converts a query syntax tree into its deterministic
// text form: a single structured string built from fixed phrasing
// templates describing set operations (ANY-of, ALL-of, EXCLUDE).
//
// The deterministic text is the machine-stable intermediate that the
// narrative normalizer rewrites into natural language. Its literal
// phrases are load-bearing: the normalizer's substitutions are keyed on
// them exactly, so templates here must not change independently.
//
// Rendering is purely structural recursion with no external state.
// Structurally identical trees produce byte-identical strings.
package render

import (
	"fmt"
	"strings"

	"github.com/roach88/querylens/internal/ast"
)

// Render converts a syntax tree into deterministic text.
//
// Field-scoped boolean groups use bracket-list phrasing ("f: contains
// ANY of [a; b]") while unscoped groups use parenthesized Include/EXCLUDE
// phrasing. The asymmetry is intentional and must be preserved.
//
// Render is total: it never fails and always returns a non-empty string
// for a non-nil node.
func Render(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Phrase:
		// Verbatim, quotes included.
		return node.Value

	case *ast.Word:
		return fmt.Sprintf(`contains "%s"`, node.Value)

	case *ast.SearchField:
		return renderSearchField(node)

	case *ast.OrOperation:
		return fmt.Sprintf("Include items that match ANY of: (%s)", joinRendered(node.Children))

	case *ast.AndOperation:
		return fmt.Sprintf("Include items that match ALL of: (%s)", joinRendered(node.Children))

	case *ast.Not:
		// Only the first child is rendered; extras are silently
		// ignored. Pinned by tests - do not "fix" without revisiting
		// the normalizer's exclusion collapse.
		if len(node.Children) == 0 {
			return "EXCLUDE items where: ()"
		}
		return fmt.Sprintf("EXCLUDE items where: (%s)", Render(node.Children[0]))

	case *ast.Group:
		// Parens carry no semantic weight once parsed.
		return Render(node.Child)

	case *ast.FieldGroup:
		return Render(node.Expr)

	case *ast.UnknownOperation:
		// Implicit AND-like juxtaposition, no connective.
		parts := make([]string, len(node.Children))
		for i, c := range node.Children {
			parts[i] = Render(c)
		}
		return strings.Join(parts, " ")

	default:
		// Generic fallback for shapes outside the model. Must not
		// panic and must stay non-empty.
		return fmt.Sprintf("%v", n)
	}
}

// renderSearchField produces field-aware phrasing, special-cased on the
// shape of the inner expression. A FieldGroup wrapper signals that the
// field scope was parenthesized, which is what earns the bracket-list
// treatment for boolean groups.
func renderSearchField(f *ast.SearchField) string {
	group, ok := f.Expr.(*ast.FieldGroup)
	if !ok {
		return fmt.Sprintf("%s: %s", f.Name, Render(f.Expr))
	}

	switch inner := group.Expr.(type) {
	case *ast.Phrase:
		return fmt.Sprintf(`%s: contains the EXACT PHRASE "%s"`, f.Name, strings.Trim(inner.Value, `"`))
	case *ast.OrOperation:
		return fmt.Sprintf("%s: contains ANY of [%s]", f.Name, joinFieldItems(inner.Children))
	case *ast.AndOperation:
		return fmt.Sprintf("%s: contains ALL of [%s]", f.Name, joinFieldItems(inner.Children))
	default:
		return fmt.Sprintf("%s: %s", f.Name, Render(group.Expr))
	}
}

// joinFieldItems renders the members of a field-scoped boolean group.
// Phrases keep their quotes verbatim, bare words gain quotes, and
// anything else falls back to a full recursive render.
func joinFieldItems(children []ast.Node) string {
	items := make([]string, len(children))
	for i, c := range children {
		switch child := c.(type) {
		case *ast.Phrase:
			items[i] = child.Value
		case *ast.Word:
			items[i] = fmt.Sprintf(`"%s"`, child.Value)
		default:
			items[i] = Render(c)
		}
	}
	return strings.Join(items, "; ")
}

func joinRendered(children []ast.Node) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = Render(c)
	}
	return strings.Join(parts, "; ")
}
