// Package astjson converts query syntax trees into a JSON-safe structure
// and provides a canonical byte encoding of that structure for golden
// files and content-stable persistence.
package astjson

import (
	"fmt"

	"github.com/roach88/querylens/internal/ast"
)

// Node is the JSON-safe form of one ast.Node.
//
// Every node carries Type and Value (Value is null unless the variant is
// leaf-like). Container variants carry Children; SearchField and
// FieldGroup carry a single Expr. A node never has both.
//
// This classification mirrors the deterministic renderer and must stay in
// lock-step with it: new node handling added there needs a matching case
// here.
type Node struct {
	Type     string  `json:"type"`
	Value    *string `json:"value"`
	Children []*Node `json:"children,omitempty"`
	Expr     *Node   `json:"expr,omitempty"`
}

// Serialize converts a syntax tree into its JSON-safe form.
//
// Serialization is total over the node model: it never fails and never
// panics. A nil node serializes to nil.
func Serialize(n ast.Node) *Node {
	if n == nil {
		return nil
	}

	switch node := n.(type) {
	case *ast.Word:
		return &Node{Type: "Word", Value: &node.Value}
	case *ast.Phrase:
		return &Node{Type: "Phrase", Value: &node.Value}
	case *ast.SearchField:
		return &Node{Type: "SearchField", Value: &node.Name, Expr: Serialize(node.Expr)}
	case *ast.FieldGroup:
		return &Node{Type: "FieldGroup", Expr: Serialize(node.Expr)}
	case *ast.Group:
		return &Node{Type: "Group", Children: []*Node{Serialize(node.Child)}}
	case *ast.OrOperation:
		return &Node{Type: "OrOperation", Children: serializeAll(node.Children)}
	case *ast.AndOperation:
		return &Node{Type: "AndOperation", Children: serializeAll(node.Children)}
	case *ast.Not:
		// All children are serialized even though the renderer only
		// uses the first. The JSON form is the faithful one.
		return &Node{Type: "Not", Children: serializeAll(node.Children)}
	case *ast.UnknownOperation:
		return &Node{Type: "UnknownOperation", Children: serializeAll(node.Children)}
	default:
		// Unreachable for parser-produced trees (Node is sealed), but
		// serialization must stay total.
		return &Node{Type: fmt.Sprintf("%T", n)}
	}
}

func serializeAll(children []ast.Node) []*Node {
	out := make([]*Node, len(children))
	for i, c := range children {
		out[i] = Serialize(c)
	}
	return out
}
