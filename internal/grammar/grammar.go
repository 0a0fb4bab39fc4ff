package grammar

import "github.com/roach88/querylens/internal/ast"

// Lucene is the built-in grammar implementation. It is stateless and
// safe for concurrent use; the zero value is ready.
type Lucene struct{}

// Default returns the built-in Lucene grammar.
func Default() *Lucene {
	return &Lucene{}
}

// Parse implements the grammar capability the explanation pipeline is
// built against (see explain.Grammar).
func (*Lucene) Parse(raw string) (ast.Node, error) {
	return Parse(raw)
}
