// Package explain orchestrates the query-to-representation pipeline:
// grammar parse, deterministic rendering, narrative normalization, and
// AST serialization, bundled into one result.
//
// The grammar is an injected capability. This package never constructs
// syntax tree nodes itself, so the grammar engine can be swapped or
// stubbed in tests.
package explain

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/querylens/internal/ast"
	"github.com/roach88/querylens/internal/astjson"
	"github.com/roach88/querylens/internal/narrative"
	"github.com/roach88/querylens/internal/render"
)

// Grammar turns raw query syntax into a syntax tree or reports a
// grammar error. Implementations must be safe for concurrent use; they
// receive no shared mutable context from this package.
type Grammar interface {
	Parse(raw string) (ast.Node, error)
}

// QueryResult bundles the three representations of one parsed query.
// It is constructed once per Parse call and never mutated afterward.
type QueryResult struct {
	// Query is the original query string.
	Query string `json:"query"`

	// DeterministicText is the fixed-template structured rendering.
	DeterministicText string `json:"deterministic_text"`

	// NarrativeText is the natural-language sentence derived from the
	// deterministic text.
	NarrativeText string `json:"narrative_text"`

	// ASTJSON is the JSON-safe serialized syntax tree.
	ASTJSON *astjson.Node `json:"ast_json"`
}

// Parser is the pipeline facade. Construct with New; the zero value is
// not usable.
//
// Parse is a pure in-memory transformation with no I/O and no shared
// mutable state; a Parser may be used concurrently from multiple
// goroutines.
type Parser struct {
	grammar Grammar
	logger  *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for pipeline diagnostics.
// The default discards nothing but logs at debug level only.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// New creates a Parser over the given grammar.
func New(grammar Grammar, opts ...Option) *Parser {
	p := &Parser{
		grammar: grammar,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse runs the full pipeline for one query.
//
// Failures - empty input, grammar rejection, or an unexpected internal
// failure while rendering or serializing - surface as *SyntaxError.
// There is no partial result: either a complete QueryResult is produced
// or an error is returned.
func (p *Parser) Parse(query string) (result *QueryResult, err error) {
	if strings.TrimSpace(query) == "" {
		return nil, &SyntaxError{Query: query, Message: "query is empty"}
	}

	// Rendering and serialization are total over well-formed trees. A
	// panic here means a malformed tree slipped through the grammar;
	// reclassify it as a syntax error rather than crashing the caller.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &SyntaxError{
				Query:   query,
				Message: fmt.Sprintf("internal rendering failure: %v", r),
			}
		}
	}()

	tree, err := p.grammar.Parse(query)
	if err != nil {
		p.logger.Debug("grammar rejected query", "error", err)
		return nil, &SyntaxError{Query: query, Message: "grammar rejected query", Err: err}
	}

	deterministic := render.Render(tree)
	p.logger.Debug("rendered deterministic text", "text", deterministic)

	return &QueryResult{
		Query:             query,
		DeterministicText: deterministic,
		NarrativeText:     narrative.Normalize(deterministic),
		ASTJSON:           astjson.Serialize(tree),
	}, nil
}
