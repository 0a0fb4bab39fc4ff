package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querylens/internal/ast"
)

func TestParse_Shapes(t *testing.T) {
	testCases := map[string]struct {
		query string
		want  ast.Node
	}{
		"bare_term": {
			query: `test`,
			want:  &ast.Word{Value: "test"},
		},
		"phrase": {
			query: `"Python Programming"`,
			want:  &ast.Phrase{Value: `"Python Programming"`},
		},
		"field_term": {
			query: `status:active`,
			want:  &ast.SearchField{Name: "status", Expr: &ast.Word{Value: "active"}},
		},
		"field_phrase": {
			query: `title:"Python Programming"`,
			want:  &ast.SearchField{Name: "title", Expr: &ast.Phrase{Value: `"Python Programming"`}},
		},
		"field_group_or": {
			query: `title:("Machine Learning" OR "AI")`,
			want: &ast.SearchField{
				Name: "title",
				Expr: &ast.FieldGroup{
					Expr: &ast.OrOperation{Children: []ast.Node{
						&ast.Phrase{Value: `"Machine Learning"`},
						&ast.Phrase{Value: `"AI"`},
					}},
				},
			},
		},
		"field_group_phrase": {
			query: `title:("Machine Learning")`,
			want: &ast.SearchField{
				Name: "title",
				Expr: &ast.FieldGroup{Expr: &ast.Phrase{Value: `"Machine Learning"`}},
			},
		},
		"group_or": {
			query: `("Python" OR "Java")`,
			want: &ast.Group{
				Child: &ast.OrOperation{Children: []ast.Node{
					&ast.Phrase{Value: `"Python"`},
					&ast.Phrase{Value: `"Java"`},
				}},
			},
		},
		"or_flattens": {
			query: `a OR b OR c`,
			want: &ast.OrOperation{Children: []ast.Node{
				&ast.Word{Value: "a"},
				&ast.Word{Value: "b"},
				&ast.Word{Value: "c"},
			}},
		},
		"and_flattens": {
			query: `a AND b AND c`,
			want: &ast.AndOperation{Children: []ast.Node{
				&ast.Word{Value: "a"},
				&ast.Word{Value: "b"},
				&ast.Word{Value: "c"},
			}},
		},
		"and_binds_tighter_than_or": {
			query: `a AND b OR c`,
			want: &ast.OrOperation{Children: []ast.Node{
				&ast.AndOperation{Children: []ast.Node{
					&ast.Word{Value: "a"},
					&ast.Word{Value: "b"},
				}},
				&ast.Word{Value: "c"},
			}},
		},
		"juxtaposition_is_unknown_operation": {
			query: `hello world`,
			want: &ast.UnknownOperation{Children: []ast.Node{
				&ast.Word{Value: "hello"},
				&ast.Word{Value: "world"},
			}},
		},
		"juxtaposition_binds_loosest": {
			query: `a OR b c`,
			want: &ast.UnknownOperation{Children: []ast.Node{
				&ast.OrOperation{Children: []ast.Node{
					&ast.Word{Value: "a"},
					&ast.Word{Value: "b"},
				}},
				&ast.Word{Value: "c"},
			}},
		},
		"group_not_juxtaposed": {
			query: `("A" OR "B") NOT "C"`,
			want: &ast.UnknownOperation{Children: []ast.Node{
				&ast.Group{
					Child: &ast.OrOperation{Children: []ast.Node{
						&ast.Phrase{Value: `"A"`},
						&ast.Phrase{Value: `"B"`},
					}},
				},
				&ast.Not{Children: []ast.Node{&ast.Phrase{Value: `"C"`}}},
			}},
		},
		"not_unary": {
			query: `NOT apache`,
			want:  &ast.Not{Children: []ast.Node{&ast.Word{Value: "apache"}}},
		},
		"not_group": {
			query: `NOT ("A" OR "B")`,
			want: &ast.Not{Children: []ast.Node{
				&ast.Group{
					Child: &ast.OrOperation{Children: []ast.Node{
						&ast.Phrase{Value: `"A"`},
						&ast.Phrase{Value: `"B"`},
					}},
				},
			}},
		},
		"nested_groups": {
			query: `((a))`,
			want:  &ast.Group{Child: &ast.Group{Child: &ast.Word{Value: "a"}}},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := map[string]string{
		"empty":               "",
		"whitespace_only":     "   ",
		"unclosed_paren":      `((unclosed`,
		"unopened_paren":      `a)`,
		"empty_group":         `()`,
		"dangling_field":      `title:`,
		"field_before_rparen": `(title:)`,
		"trailing_and":        `a AND`,
		"trailing_or":         `a OR`,
		"bare_not":            `NOT`,
		"unterminated_phrase": `"unclosed`,
	}

	for name, query := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(query)
			assert.Error(t, err)
		})
	}
}

func TestDefault_ImplementsGrammarCapability(t *testing.T) {
	g := Default()
	tree, err := g.Parse(`test`)
	require.NoError(t, err)
	assert.Equal(t, &ast.Word{Value: "test"}, tree)
}
