package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_DebugForms(t *testing.T) {
	testCases := map[string]struct {
		node Node
		want string
	}{
		"word":         {&Word{Value: "go"}, "go"},
		"phrase":       {&Phrase{Value: `"a b"`}, `"a b"`},
		"search_field": {&SearchField{Name: "title", Expr: &Word{Value: "go"}}, "title:go"},
		"group":        {&Group{Child: &Word{Value: "go"}}, "(go)"},
		"field_group":  {&FieldGroup{Expr: &Word{Value: "go"}}, "(go)"},
		"or": {
			&OrOperation{Children: []Node{&Word{Value: "a"}, &Word{Value: "b"}}},
			"a OR b",
		},
		"and": {
			&AndOperation{Children: []Node{&Word{Value: "a"}, &Word{Value: "b"}}},
			"a AND b",
		},
		"not":       {&Not{Children: []Node{&Word{Value: "a"}}}, "NOT a"},
		"not_empty": {&Not{}, "NOT"},
		"unknown": {
			&UnknownOperation{Children: []Node{&Word{Value: "a"}, &Word{Value: "b"}}},
			"a b",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.node.String())
		})
	}
}
