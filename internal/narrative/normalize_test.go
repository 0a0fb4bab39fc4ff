package narrative

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Rules(t *testing.T) {
	testCases := map[string]struct {
		in   string
		want string
	}{
		"word_term": {
			in:   `contains "test"`,
			want: `The term "test".`,
		},
		"phrase_untouched": {
			in:   `"Python Programming"`,
			want: `"Python Programming".`,
		},
		"any_of_group": {
			in:   `Include items that match ANY of: ("Python"; "Java")`,
			want: `Search for documents containing any of the following: "Python", "Java".`,
		},
		"all_of_group": {
			in:   `Include items that match ALL of: ("Python"; "Java")`,
			want: `Search for documents that must contain all of the following: "Python", "Java".`,
		},
		"exclusion": {
			in:   `EXCLUDE items where: ("test")`,
			want: `But exclude documents where "test".`,
		},
		"exact_phrase_field": {
			in:   `title: contains the EXACT PHRASE "Python Programming"`,
			want: `Title must contain the exact phrase "Python Programming".`,
		},
		"field_any_of": {
			in:   `title: contains ANY of ["Machine Learning"; "AI"]`,
			want: `Title contains any of ["Machine Learning", "AI"].`,
		},
		"field_all_of": {
			in:   `body: contains ALL of ["a"; "b"]`,
			want: `Body must contain all of ["a", "b"].`,
		},
		"composed_clauses": {
			in:   `Include items that match ANY of: ("A"; "B") EXCLUDE items where: ("C")`,
			want: `Search for documents containing any of the following: "A", "B" but exclude documents where "C".`,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

// The exclusion collapse only exists because the ANY-of and EXCLUDE
// rewrites run first; this is the ordering dependency that forbids
// reordering the rule list.
func TestNormalize_ExclusionCollapse(t *testing.T) {
	in := `EXCLUDE items where: (Include items that match ANY of: ("A"; "B"))`
	assert.Equal(t, `But exclude documents containing any of: "A", "B".`, Normalize(in))
}

func TestNormalize_EmptyString(t *testing.T) {
	// The empty string normalizes to itself - no period, no panic.
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \t "))
}

func TestNormalize_StripsAllClosingParens(t *testing.T) {
	// Closing parens are deleted unconditionally, even ones that no
	// rewrite rule opened. Pinned behavior.
	assert.Equal(t, "A stray paren.", Normalize("a stray) paren"))

	out := Normalize(`Include items that match ANY of: (contains "a"; EXCLUDE items where: ("b"))`)
	assert.False(t, strings.ContainsAny(out, "()"), "normalized text must never contain parens, got %q", out)
}

func TestNormalize_TrailingPeriod(t *testing.T) {
	// A single period is appended when absent...
	assert.Equal(t, "Word.", Normalize("word"))
	// ...and an existing trailing period is left alone.
	assert.Equal(t, "Word.", Normalize("word."))
	// Double periods pass through untouched. Pinned behavior.
	assert.Equal(t, "Word..", Normalize("word.."))
}

func TestNormalize_UppercasesFirstRuneOnly(t *testing.T) {
	assert.Equal(t, "École test.", Normalize("école test"))
	assert.Equal(t, "ABC abc.", Normalize("aBC abc"))
}

func TestNormalize_TotalOverArbitraryInput(t *testing.T) {
	inputs := []string{
		")", "((((", "; ", ".", "..", " ", "contains \"",
		"EXCLUDE items where: (", strings.Repeat(") ", 100),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Normalize(in) })
	}
}
