// Package narrative rewrites deterministic query text into a
// natural-language sentence.
//
// The transformation is an ordered list of literal substring
// replacements. Order is load-bearing, not incidental: later rules match
// text that only exists because earlier rules ran (the exclusion
// collapse in particular). Do not reorder, and do not collapse the list
// into a single-pass regex without re-verifying every composed case in
// the tests.
package narrative

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// rule is one literal substring replacement.
type rule struct {
	from string
	to   string
}

// rules is the fixed rewrite sequence, applied top to bottom.
//
// Rules 1-3 consume the opening parens of the deterministic templates.
// Rule 4 collapses an exclusion wrapping an OR-group and can only match
// after rules 1 and 3 have produced its pattern.
var rules = []rule{
	{"Include items that match ANY of: (", "Search for documents containing any of the following: "},
	{"Include items that match ALL of: (", "Search for documents that must contain all of the following: "},
	{"EXCLUDE items where: (", "but exclude documents where "},
	{"but exclude documents where Search for documents containing any of the following: ", "but exclude documents containing any of: "},
	{`contains "`, `the term "`},
	{": contains the EXACT PHRASE", " must contain the exact phrase"},
	{": contains ANY of [", " contains any of ["},
	{": contains ALL of [", " must contain all of ["},
	{"; ", ", "},
}

// Normalize converts deterministic text to narrative form.
//
// After the rewrite rules run, every remaining ')' is deleted. The
// opening parens were consumed by the rules above, so closing parens are
// stripped unconditionally rather than paired - a parenthesis that did
// not come from one of the deterministic templates disappears too.
// Pinned by tests; treat as an open question rather than fixing quietly.
//
// Normalize is total over any string, including "". The empty string
// normalizes to itself: no period is appended and nothing is
// capitalized.
func Normalize(deterministic string) string {
	narrative := deterministic
	for _, r := range rules {
		narrative = strings.ReplaceAll(narrative, r.from, r.to)
	}

	narrative = strings.ReplaceAll(narrative, ")", "")

	narrative = strings.TrimSpace(narrative)
	if narrative == "" {
		return ""
	}
	if !strings.HasSuffix(narrative, ".") {
		narrative += "."
	}

	first, size := utf8.DecodeRuneInString(narrative)
	return string(unicode.ToUpper(first)) + narrative[size:]
}
