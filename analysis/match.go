package analysis

import (
	"strings"
	"unicode"
)

// containsTerm reports whether term occurs in text as a whole word. Both
// arguments must already be lower case.
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(term)
		if boundary(text, start-1) && boundary(text, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func boundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	r := rune(text[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
}

// findTerms returns the vocabulary terms (and aliases, resolved) present in
// text, in vocabulary order.
func findTerms(text string, vocabulary []string) []string {
	text = strings.ToLower(text)
	found := make(map[string]bool)
	for alias, term := range aliases {
		if containsTerm(text, alias) {
			found[term] = true
		}
	}
	var out []string
	for _, term := range vocabulary {
		if found[term] || containsTerm(text, term) {
			out = append(out, term)
		}
	}
	return out
}
