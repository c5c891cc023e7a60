package adapters

import (
	"sort"
	"strings"
)

// BracketGlossaryTerms wraps each glossary term occurring in text with the
// inline sentinel form [[term]] so that glossary-aware backends preserve it
// verbatim. Longer terms are bracketed first so a term that is a substring of
// another is not bracketed twice.
func BracketGlossaryTerms(text string, terms []string) string {
	if len(terms) == 0 {
		return text
	}

	sorted := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			sorted = append(sorted, t)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	for _, term := range sorted {
		text = bracketOutside(text, term)
	}
	return text
}

// bracketOutside wraps occurrences of term that are not inside an existing
// bracketed region, so a term that is a substring of an already bracketed
// longer term stays untouched.
func bracketOutside(text, term string) string {
	var sb strings.Builder
	rest := text
	for {
		open := strings.Index(rest, "[[")
		if open < 0 {
			sb.WriteString(strings.ReplaceAll(rest, term, "[["+term+"]]"))
			return sb.String()
		}
		end := strings.Index(rest[open:], "]]")
		if end < 0 {
			sb.WriteString(strings.ReplaceAll(rest, term, "[["+term+"]]"))
			return sb.String()
		}
		end += open + 2

		sb.WriteString(strings.ReplaceAll(rest[:open], term, "[["+term+"]]"))
		sb.WriteString(rest[open:end])
		rest = rest[end:]
	}
}

// StripGlossaryBrackets removes the [[...]] sentinel brackets from translated
// text, leaving the preserved terms in place.
func StripGlossaryBrackets(text string) string {
	if !strings.Contains(text, "[[") {
		return text
	}
	return strings.NewReplacer("[[", "", "]]", "").Replace(text)
}
