package highlight

import (
	"strings"
	"unicode/utf8"
)

// quoteStripper drops the quoting characters a websearch query may carry:
// ASCII double quotes and the Polish typographic pair.
var quoteStripper = strings.NewReplacer(`"`, " ", "„", " ", "”", " ")

// ExtractTerms reduces a raw websearch query to its plain terms. Quote
// characters, the OR operator and the minus prefix of negated terms are
// stripped, and tokens shorter than two runes are discarded. The result may
// be empty.
func ExtractTerms(query string) []string {
	clean := quoteStripper.Replace(query)

	fields := strings.Fields(clean)
	terms := make([]string, 0, len(fields))
	for _, tok := range fields {
		if strings.EqualFold(tok, "or") {
			continue
		}
		tok = strings.TrimPrefix(tok, "-")
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}
