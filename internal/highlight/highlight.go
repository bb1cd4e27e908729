// Package highlight renders search hits for display: snippet truncation and
// escaping, term highlighting in plain snippets and in already-formatted
// document HTML, and footnote expansion.
package highlight

import (
	"html"
	"regexp"
	"strings"
)

const (
	markOpen  = `<mark class="search-hl">`
	markClose = `</mark>`

	// snippetMaxRunes is the display length of a result snippet.
	snippetMaxRunes = 200
)

// termsPattern compiles a case-insensitive alternation over the query terms.
// Returns nil when the query yields no terms.
func termsPattern(query string) *regexp.Regexp {
	terms := ExtractTerms(query)
	if len(terms) == 0 {
		return nil
	}
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}

// Snippet prepares a raw, unescaped snippet for display: truncates it to 200
// runes (appending an ellipsis when cut), HTML-escapes it and wraps matches
// of the query terms in a highlight marker. Escaping happens before
// highlighting so the injected markup survives. With no usable terms the
// escaped text is returned unchanged.
func Snippet(text, query string) string {
	runes := []rune(text)
	if len(runes) > snippetMaxRunes {
		text = string(runes[:snippetMaxRunes]) + "..."
	}
	escaped := html.EscapeString(text)

	re := termsPattern(query)
	if re == nil {
		return escaped
	}
	return re.ReplaceAllString(escaped, markOpen+"$1"+markClose)
}

// Document highlights query terms in already-formatted HTML. Only text
// segments between tags are rewritten; tags themselves, including attribute
// values, pass through verbatim. The input is trusted HTML and is not
// re-escaped.
func Document(htmlText, query string) string {
	re := termsPattern(query)
	if re == nil {
		return htmlText
	}

	var b strings.Builder
	b.Grow(len(htmlText))
	rest := htmlText
	for {
		lt := strings.IndexByte(rest, '<')
		if lt < 0 {
			b.WriteString(re.ReplaceAllString(rest, markOpen+"$1"+markClose))
			break
		}
		b.WriteString(re.ReplaceAllString(rest[:lt], markOpen+"$1"+markClose))

		gt := strings.IndexByte(rest[lt:], '>')
		if gt < 0 {
			// unterminated tag, copy what is left untouched
			b.WriteString(rest[lt:])
			break
		}
		b.WriteString(rest[lt : lt+gt+1])
		rest = rest[lt+gt+1:]
	}
	return b.String()
}
