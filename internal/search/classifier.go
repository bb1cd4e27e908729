// Package search implements the retrieval pipeline: query intent
// classification, rank fusion and the engine that orchestrates lexical and
// semantic retrieval into one ranked, enriched result page.
package search

import (
	"strings"
	"unicode"
)

// Intent is the retrieval mode chosen for a query.
type Intent int

const (
	IntentLexical Intent = iota
	IntentSemantic
)

func (i Intent) String() string {
	if i == IntentSemantic {
		return "semantic"
	}
	return "lexical"
}

// Classifier decides whether a query is answered by keyword matching or by
// semantic retrieval. It is a strategy object so the heuristic below can be
// replaced without touching callers.
type Classifier interface {
	Classify(query string) Intent
}

// HeuristicClassifier detects natural-language Polish questions with a fixed,
// ordered rule list. Rule order is part of the contract: quoting always wins,
// short queries stay lexical, recognized question patterns force semantic,
// and long unquoted queries default to semantic.
type HeuristicClassifier struct{}

var _ Classifier = HeuristicClassifier{}

// Leading interrogatives. "o czym" is matched as a two-word prefix.
var questionWords = wordSet(
	"co", "jak", "gdzie", "kiedy", "dlaczego", "czemu", "czy", "kto",
	"jaki", "jaka", "jakie", "jakim", "ile",
)

// Verbs of speech or teaching anywhere in the query.
var speechVerbs = wordSet(
	"pisał", "mówił", "nauczał", "głosił", "twierdził", "uważał",
	"sądził", "myślał", "napisał", "powiedział",
)

// Named subjects that combined with a speech verb read as a question about
// what the subject said.
var subjectWords = wordSet("prymas", "wyszyński", "kardynał", "stefan")

var subjectVerbs = wordSet("pisał", "mówił", "nauczał", "głosił", "myślał", "uważał")

var discourseMarkers = []string{
	"na temat", "o tym", "w sprawie", "w kwestii",
	"w kontekście", "na przykład", "według", "zdaniem",
}

func (HeuristicClassifier) Classify(query string) Intent {
	q := strings.ToLower(strings.TrimSpace(query))

	// Quoted phrases are explicit keyword searches.
	if strings.ContainsAny(q, "\"„”") {
		return IntentLexical
	}

	words := strings.Fields(q)
	if len(words) <= 2 {
		return IntentLexical
	}

	if looksLikeQuestion(q, words) {
		return IntentSemantic
	}

	// 4+ unquoted words read as a sentence.
	if len(words) >= 4 {
		return IntentSemantic
	}

	return IntentLexical
}

func looksLikeQuestion(q string, words []string) bool {
	norm := make([]string, len(words))
	for i, w := range words {
		norm[i] = trimNonLetters(w)
	}

	if questionWords[norm[0]] || strings.HasPrefix(q, "o czym") {
		return true
	}

	subjectAt := -1
	for i, w := range norm {
		if speechVerbs[w] {
			return true
		}
		if subjectAt == -1 && subjectWords[w] {
			subjectAt = i
		}
	}
	if subjectAt >= 0 {
		for _, w := range norm[subjectAt+1:] {
			if subjectVerbs[w] {
				return true
			}
		}
	}

	joined := " " + strings.Join(norm, " ") + " "
	for _, marker := range discourseMarkers {
		if strings.Contains(joined, " "+marker+" ") {
			return true
		}
	}

	return strings.HasSuffix(q, "?")
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func trimNonLetters(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
