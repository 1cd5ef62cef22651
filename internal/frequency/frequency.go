// Package frequency ranks the topical words of a post.
package frequency

import "sort"

const (
	TOP_N          = 10
	MIN_WORD_RUNES = 3
)

// stopwords are function words with no topical signal. Fixed, not tunable.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "being": {}, "have": {}, "has": {},
	"had": {}, "do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "shall": {}, "can": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "i": {}, "you": {}, "he": {}, "she": {},
	"it": {}, "we": {}, "they": {}, "me": {}, "him": {}, "her": {}, "us": {}, "them": {},
}

type WordCount struct {
	Word  string
	Count int
}

// IsStopword reports whether word is excluded from ranking.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

// TopWords counts the non-stopword tokens of at least MIN_WORD_RUNES letters
// and returns the n most frequent. Ties keep first-occurrence order.
func TopWords(tokens []string, n int) []WordCount {
	counts := make(map[string]int)
	ordered := make([]WordCount, 0)

	for _, token := range tokens {
		if len(token) < MIN_WORD_RUNES || IsStopword(token) {
			continue
		}
		if _, seen := counts[token]; !seen {
			ordered = append(ordered, WordCount{Word: token})
		}
		counts[token]++
	}

	for i := range ordered {
		ordered[i].Count = counts[ordered[i].Word]
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Count > ordered[j].Count
	})

	if len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}
