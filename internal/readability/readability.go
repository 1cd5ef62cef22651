// Package readability computes Flesch reading-ease and Flesch-Kincaid grade
// scores from word, sentence and syllable counts.
package readability

import (
	"errors"
	"strings"
	"unicode"

	"github.com/spacesedan/postlens/internal/textproc"
)

var (
	ErrNoWords     = errors.New("[Readability] text has no words")
	ErrNoSentences = errors.New("[Readability] text has no sentence terminators")
)

// Scores holds the two Flesch measurements. The zero value is the fallback
// used when the formulas cannot be evaluated.
type Scores struct {
	ReadingEase float64
	GradeLevel  float64
}

// Counts are the inputs of both formulas.
type Counts struct {
	Words     int
	Sentences int
	Syllables int
}

// Count gathers the formula inputs for text.
func Count(text string) Counts {
	var c Counts
	for _, raw := range textproc.Words(text) {
		word := cleanWord(raw)
		if word == "" {
			continue
		}
		c.Words++
		c.Syllables += CountSyllables(word)
	}
	c.Sentences = textproc.CountSentences(text)
	return c
}

// Compute evaluates both formulas. It fails when either average is undefined.
func Compute(text string) (Scores, error) {
	return FromCounts(Count(text))
}

// FromCounts evaluates both formulas over precomputed counts.
func FromCounts(c Counts) (Scores, error) {
	if c.Words == 0 {
		return Scores{}, ErrNoWords
	}
	if c.Sentences == 0 {
		return Scores{}, ErrNoSentences
	}

	wordsPerSentence := float64(c.Words) / float64(c.Sentences)
	syllablesPerWord := float64(c.Syllables) / float64(c.Words)

	return Scores{
		ReadingEase: 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord,
		GradeLevel:  0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59,
	}, nil
}

// Score is Compute with the zero-value fallback applied: an analysis is never
// blocked by text the formulas cannot handle.
func Score(text string) Scores {
	scores, err := Compute(text)
	if err != nil {
		return Scores{}
	}
	return scores
}

// CountSyllables estimates syllables by counting vowel groups, dropping a
// trailing silent "e". Every word has at least one syllable.
func CountSyllables(word string) int {
	word = strings.ToLower(word)

	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := isVowel(r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}

	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// cleanWord strips everything but letters and digits.
func cleanWord(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, word)
}
