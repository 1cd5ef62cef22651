package textproc

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	sentenceTerminators = regexp.MustCompile(`[.!?]+`)
	// RE2's \b only knows ASCII word characters, so word boundaries come from
	// runs of Unicode letters, digits and underscores instead.
	wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// Words splits text on runs of Unicode whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// CountWords returns the number of whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountCharacters counts code points, not bytes.
func CountCharacters(text string) int {
	return utf8.RuneCountInString(text)
}

// CountSentences counts runs of sentence terminators. "Wait... what?!" is two.
func CountSentences(text string) int {
	return len(sentenceTerminators.FindAllStringIndex(text, -1))
}

// WordRuns returns the maximal runs of Unicode letters, digits and
// underscores in text.
func WordRuns(text string) []string {
	return wordRun.FindAllString(text, -1)
}

// AlphaTokens returns the lower-cased word runs made only of ASCII letters.
// "café" yields nothing rather than "caf".
func AlphaTokens(text string) []string {
	var tokens []string
	for _, run := range WordRuns(strings.ToLower(text)) {
		if isASCIIAlpha(run) {
			tokens = append(tokens, run)
		}
	}
	return tokens
}

func isASCIIAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
