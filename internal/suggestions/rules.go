// Package suggestions turns analysis signals into engagement advice.
//
// Each rule looks at the input independently and contributes at most one
// message. Rules run in a fixed order and never see each other's output, so
// the order of the returned list is the order of the rule table.
package suggestions

import (
	"strings"

	"github.com/spacesedan/postlens/internal/textproc"
)

const FALLBACK_MESSAGE = "Your content looks well-optimized for engagement!"

const (
	MIN_WORDS       = 20
	MAX_WORDS       = 100
	MIN_READABILITY = 30.0
	MAX_READABILITY = 90.0
	NEGATIVE_TONE   = -0.3
	POSITIVE_TONE   = 0.3
	MAX_HASHTAGS    = 10
)

var ctaVerbs = map[string]bool{
	"comment": true, "share": true, "like": true, "follow": true, "click": true,
	"visit": true, "check": true, "try": true, "buy": true, "subscribe": true,
}

// Input is everything the rules may look at.
type Input struct {
	WordCount   int
	Readability float64
	Compound    float64
	Hashtags    []string
	Mentions    []string
	Text        string
}

// Rule is one independent predicate. Check returns the message and true when
// the rule fires.
type Rule struct {
	ID    string
	Name  string
	Check func(in Input) (string, bool)
}

var rules = []Rule{
	{ID: "SUG001", Name: "word-count", Check: checkWordCount},
	{ID: "SUG002", Name: "readability", Check: checkReadability},
	{ID: "SUG003", Name: "sentiment", Check: checkSentiment},
	{ID: "SUG004", Name: "hashtags", Check: checkHashtags},
	{ID: "SUG005", Name: "call-to-action", Check: checkCallToAction},
	{ID: "SUG006", Name: "question", Check: checkQuestion},
	{ID: "SUG007", Name: "emoji", Check: checkEmoji},
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Generate runs every rule once, in order. The result is never empty.
func Generate(in Input) []string {
	suggestions := make([]string, 0, len(rules))
	for _, rule := range rules {
		if msg, ok := rule.Check(in); ok {
			suggestions = append(suggestions, msg)
		}
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, FALLBACK_MESSAGE)
	}
	return suggestions
}

// Fired returns the IDs of the rules that fire for in, in evaluation order.
func Fired(in Input) []string {
	var ids []string
	for _, rule := range rules {
		if _, ok := rule.Check(in); ok {
			ids = append(ids, rule.ID)
		}
	}
	return ids
}

func checkWordCount(in Input) (string, bool) {
	switch {
	case in.WordCount < MIN_WORDS:
		return "Consider expanding your content - posts with 20-40 words tend to perform better", true
	case in.WordCount > MAX_WORDS:
		return "Your content is quite long - consider breaking it into shorter, more digestible posts", true
	}
	return "", false
}

func checkReadability(in Input) (string, bool) {
	switch {
	case in.Readability < MIN_READABILITY:
		return "Your content is complex - try using simpler words and shorter sentences for better engagement", true
	case in.Readability > MAX_READABILITY:
		return "Your content is very easy to read - great for broad audience engagement!", true
	}
	return "", false
}

func checkSentiment(in Input) (string, bool) {
	switch {
	case in.Compound < NEGATIVE_TONE:
		return "Consider adding more positive elements to balance the tone and improve engagement", true
	case in.Compound > POSITIVE_TONE:
		return "Great positive tone! This should resonate well with your audience", true
	}
	return "", false
}

func checkHashtags(in Input) (string, bool) {
	switch {
	case len(in.Hashtags) == 0:
		return "Add relevant hashtags to increase discoverability (aim for 3-5 hashtags)", true
	case len(in.Hashtags) > MAX_HASHTAGS:
		return "You're using many hashtags - consider reducing to 5-7 most relevant ones", true
	}
	return "", false
}

func checkCallToAction(in Input) (string, bool) {
	for _, word := range textproc.WordRuns(strings.ToLower(in.Text)) {
		if ctaVerbs[word] {
			return "", false
		}
	}
	return "Add a call-to-action (e.g., 'What do you think?', 'Share your thoughts') to encourage engagement", true
}

func checkQuestion(in Input) (string, bool) {
	if strings.Contains(in.Text, "?") {
		return "", false
	}
	return "Consider ending with a question to encourage comments and discussions", true
}

func checkEmoji(in Input) (string, bool) {
	if ContainsEmoji(in.Text) {
		return "", false
	}
	return "Consider adding relevant emojis to make your post more visually appealing", true
}
