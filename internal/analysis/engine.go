// Package analysis turns raw post text into an engagement assessment.
//
// Engine is the pure, stateless core: it composes the tokenizer, readability,
// sentiment, social and frequency components and feeds their output to the
// suggestion rules. Service wraps an Engine with caching, persistence and
// metrics for the API, CLI and Kafka workers.
package analysis

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spacesedan/postlens/internal/frequency"
	"github.com/spacesedan/postlens/internal/models"
	"github.com/spacesedan/postlens/internal/readability"
	"github.com/spacesedan/postlens/internal/sentiment"
	"github.com/spacesedan/postlens/internal/social"
	"github.com/spacesedan/postlens/internal/suggestions"
	"github.com/spacesedan/postlens/internal/textproc"
)

const (
	STAGE_TOKENIZE  = "tokenization"
	STAGE_SENTIMENT = "sentiment scoring"
)

const (
	REASON_EMPTY        = "text is empty"
	REASON_INVALID_UTF8 = "text is not valid UTF-8"
)

// Engine is safe for concurrent use; it holds nothing but the shared lexicon.
type Engine struct {
	scorer *sentiment.Scorer
}

func NewEngine(lexicon *sentiment.Lexicon) *Engine {
	return &Engine{scorer: sentiment.NewScorer(lexicon)}
}

func (e *Engine) LexiconVersion() string {
	return e.scorer.Lexicon().Version()
}

// Validate applies the input rules of Analyze without analyzing anything.
func Validate(text string) error {
	if !utf8.ValidString(text) {
		return &ValidationError{Reason: REASON_INVALID_UTF8}
	}
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Reason: REASON_EMPTY}
	}
	return nil
}

type tokens struct {
	wordCount      int
	characterCount int
	sentenceCount  int
	alpha          []string
}

// Analyze produces the full assessment for text. The same text always yields
// the same result for a given lexicon.
func (e *Engine) Analyze(text string) (*models.AnalysisResult, error) {
	if err := Validate(text); err != nil {
		return nil, err
	}

	tok, err := guard(STAGE_TOKENIZE, func() tokens {
		return tokens{
			wordCount:      textproc.CountWords(text),
			characterCount: textproc.CountCharacters(text),
			sentenceCount:  textproc.CountSentences(text),
			alpha:          textproc.AlphaTokens(text),
		}
	})
	if err != nil {
		return nil, err
	}

	scores, err := guard(STAGE_SENTIMENT, func() sentiment.Scores {
		return e.scorer.Score(text)
	})
	if err != nil {
		return nil, err
	}

	ease := readability.Score(text)
	elements := social.Extract(text)
	top := frequency.TopWords(tok.alpha, frequency.TOP_N)

	advice := suggestions.Generate(suggestions.Input{
		WordCount:   tok.wordCount,
		Readability: ease.ReadingEase,
		Compound:    scores.Compound,
		Hashtags:    elements.Hashtags,
		Mentions:    elements.Mentions,
		Text:        text,
	})

	commonWords := make([]models.WordFrequency, 0, len(top))
	for _, wc := range top {
		commonWords = append(commonWords, models.WordFrequency{Word: wc.Word, Count: wc.Count})
	}

	return &models.AnalysisResult{
		Statistics: models.Statistics{
			WordCount:        tok.wordCount,
			CharacterCount:   tok.characterCount,
			SentenceCount:    tok.sentenceCount,
			ReadabilityScore: round(ease.ReadingEase, 2),
			GradeLevel:       round(ease.GradeLevel, 2),
		},
		Sentiment: models.SentimentScores{
			Compound: round(scores.Compound, 3),
			Positive: round(scores.Positive, 3),
			Neutral:  round(scores.Neutral, 3),
			Negative: round(scores.Negative, 3),
			Overall:  string(scores.Label),
		},
		SocialElements: models.SocialElements{
			Hashtags:     elements.Hashtags,
			Mentions:     elements.Mentions,
			HashtagCount: elements.HashtagCount(),
			MentionCount: elements.MentionCount(),
		},
		CommonWords: commonWords,
		Suggestions: advice,
	}, nil
}

// guard runs one stage and turns a panic into an AnalysisError.
func guard[T any](stage string, fn func() T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &AnalysisError{Stage: stage, Err: fmt.Errorf("%v", r)}
		}
	}()
	return fn(), nil
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	r := math.Round(v*scale) / scale
	if r == 0 {
		// no "-0" in JSON output
		return 0
	}
	return r
}
