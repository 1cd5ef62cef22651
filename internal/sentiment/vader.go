package sentiment

import (
	"github.com/jonreiter/govader"
)

// DEFAULT_LEXICON_VERSION identifies the lexicon embedded in govader. Results
// are only reproducible for a fixed version, so it is part of cache keys and
// stored records.
const DEFAULT_LEXICON_VERSION = "govader-c72a790a959e"

// PolarityAnalyzer is the lexicon-and-rule scorer behind a Lexicon.
// *govader.SentimentIntensityAnalyzer satisfies it.
type PolarityAnalyzer interface {
	PolarityScores(text string) govader.Sentiment
}

// Lexicon is the read-only valence data shared by every analysis. Build it
// once at startup and pass it by reference; nothing mutates it afterwards.
type Lexicon struct {
	version  string
	analyzer PolarityAnalyzer
}

// NewLexicon loads the VADER lexicon bundled with govader.
func NewLexicon() *Lexicon {
	return NewLexiconWith(DEFAULT_LEXICON_VERSION, govader.NewSentimentIntensityAnalyzer())
}

// NewLexiconWith wraps an alternate analyzer, e.g. a custom lexicon or a stub.
func NewLexiconWith(version string, analyzer PolarityAnalyzer) *Lexicon {
	return &Lexicon{
		version:  version,
		analyzer: analyzer,
	}
}

func (l *Lexicon) Version() string {
	return l.version
}

func (l *Lexicon) polarity(text string) govader.Sentiment {
	return l.analyzer.PolarityScores(text)
}
