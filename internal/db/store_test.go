package db

import (
	"testing"
	"time"

	"github.com/spacesedan/postlens/internal/models"
)

func testRecord(id string, createdAt time.Time) models.AnalysisRecord {
	return models.AnalysisRecord{
		ID:             id,
		Source:         models.SOURCE_CLI,
		LexiconVersion: "test",
		Text:           "Hello #world",
		CreatedAt:      createdAt.UTC(),
		Analysis: models.AnalysisResult{
			Statistics: models.Statistics{WordCount: 2, CharacterCount: 12, SentenceCount: 0},
			Sentiment:  models.SentimentScores{Neutral: 1, Overall: "Neutral"},
			SocialElements: models.SocialElements{
				Hashtags:     []string{"#world"},
				Mentions:     []string{},
				HashtagCount: 1,
			},
			CommonWords: []models.WordFrequency{{Word: "hello", Count: 1}, {Word: "world", Count: 1}},
			Suggestions: []string{"Consider ending with a question to encourage comments and discussions"},
		},
	}
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DEFAULT_RECENT_LIMIT},
		{-3, DEFAULT_RECENT_LIMIT},
		{5, 5},
		{MAX_RECENT_LIMIT, MAX_RECENT_LIMIT},
		{MAX_RECENT_LIMIT + 1, MAX_RECENT_LIMIT},
		{1 << 40, MAX_RECENT_LIMIT},
	}
	for _, tt := range tests {
		if got := normalizeLimit(tt.in); got != tt.want {
			t.Errorf("normalizeLimit(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
