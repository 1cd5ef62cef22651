package models

import (
	"encoding/json"
	"fmt"
)

type Statistics struct {
	WordCount        int     `json:"word_count" dynamodbav:"word_count"`
	CharacterCount   int     `json:"character_count" dynamodbav:"character_count"`
	SentenceCount    int     `json:"sentence_count" dynamodbav:"sentence_count"`
	ReadabilityScore float64 `json:"readability_score" dynamodbav:"readability_score"`
	GradeLevel       float64 `json:"grade_level" dynamodbav:"grade_level"`
}

type SentimentScores struct {
	Compound float64 `json:"compound" dynamodbav:"compound"`
	Positive float64 `json:"positive" dynamodbav:"positive"`
	Neutral  float64 `json:"neutral" dynamodbav:"neutral"`
	Negative float64 `json:"negative" dynamodbav:"negative"`
	Overall  string  `json:"overall" dynamodbav:"overall"`
}

type SocialElements struct {
	Hashtags     []string `json:"hashtags" dynamodbav:"hashtags"`
	Mentions     []string `json:"mentions" dynamodbav:"mentions"`
	HashtagCount int      `json:"hashtag_count" dynamodbav:"hashtag_count"`
	MentionCount int      `json:"mention_count" dynamodbav:"mention_count"`
}

// WordFrequency is encoded as a two element JSON array, ["word", 3], which is
// the shape API clients already consume.
type WordFrequency struct {
	Word  string `dynamodbav:"word"`
	Count int    `dynamodbav:"count"`
}

func (w WordFrequency) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{w.Word, w.Count})
}

func (w *WordFrequency) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("word frequency must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &w.Word); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &w.Count)
}

// AnalysisResult is the full engagement assessment of one text.
type AnalysisResult struct {
	Statistics     Statistics      `json:"statistics" dynamodbav:"statistics"`
	Sentiment      SentimentScores `json:"sentiment" dynamodbav:"sentiment"`
	SocialElements SocialElements  `json:"social_elements" dynamodbav:"social_elements"`
	CommonWords    []WordFrequency `json:"common_words" dynamodbav:"common_words"`
	Suggestions    []string        `json:"suggestions" dynamodbav:"suggestions"`
}
