package models

import "time"

const (
	FORMAT_PLAIN    = "plain"
	FORMAT_MARKDOWN = "markdown"
)

const (
	SOURCE_API   = "api"
	SOURCE_CLI   = "cli"
	SOURCE_KAFKA = "kafka"
)

// AnalysisRequest is what callers submit, over HTTP or on the requests topic.
type AnalysisRequest struct {
	ContentID string `json:"content_id,omitempty"`
	Source    string `json:"source,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Text      string `json:"text"`
	Format    string `json:"format,omitempty"`
}

// AnalysisRecord is a stored or published analysis.
type AnalysisRecord struct {
	ID             string         `json:"id" dynamodbav:"id"`
	ContentID      string         `json:"content_id,omitempty" dynamodbav:"content_id,omitempty"`
	Source         string         `json:"source" dynamodbav:"source"`
	Filename       string         `json:"filename,omitempty" dynamodbav:"filename,omitempty"`
	LexiconVersion string         `json:"lexicon_version" dynamodbav:"lexicon_version"`
	Text           string         `json:"text" dynamodbav:"text"`
	CreatedAt      time.Time      `json:"created_at" dynamodbav:"created_at"`
	Cached         bool           `json:"cached,omitempty" dynamodbav:"-"`
	Analysis       AnalysisResult `json:"analysis" dynamodbav:"analysis"`
}

type AnalyzeResponse struct {
	Success  bool            `json:"success"`
	ID       string          `json:"id,omitempty"`
	Analysis *AnalysisResult `json:"analysis"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
