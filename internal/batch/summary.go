package batch

import (
	"github.com/spacesedan/postlens/internal/analysis"
	"github.com/spacesedan/postlens/internal/sentiment"
)

type Summary struct {
	Files          int
	Analyzed       int
	Failed         int
	AvgWords       float64
	AvgReadability float64
	AvgCompound    float64
	Labels         map[string]int
}

func Summarize(results []FileResult) Summary {
	s := Summary{
		Files: len(results),
		Labels: map[string]int{
			string(sentiment.LabelPositive): 0,
			string(sentiment.LabelNeutral):  0,
			string(sentiment.LabelNegative): 0,
		},
	}

	var words, readability, compound float64
	for _, r := range results {
		// A store failure still produced an analysis.
		if r.Record == nil {
			s.Failed++
			continue
		}
		if r.Err != nil && !analysis.IsStoreError(r.Err) {
			s.Failed++
			continue
		}
		s.Analyzed++
		words += float64(r.Record.Analysis.Statistics.WordCount)
		readability += r.Record.Analysis.Statistics.ReadabilityScore
		compound += r.Record.Analysis.Sentiment.Compound
		s.Labels[r.Record.Analysis.Sentiment.Overall]++
	}

	if s.Analyzed > 0 {
		n := float64(s.Analyzed)
		s.AvgWords = words / n
		s.AvgReadability = readability / n
		s.AvgCompound = compound / n
	}
	return s
}
