package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spacesedan/postlens/internal/batch"
	"github.com/spacesedan/postlens/internal/models"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeReport(w io.Writer, record *models.AnalysisRecord) {
	a := record.Analysis

	if record.Filename != "" {
		fmt.Fprintf(w, "File: %s\n", record.Filename)
	}
	if record.ID != "" {
		fmt.Fprintf(w, "ID: %s\n", record.ID)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "Words: %d   Sentences: %d   Characters: %d\n",
		a.Statistics.WordCount, a.Statistics.SentenceCount, a.Statistics.CharacterCount)
	fmt.Fprintf(w, "Readability: %.2f (grade %.2f)\n",
		a.Statistics.ReadabilityScore, a.Statistics.GradeLevel)
	fmt.Fprintf(w, "Sentiment: %s (compound %.3f, pos %.3f, neu %.3f, neg %.3f)\n",
		a.Sentiment.Overall, a.Sentiment.Compound, a.Sentiment.Positive, a.Sentiment.Neutral, a.Sentiment.Negative)

	if len(a.SocialElements.Hashtags) > 0 {
		fmt.Fprintf(w, "Hashtags: %s\n", strings.Join(a.SocialElements.Hashtags, " "))
	}
	if len(a.SocialElements.Mentions) > 0 {
		fmt.Fprintf(w, "Mentions: %s\n", strings.Join(a.SocialElements.Mentions, " "))
	}

	if len(a.CommonWords) > 0 {
		words := make([]string, 0, len(a.CommonWords))
		for _, wf := range a.CommonWords {
			words = append(words, fmt.Sprintf("%s (%d)", wf.Word, wf.Count))
		}
		fmt.Fprintf(w, "Common words: %s\n", strings.Join(words, ", "))
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintln(w, "Suggestions:")
	for i, s := range a.Suggestions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s)
	}
}

// batchEntry is one line of `postlens batch --json`.
type batchEntry struct {
	File     string                 `json:"file"`
	ID       string                 `json:"id,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Analysis *models.AnalysisResult `json:"analysis,omitempty"`
}

func toBatchEntries(root string, results []batch.FileResult) []batchEntry {
	entries := make([]batchEntry, 0, len(results))
	for _, r := range results {
		entry := batchEntry{File: displayPath(root, r.Path)}
		if r.Record != nil {
			entry.ID = r.Record.ID
			entry.Analysis = &r.Record.Analysis
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		entries = append(entries, entry)
	}
	return entries
}

func writeBatchTable(w io.Writer, root string, results []batch.FileResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tWORDS\tREADABILITY\tSENTIMENT\tCOMPOUND\tSUGGESTIONS")
	for _, r := range results {
		name := displayPath(root, r.Path)
		if r.Record == nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\terror: %v\n", name, r.Err)
			continue
		}
		a := r.Record.Analysis
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%s\t%.3f\t%d\n",
			name, a.Statistics.WordCount, a.Statistics.ReadabilityScore,
			a.Sentiment.Overall, a.Sentiment.Compound, len(a.Suggestions))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := batch.Summarize(results)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Files: %d   Analyzed: %d   Failed: %d\n", s.Files, s.Analyzed, s.Failed)
	if s.Analyzed > 0 {
		fmt.Fprintf(w, "Average words: %.1f   readability: %.2f   compound: %.3f\n",
			s.AvgWords, s.AvgReadability, s.AvgCompound)
		fmt.Fprintf(w, "Positive: %d   Neutral: %d   Negative: %d\n",
			s.Labels["Positive"], s.Labels["Neutral"], s.Labels["Negative"])
	}
	return nil
}

func writeHistory(w io.Writer, records []models.AnalysisRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tSENTIMENT\tPREVIEW")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source, r.Analysis.Sentiment.Overall, preview(r.Text, 40))
	}
	return tw.Flush()
}

func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return text
}
