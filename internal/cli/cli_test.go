package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spacesedan/postlens/config"
	"github.com/spacesedan/postlens/internal/models"
	"github.com/spf13/cobra"
)

func resetFlags(t *testing.T) {
	t.Helper()
	analyzeFlags.text = ""
	analyzeFlags.markdown = false
	analyzeFlags.json = false
	batchFlags.json = false
	batchFlags.workers = 0
	batchFlags.noProgress = true
	historyFlags.limit = 20
	historyFlags.json = false
	showJSON = false

	cfg = config.DefaultConfig()
	t.Cleanup(func() { cfg = nil })
}

func newTestCmd(stdin string) (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	return cmd, out
}

func useBoltStore(t *testing.T) {
	t.Helper()
	cfg.Store.Backend = config.STORE_BOLT
	cfg.Store.BoltPath = filepath.Join(t.TempDir(), "history.db")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := []string{"analyze", "batch", "watch", "serve", "history", "show", "rules"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "log-level"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestBuildRequest(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	mdPath := filepath.Join(dir, "post.md")
	if err := os.WriteFile(mdPath, []byte("# Hello\n\nWorld"), 0o644); err != nil {
		t.Fatal(err)
	}

	req, err := buildRequest(nil, []string{mdPath})
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if req.Format != models.FORMAT_MARKDOWN || req.Filename != "post.md" || req.Source != models.SOURCE_CLI {
		t.Errorf("unexpected file request %+v", req)
	}

	req, err = buildRequest(strings.NewReader("from stdin"), []string{"-"})
	if err != nil || req.Text != "from stdin" || req.Format != models.FORMAT_PLAIN {
		t.Errorf("unexpected stdin request %+v, %v", req, err)
	}

	analyzeFlags.text = "inline"
	analyzeFlags.markdown = true
	req, err = buildRequest(nil, nil)
	if err != nil || req.Text != "inline" || req.Format != models.FORMAT_MARKDOWN {
		t.Errorf("unexpected inline request %+v, %v", req, err)
	}

	if _, err := buildRequest(nil, []string{mdPath}); err == nil {
		t.Error("expected error when both --text and a file are given")
	}
}

func TestRunAnalyze_Report(t *testing.T) {
	resetFlags(t)
	analyzeFlags.text = "Love this! #AI #ml @bob check it out"

	cmd, out := newTestCmd("")
	if err := runAnalyze(cmd, nil); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	report := out.String()
	for _, want := range []string{"Words: 8", "Hashtags: #AI #ml", "Mentions: @bob", "Suggestions:"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRunAnalyze_JSON(t *testing.T) {
	resetFlags(t)
	analyzeFlags.json = true

	cmd, out := newTestCmd("What a wonderful day!")
	if err := runAnalyze(cmd, []string{"-"}); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var record models.AnalysisRecord
	if err := json.Unmarshal(out.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if record.Analysis.Sentiment.Overall != "Positive" {
		t.Errorf("expected Positive, got %s", record.Analysis.Sentiment.Overall)
	}
	if record.Source != models.SOURCE_CLI {
		t.Errorf("expected cli source, got %s", record.Source)
	}
}

func TestRunAnalyze_EmptyInput(t *testing.T) {
	resetFlags(t)
	cmd, _ := newTestCmd("   \n")
	if err := runAnalyze(cmd, nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestRunBatch(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	files := map[string]string{
		"a.txt":      "I love this so much!",
		"notes/b.md": "# Update\n\nThis is awful.",
		"skip.go":    "package skip",
		"empty.txt":  " ",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		os.MkdirAll(filepath.Dir(path), 0o755)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cmd, out := newTestCmd("")
	if err := runBatch(cmd, []string{dir}); err != nil {
		t.Fatalf("batch: %v", err)
	}
	table := out.String()
	for _, want := range []string{"a.txt", "notes/b.md", "empty.txt", "Files: 3", "Analyzed: 2", "Failed: 1"} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q:\n%s", want, table)
		}
	}
	if strings.Contains(table, "skip.go") {
		t.Error("non-matching file was analyzed")
	}

	batchFlags.json = true
	cmd, out = newTestCmd("")
	if err := runBatch(cmd, []string{dir}); err != nil {
		t.Fatalf("batch json: %v", err)
	}
	var entries []batchEntry
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].File != "a.txt" || entries[0].Analysis == nil {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
}

func TestRunBatch_NoFiles(t *testing.T) {
	resetFlags(t)
	cmd, _ := newTestCmd("")
	if err := runBatch(cmd, []string{t.TempDir()}); err == nil {
		t.Error("expected error for a directory without matches")
	}
}

func TestHistoryAndShow(t *testing.T) {
	resetFlags(t)
	useBoltStore(t)

	analyzeFlags.text = "Shipping the new release today! #golang"
	analyzeFlags.json = true
	cmd, out := newTestCmd("")
	if err := runAnalyze(cmd, nil); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var record models.AnalysisRecord
	if err := json.Unmarshal(out.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record.ID == "" {
		t.Fatal("expected a stored record id")
	}

	cmd, out = newTestCmd("")
	if err := runHistory(cmd, nil); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out.String(), record.ID) {
		t.Errorf("history missing %s:\n%s", record.ID, out.String())
	}

	cmd, out = newTestCmd("")
	if err := runShow(cmd, []string{record.ID}); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), "Hashtags: #golang") {
		t.Errorf("unexpected show output:\n%s", out.String())
	}

	cmd, _ = newTestCmd("")
	if err := runShow(cmd, []string{"missing"}); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestHistory_NoStore(t *testing.T) {
	resetFlags(t)
	cmd, _ := newTestCmd("")
	err := runHistory(cmd, nil)
	if err == nil || !strings.Contains(err.Error(), "no history store") {
		t.Errorf("expected no store error, got %v", err)
	}
}

func TestRunRules(t *testing.T) {
	cmd, out := newTestCmd("")
	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("rules: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected header and 7 rules, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "SUG001") || !strings.Contains(lines[7], "emoji") {
		t.Errorf("unexpected rule listing:\n%s", out.String())
	}
}

func TestPreview(t *testing.T) {
	if got := preview("a  b\nc", 10); got != "a b c" {
		t.Errorf("got %q", got)
	}
	if got := preview("abcdef", 3); got != "abc..." {
		t.Errorf("got %q", got)
	}
}
