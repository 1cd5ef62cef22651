package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spacesedan/postlens/internal/analysis"
	"github.com/spacesedan/postlens/internal/batch"
	"github.com/spacesedan/postlens/internal/models"
	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	text     string
	markdown bool
	json     bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Analyze one post",
	Long: `Analyze a single post from a file, from stdin ("-") or from --text.

Files ending in .md or .markdown are converted to plain text first; use
--markdown to force that for stdin or --text.

Examples:
  postlens analyze draft.txt
  cat draft.md | postlens analyze - --markdown
  postlens analyze --text "New release is out! #golang" --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeFlags.text, "text", "t", "", "text to analyze instead of a file")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.markdown, "markdown", false, "treat the input as markdown")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.json, "json", false, "output as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	rt, err := newApp(cmd.Context(), GetConfig())
	if err != nil {
		return err
	}
	defer rt.Close()

	record, err := rt.Service.Analyze(cmd.Context(), req)
	if err != nil && !analysis.IsStoreError(err) {
		return err
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	if analyzeFlags.json {
		return writeJSON(cmd.OutOrStdout(), record)
	}
	writeReport(cmd.OutOrStdout(), record)
	return nil
}

func buildRequest(stdin io.Reader, args []string) (models.AnalysisRequest, error) {
	req := models.AnalysisRequest{
		Source: models.SOURCE_CLI,
		Format: models.FORMAT_PLAIN,
	}

	switch {
	case analyzeFlags.text != "" && len(args) > 0:
		return req, fmt.Errorf("use either a file argument or --text, not both")
	case analyzeFlags.text != "":
		req.Text = analyzeFlags.text
	case len(args) == 0 || args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return req, fmt.Errorf("failed to read stdin: %w", err)
		}
		req.Text = string(data)
	default:
		text, err := batch.ReadFile(args[0])
		if err != nil {
			return req, fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		req.Text = text
		req.Filename = filepath.Base(args[0])
		req.Format = batch.FormatFor(args[0])
	}

	if analyzeFlags.markdown {
		req.Format = models.FORMAT_MARKDOWN
	}
	return req, nil
}
