package cli

import (
	"errors"
	"fmt"

	"github.com/spacesedan/postlens/internal/db"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	limit int
	json  bool
}

var showJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analyses",
	Long: `List the most recent analyses from the configured store (store.backend
must be bolt or dynamodb).`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", db.DEFAULT_RECENT_LIMIT, "number of records")
	historyCmd.Flags().BoolVar(&historyFlags.json, "json", false, "output as JSON")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
}

func noStoreHint(err error) error {
	if errors.Is(err, db.ErrNoStore) {
		return fmt.Errorf("no history store configured, set store.backend to bolt or dynamodb")
	}
	return err
}

func runHistory(cmd *cobra.Command, args []string) error {
	rt, err := newApp(cmd.Context(), GetConfig())
	if err != nil {
		return err
	}
	defer rt.Close()

	records, err := rt.Service.Recent(cmd.Context(), historyFlags.limit)
	if err != nil {
		return noStoreHint(err)
	}

	if historyFlags.json {
		return writeJSON(cmd.OutOrStdout(), records)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No analyses yet.")
		return nil
	}
	return writeHistory(cmd.OutOrStdout(), records)
}

func runShow(cmd *cobra.Command, args []string) error {
	rt, err := newApp(cmd.Context(), GetConfig())
	if err != nil {
		return err
	}
	defer rt.Close()

	record, err := rt.Service.Get(cmd.Context(), args[0])
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("analysis %s not found", args[0])
	}
	if err != nil {
		return noStoreHint(err)
	}

	if showJSON {
		return writeJSON(cmd.OutOrStdout(), record)
	}
	writeReport(cmd.OutOrStdout(), record)
	return nil
}
