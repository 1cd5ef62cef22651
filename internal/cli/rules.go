package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spacesedan/postlens/internal/suggestions"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List suggestion rules in evaluation order",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, rule := range suggestions.Rules() {
		fmt.Fprintf(tw, "%s\t%s\n", rule.ID, rule.Name)
	}
	return tw.Flush()
}
