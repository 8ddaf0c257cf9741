package main

import (
	"fmt"
	"io"

	"folio/folio/services/analytics"
	"folio/folio/sources/psql/dao"
	"folio/folio/utils/color"
	"folio/folio/utils/jsonutils"
	"folio/folio/utils/types"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print analytics totals from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return printStats(cmd, dao.NewAnalyticsDAO(db.DB), cmd.OutOrStdout())
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the reports as JSON")
}

type statsReport struct {
	Summary      []types.EventCount   `json:"summary"`
	TopProjects  []types.ProjectCount `json:"topProjects"`
	ChatbotStats types.ChatbotStats   `json:"chatbotStats"`
}

func printStats(cmd *cobra.Command, reporter analytics.Reporter, out io.Writer) error {
	ctx := cmd.Context()

	summary, err := reporter.Summary(ctx)
	if err != nil {
		return fmt.Errorf("failed to load summary: %w", err)
	}
	top, err := reporter.TopProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to load top projects: %w", err)
	}
	stats, err := reporter.ChatbotStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load chatbot stats: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		fmt.Fprintln(out, jsonutils.ToJSON(statsReport{Summary: summary, TopProjects: top, ChatbotStats: stats}))
		return nil
	}

	fmt.Fprintln(out, color.ColorPrompt("Events"))
	if len(summary) == 0 {
		fmt.Fprintln(out, color.ColorMuted("  none recorded"))
	}
	for _, row := range summary {
		fmt.Fprintf(out, "  %-22s %-12s %6d\n", row.EventType, row.EventCategory, row.Count)
	}

	fmt.Fprintln(out, color.ColorPrompt("Top projects"))
	for i, p := range top {
		fmt.Fprintf(out, "  %2d. %-40s %6d\n", i+1, p.ProjectName, p.Count)
	}

	fmt.Fprintln(out, color.ColorPrompt("Chatbot"))
	fmt.Fprintf(out, "  questions: %d\n  visitors:  %d\n", stats.TotalQuestions, stats.UniqueUsers)
	return nil
}
