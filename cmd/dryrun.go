package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jiraharvest/config"
	"jiraharvest/harvest"
	"jiraharvest/internal/classify"
	"jiraharvest/output"
	"jiraharvest/reconcile"
	"jiraharvest/worklog"
)

var (
	dryRunDaysToGoBack int
	dryRunOutput       string
	dryRunFormat       string
	dryRunTimeout      time.Duration
)

var dryRunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Preview the time entries a sync would create, without writing",
	Long: `Resolve every syncable Jira issue non-interactively and print the Harvest
time entry that would be created for it.

Nothing is written to Harvest and nothing is prompted: issues that would need
interactive correction during a real sync are listed with the reason instead.`,
	Example: `
  # Preview the default lookback window
  jiraharvest dry-run

  # Preview the last 30 days
  jiraharvest dry-run --days 30
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		log := newLogger()
		days := resolveDays(cfg, dryRunDaysToGoBack)

		jiraClient, err := newJiraClient(cfg, log)
		if err != nil {
			return err
		}
		harvestClient, err := newHarvestClient(cfg, log)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), dryRunTimeout)
		defer cancel()

		issues, err := jiraClient.BillableIssues(ctx, days)
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			fmt.Printf("No syncable Jira issues found in the last %d days.\n", days)
			return nil
		}

		assignments, err := harvestClient.ProjectAssignments(ctx)
		if err != nil {
			return err
		}

		to := time.Now()
		from := to.AddDate(0, 0, -days)
		entries, err := harvestClient.TimeEntries(ctx, from, to)
		if err != nil {
			return err
		}

		pending, duplicates := classify.PendingIssues(issues, harvest.ExistingEntryNotes(entries))

		drafts := make([]worklog.Draft, 0, len(pending))
		needsInput := 0
		for _, issue := range pending {
			draft, err := reconcile.BuildAutoDraft(issue, assignments)
			if err != nil {
				needsInput++
				fmt.Printf("%s - %s: needs interactive input (%v)\n", issue.Key, issue.Fields.Summary, err)
				continue
			}
			drafts = append(drafts, draft)
			fmt.Printf(
				"%s - %s: %s / %s / %s, %g hours on %s\n",
				draft.IssueKey,
				draft.Summary,
				draft.Client,
				draft.Project,
				draft.Task,
				draft.Hours,
				draft.SpentDateString(),
			)
		}

		if dryRunOutput != "" {
			format := dryRunFormat
			if format == "" {
				format = detectExportFormat(dryRunOutput)
			}
			writer, err := output.WriterForFormat(format)
			if err != nil {
				return err
			}
			if err := writer.Write(dryRunOutput, drafts); err != nil {
				return err
			}
			fmt.Printf("Previews written to %s\n", dryRunOutput)
		}

		fmt.Printf(
			"Dry-run completed. Issues: %d, Ready: %d, Need input: %d, Already in Harvest: %d\n",
			len(issues),
			len(drafts),
			needsInput,
			duplicates,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dryRunCmd)

	dryRunCmd.Flags().IntVar(&dryRunDaysToGoBack, "days", 0, "Days to look back for completed issues (default from config)")
	dryRunCmd.Flags().StringVarP(&dryRunOutput, "output", "o", "", "Also write the previews to a CSV/Excel file")
	dryRunCmd.Flags().StringVarP(&dryRunFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	dryRunCmd.Flags().DurationVar(&dryRunTimeout, "timeout", 60*time.Second, "Timeout for Jira and Harvest fetches")
}
