package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jiraharvest/config"
	"jiraharvest/jira"
)

var (
	issuesDaysToGoBack int
	issuesTimeout      time.Duration
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List the Jira issues that qualify for syncing",
	Long: `List recently completed Jira issues labelled for Harvest and assigned to you,
with the worked-on date and duration derived from each issue's changelog.`,
	Example: `
  # List syncable issues for the default lookback window
  jiraharvest issues

  # List syncable issues for the last 30 days
  jiraharvest issues --days 30
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		log := newLogger()
		days := resolveDays(cfg, issuesDaysToGoBack)

		client, err := newJiraClient(cfg, log)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), issuesTimeout)
		defer cancel()

		issues, err := client.BillableIssues(ctx, days)
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			fmt.Printf("No syncable Jira issues found in the last %d days.\n", days)
			return nil
		}

		for _, issue := range issues {
			fmt.Printf("%s - %s\n", issue.Key, issue.Fields.Summary)
			fmt.Printf("  worked on: %s\n", describeWorkedOn(issue))
			fmt.Printf("  duration:  %s\n", describeWorkedDuration(issue))
		}
		fmt.Printf("Issues found: %d\n", len(issues))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(issuesCmd)

	issuesCmd.Flags().IntVar(&issuesDaysToGoBack, "days", 0, "Days to look back for completed issues (default from config)")
	issuesCmd.Flags().DurationVar(&issuesTimeout, "timeout", 60*time.Second, "Timeout for the Jira fetch")
}

func describeWorkedOn(issue jira.Issue) string {
	date, ok, err := jira.WorkedOnDate(issue)
	if err != nil {
		return fmt.Sprintf("unreadable changelog (%v)", err)
	}
	if !ok {
		return "unknown"
	}
	return date.Format("2006-01-02")
}

func describeWorkedDuration(issue jira.Issue) string {
	duration, ok, err := jira.WorkedDuration(issue)
	if err != nil {
		return fmt.Sprintf("unreadable changelog (%v)", err)
	}
	if !ok {
		return "unknown"
	}
	return duration.String()
}
