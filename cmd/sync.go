package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jiraharvest/config"
	"jiraharvest/prompt"
	"jiraharvest/reconcile"
	"jiraharvest/storage"
)

var (
	syncDaysToGoBack int
	syncNoHistory    bool
	syncTimeout      time.Duration
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Convert completed Jira issues into Harvest time entries",
	Long: `Fetch recently completed Jira issues labelled for Harvest and create the
matching Harvest time entries.

For each issue the command derives the spent date and worked hours from the
status changelog, matches the issue summary against your Harvest clients to
pick a project and task, and shows the proposed entry for confirmation.
Anything that cannot be derived automatically is asked for interactively.
Issues that already have a Harvest entry (matched by notes) are skipped.

Every outcome is recorded in a local SQLite history unless --no-history is set.`,
	Example: `
  # Sync the default lookback window
  jiraharvest sync

  # Sync the last 30 days
  jiraharvest sync --days 30

  # Sync without recording local history
  jiraharvest sync --no-history
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		log := newLogger()
		days := resolveDays(cfg, syncDaysToGoBack)

		jiraClient, err := newJiraClient(cfg, log)
		if err != nil {
			return err
		}
		harvestClient, err := newHarvestClient(cfg, log)
		if err != nil {
			return err
		}

		var history *storage.SQLiteStore
		if !syncNoHistory {
			history, err = storage.OpenSQLite(cfg.Sync.DB)
			if err != nil {
				return err
			}
			defer history.Close()
		}

		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		issues, err := jiraClient.BillableIssues(ctx, days)
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			fmt.Printf("No syncable Jira issues found in the last %d days.\n", days)
			return nil
		}

		engine, err := reconcile.NewEngine(ctx, harvestClient, prompt.NewTerminal(), reconcile.Options{
			MaxPromptAttempts: cfg.Sync.MaxPromptAttempts,
			DaysToGoBack:      days,
			History:           history,
			Logger:            log,
		})
		if err != nil {
			return err
		}

		// Prompts block on the user, so the per-issue loop runs without the
		// fetch timeout.
		summary, err := engine.Run(context.Background(), issues)
		if err != nil {
			return err
		}

		fmt.Printf(
			"Sync completed. Issues: %d, Created: %d, Skipped: %d, Already in Harvest: %d, Failed: %d\n",
			len(issues),
			summary.Created,
			summary.Skipped,
			summary.Duplicates,
			summary.Failed,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().IntVar(&syncDaysToGoBack, "days", 0, "Days to look back for completed issues (default from config)")
	syncCmd.Flags().BoolVar(&syncNoHistory, "no-history", false, "Do not record outcomes in the local history database")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 60*time.Second, "Timeout for the initial Jira and Harvest fetches")
}

func resolveDays(cfg *config.Config, flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return cfg.Sync.DaysToGoBack
}
