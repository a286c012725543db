package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jiraharvest/config"
	"jiraharvest/storage"
)

var (
	historyDBPath string
	historyIssue  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the local sync history",
	Long: `Show the per-issue outcomes recorded by previous sync runs: created,
skipped, and failed issues with the values that were (or would have been)
sent to Harvest.`,
	Example: `
  # Show all recorded outcomes
  jiraharvest history

  # Show outcomes for a single issue
  jiraharvest history --issue PROJ-123
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(resolveHistoryDBPath())
		if err != nil {
			return err
		}
		defer store.Close()

		var records []storage.Record
		if historyIssue != "" {
			records, err = store.ListRecordsByIssue(historyIssue)
		} else {
			records, err = store.ListRecords()
		}
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No sync history recorded yet.")
			return nil
		}

		for _, record := range records {
			fmt.Printf(
				"%s  %-7s  %s - %s\n",
				record.CreatedAt.Format("2006-01-02 15:04"),
				record.Outcome,
				record.IssueKey,
				record.Summary,
			)
			if record.Outcome == storage.OutcomeFailed {
				fmt.Printf("    reason: %s\n", record.Reason)
				continue
			}
			fmt.Printf(
				"    %s / %s / %s, %g hours on %s\n",
				record.Client,
				record.Project,
				record.Task,
				record.Hours,
				record.SpentDate,
			)
		}
		fmt.Printf("Records: %d\n", len(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyDBPath, "db", "", "Path to the history database (default from config)")
	historyCmd.Flags().StringVar(&historyIssue, "issue", "", "Only show records for this issue key")
}

// resolveHistoryDBPath prefers the flag, then the config value, then the
// built-in default, so history works even without a valid config file.
func resolveHistoryDBPath() string {
	if historyDBPath != "" {
		return historyDBPath
	}
	if path := viper.GetString(config.KeySyncDB); path != "" {
		return path
	}
	return ".jiraharvest.db"
}
