package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jiraharvest/config"
)

var (
	entriesDaysToGoBack int
	entriesTimeout      time.Duration
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List Harvest time entries for the lookback window",
	Long: `List the authenticated user's Harvest time entries for the lookback window.

These are the entries the sync deduplicates against: an issue whose key appears
in an entry's notes is never created twice.`,
	Example: `
  # List entries for the default lookback window
  jiraharvest entries

  # List entries for the last 30 days
  jiraharvest entries --days 30
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		days := resolveDays(cfg, entriesDaysToGoBack)

		client, err := newHarvestClient(cfg, newLogger())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), entriesTimeout)
		defer cancel()

		to := time.Now()
		from := to.AddDate(0, 0, -days)
		entries, err := client.TimeEntries(ctx, from, to)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No Harvest time entries found in the last %d days.\n", days)
			return nil
		}

		var totalHours float64
		for _, entry := range entries {
			fmt.Printf(
				"%s  %-24s %-24s %5.2fh  %s\n",
				entry.SpentDate,
				entry.Project.Name,
				entry.Task.Name,
				entry.Hours,
				entry.Notes,
			)
			totalHours += entry.Hours
		}
		fmt.Printf("Entries: %d, Total hours: %g\n", len(entries), totalHours)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(entriesCmd)

	entriesCmd.Flags().IntVar(&entriesDaysToGoBack, "days", 0, "Days to look back (default from config)")
	entriesCmd.Flags().DurationVar(&entriesTimeout, "timeout", 60*time.Second, "Timeout for the Harvest fetch")
}
