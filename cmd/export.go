package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
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
	exportFormat       string
	exportMode         string
	exportOutput       string
	exportDaysToGoBack int
	exportTimeout      time.Duration
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export proposed time entries to CSV/Excel",
	Long: `Resolve every syncable Jira issue non-interactively and export the proposed
Harvest time entries to a file. Issues that would need interactive input
during a real sync are left out.

Modes:
- raw: one row per proposed time entry
- daily: per-day aggregates (entry count, total hours)

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export proposed entries to CSV
  jiraharvest export --output ./entries.csv

  # Export proposed entries to Excel
  jiraharvest export --output ./entries.xlsx

  # Export daily totals
  jiraharvest export --mode daily --output ./daily-summary.csv

  # Force Excel format independent of extension
  jiraharvest export --mode daily --format excel --output ./daily-summary.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		log := newLogger()
		days := resolveDays(cfg, exportDaysToGoBack)

		jiraClient, err := newJiraClient(cfg, log)
		if err != nil {
			return err
		}
		harvestClient, err := newHarvestClient(cfg, log)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		issues, err := jiraClient.BillableIssues(ctx, days)
		if err != nil {
			return err
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

		pending, _ := classify.PendingIssues(issues, harvest.ExistingEntryNotes(entries))
		drafts := make([]worklog.Draft, 0, len(pending))
		for _, issue := range pending {
			draft, err := reconcile.BuildAutoDraft(issue, assignments)
			if err != nil {
				log.Warn().Str("issue", issue.Key).Err(err).Msg("left out of export")
				continue
			}
			drafts = append(drafts, draft)
		}

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "raw":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, drafts); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", len(drafts), format, exportOutput)
		case "daily":
			summaries := output.BuildDailySummaries(drafts)
			if err := output.WriteDailySummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Days: %d, Mode: daily, Format: %s, File: %s\n", len(summaries), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: raw, daily)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|daily")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().IntVar(&exportDaysToGoBack, "days", 0, "Days to look back for completed issues (default from config)")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 60*time.Second, "Timeout for Jira and Harvest fetches")

	_ = exportCmd.MarkFlagRequired("output")
}
