package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"jiraharvest/worklog"
)

// DailySummary aggregates the drafts logged against one spent date.
type DailySummary struct {
	Date       string
	EntryCount int
	TotalHours float64
}

func BuildDailySummaries(drafts []worklog.Draft) []DailySummary {
	if len(drafts) == 0 {
		return []DailySummary{}
	}

	byDay := make(map[string][]worklog.Draft)
	for _, draft := range drafts {
		day := draft.SpentDateString()
		byDay[day] = append(byDay[day], draft)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	summaries := make([]DailySummary, 0, len(days))
	for _, day := range days {
		summary := DailySummary{Date: day, EntryCount: len(byDay[day])}
		for _, draft := range byDay[day] {
			summary.TotalHours += draft.Hours
		}
		summaries = append(summaries, summary)
	}

	return summaries
}

var dailySummaryHeaders = []string{"Date", "Entries", "TotalHours"}

func dailySummaryRow(summary DailySummary) []string {
	return []string{
		summary.Date,
		strconv.Itoa(summary.EntryCount),
		fmt.Sprintf("%g", summary.TotalHours),
	}
}

// WriteDailySummaries persists the per-day aggregates in the given format.
func WriteDailySummaries(path, format string, summaries []DailySummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeDailySummariesCSV(path, summaries)
	case "excel", "xlsx":
		return writeDailySummariesExcel(path, summaries)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeDailySummariesCSV(path string, summaries []DailySummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(dailySummaryHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, summary := range summaries {
		if err := writer.Write(dailySummaryRow(summary)); err != nil {
			return fmt.Errorf("write csv row for %s: %w", summary.Date, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeDailySummariesExcel(path string, summaries []DailySummary) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for col, header := range dailySummaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}
	for i, summary := range summaries {
		row := i + 2
		for col, value := range dailySummaryRow(summary) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}
	return nil
}
