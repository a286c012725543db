package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jiraharvest/worklog"
)

func draft(key string, day time.Time, hours float64) worklog.Draft {
	return worklog.Draft{
		IssueKey:  key,
		Summary:   key + " summary",
		Client:    "Acme",
		Project:   "Website",
		Task:      "Billable Dev",
		SpentDate: day,
		Hours:     hours,
		Notes:     key,
	}
}

func TestBuildDailySummaries_AggregatesPerSpentDate(t *testing.T) {
	t.Parallel()

	march1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	march4 := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)

	summaries := BuildDailySummaries([]worklog.Draft{
		draft("AB-1", march4, 2),
		draft("AB-2", march1, 1),
		draft("AB-3", march1, 3.5),
	})

	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Date != "2024-03-01" || summaries[0].EntryCount != 2 || summaries[0].TotalHours != 4.5 {
		t.Fatalf("unexpected first summary: %+v", summaries[0])
	}
	if summaries[1].Date != "2024-03-04" || summaries[1].TotalHours != 2 {
		t.Fatalf("unexpected second summary: %+v", summaries[1])
	}
}

func TestBuildDailySummaries_Empty(t *testing.T) {
	t.Parallel()

	if got := BuildDailySummaries(nil); len(got) != 0 {
		t.Fatalf("expected no summaries, got %d", len(got))
	}
}

func TestWriteDailySummaries_CSVRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daily.csv")
	summaries := []DailySummary{
		{Date: "2024-03-01", EntryCount: 2, TotalHours: 4.5},
	}

	if err := WriteDailySummaries(path, "csv", summaries); err != nil {
		t.Fatalf("write daily summaries: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	if rows[1][0] != "2024-03-01" || rows[1][1] != "2" || rows[1][2] != "4.5" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}

func TestWriteDailySummaries_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	err := WriteDailySummaries(filepath.Join(t.TempDir(), "out.bin"), "parquet", nil)
	if err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestCSVWriter_WritesDraftRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "drafts.csv")
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)

	writer, err := WriterForFormat("csv")
	if err != nil {
		t.Fatalf("writer for format: %v", err)
	}
	if err := writer.Write(path, []worklog.Draft{draft("AB-1", day, 2)}); err != nil {
		t.Fatalf("write drafts: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	if rows[1][0] != "AB-1" || rows[1][5] != "2024-03-01" || rows[1][6] != "2" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}

func TestWriterForFormat_Excel(t *testing.T) {
	t.Parallel()

	if _, err := WriterForFormat("xlsx"); err != nil {
		t.Fatalf("expected excel writer for xlsx: %v", err)
	}
	if _, err := WriterForFormat("excel"); err != nil {
		t.Fatalf("expected excel writer: %v", err)
	}
	if _, err := WriterForFormat("pdf"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
