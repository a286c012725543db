package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"jiraharvest/worklog"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, drafts []worklog.Draft) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(draftHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, draft := range drafts {
		if err := writer.Write(draftRow(draft)); err != nil {
			return fmt.Errorf("write csv row for %s: %w", draft.IssueKey, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
