package output

import (
	"fmt"
	"strings"

	"jiraharvest/worklog"
)

// Writer persists reconciliation drafts to a file.
type Writer interface {
	Write(path string, drafts []worklog.Draft) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

var draftHeaders = []string{"IssueKey", "Summary", "Client", "Project", "Task", "SpentDate", "Hours", "Notes"}

func draftRow(draft worklog.Draft) []string {
	return []string{
		draft.IssueKey,
		draft.Summary,
		draft.Client,
		draft.Project,
		draft.Task,
		draft.SpentDateString(),
		fmt.Sprintf("%g", draft.Hours),
		draft.Notes,
	}
}
