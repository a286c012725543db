package worklog

import "time"

// Draft is the normalized time-entry candidate shared across the sync engine,
// dry-run previews, outputs, and the local history store.
type Draft struct {
	IssueKey  string
	Summary   string
	Client    string
	Project   string
	Task      string
	ProjectID int64
	TaskID    int64
	SpentDate time.Time
	Hours     float64
	Notes     string
}

// SpentDateString renders the spent date the way the Harvest API expects it.
func (d Draft) SpentDateString() string {
	return d.SpentDate.Format("2006-01-02")
}
