package classify

import "jiraharvest/jira"

// PendingIssues splits the issue feed against the notes of existing Harvest
// time entries: issues whose key already appears as a note were recorded in
// an earlier run and are dropped. This is the at-most-once guarantee of the
// sync; it holds as long as every creator writes the issue key into notes.
func PendingIssues(issues []jira.Issue, existingNotes map[string]struct{}) ([]jira.Issue, int) {
	pending := make([]jira.Issue, 0, len(issues))
	duplicates := 0

	for _, issue := range issues {
		if _, exists := existingNotes[issue.Key]; exists {
			duplicates++
			continue
		}
		pending = append(pending, issue)
	}

	return pending, duplicates
}
