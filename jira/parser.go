package jira

import (
	"fmt"
	"strings"
	"time"

	"jiraharvest/internal/timeutil"
)

// changelogTimeLayout matches Jira's history "created" timestamps,
// e.g. 2024-03-01T16:00:00.000+0100.
const changelogTimeLayout = "2006-01-02T15:04:05.000-0700"

const (
	statusToDo       = "To Do"
	statusInProgress = "In Progress"
)

// StatusChange is a changelog event recording the status field moving from
// one value to another at a timestamp.
type StatusChange struct {
	From string
	To   string
	At   time.Time
}

// StatusChanges extracts the status transitions from an issue's changelog.
// The result is not guaranteed to be sorted by time. A malformed history
// timestamp fails the whole extraction.
func StatusChanges(issue Issue) ([]StatusChange, error) {
	changes := make([]StatusChange, 0, len(issue.Changelog.Histories))
	for _, history := range issue.Changelog.Histories {
		for _, item := range history.Items {
			if !strings.EqualFold(item.FieldID, "status") {
				continue
			}
			if item.FromString == "" || item.ToValue == "" {
				continue
			}
			at, err := time.ParseInLocation(changelogTimeLayout, history.Created, time.Local)
			if err != nil {
				return nil, fmt.Errorf("parse changelog timestamp %q for issue %s: %w", history.Created, issue.Key, err)
			}
			changes = append(changes, StatusChange{From: item.FromString, To: item.ToValue, At: at})
		}
	}
	return changes, nil
}

// WorkedOnDate returns the date the issue first entered "In Progress".
func WorkedOnDate(issue Issue) (time.Time, bool, error) {
	changes, err := StatusChanges(issue)
	if err != nil {
		return time.Time{}, false, err
	}

	var earliest time.Time
	found := false
	for _, change := range changes {
		if !strings.EqualFold(change.To, statusInProgress) {
			continue
		}
		if !found || change.At.Before(earliest) {
			earliest = change.At
			found = true
		}
	}
	if !found {
		return time.Time{}, false, nil
	}
	return timeutil.StartOfDay(earliest), true, nil
}

// WorkedDuration derives the worked time from the status history: from the
// first departure out of "To Do" until the last departure out of
// "In Progress". Same-day spans return the raw elapsed time; spans across
// days are clipped to working hours on weekdays.
func WorkedDuration(issue Issue) (time.Duration, bool, error) {
	changes, err := StatusChanges(issue)
	if err != nil {
		return 0, false, err
	}

	var start, end time.Time
	haveStart, haveEnd := false, false
	for _, change := range changes {
		if strings.EqualFold(change.From, statusToDo) {
			if !haveStart || change.At.Before(start) {
				start = change.At
				haveStart = true
			}
		}
		if strings.EqualFold(change.From, statusInProgress) {
			if !haveEnd || change.At.After(end) {
				end = change.At
				haveEnd = true
			}
		}
	}
	if !haveStart || !haveEnd {
		return 0, false, nil
	}

	if timeutil.SameDay(start, end) {
		return end.Sub(start), true, nil
	}

	var total time.Duration
	lastDay := timeutil.StartOfDay(end)
	for day := timeutil.StartOfDay(start); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		if timeutil.IsWeekend(day) {
			continue
		}
		total += timeutil.WorkingOverlap(day, start, end)
	}
	return total, true, nil
}

// IsAssigneeMatch reports whether the issue currently belongs to the user or
// was assigned to them at some point in the changelog. The latter covers
// issues reassigned away after the user did the work.
func IsAssigneeMatch(user User, issue Issue) bool {
	if issue.Fields.Assignee != nil && issue.Fields.Assignee.AccountID == user.AccountID {
		return true
	}
	for _, history := range issue.Changelog.Histories {
		for _, item := range history.Items {
			if strings.EqualFold(item.FieldID, "assignee") && item.From == user.AccountID {
				return true
			}
		}
	}
	return false
}
