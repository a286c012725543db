package match

import (
	"sort"
	"strings"

	"jiraharvest/harvest"
	"jiraharvest/jira"
)

// BillableLabel marks a Jira issue whose work is charged to the client.
const BillableLabel = "HARVEST-Billable"

// Pair is a resolved (project assignment, task assignment) combination.
type Pair struct {
	Assignment harvest.ProjectAssignment
	Task       harvest.TaskAssignment
}

// Resolve matches an issue to the best (project assignment, task assignment)
// pair: project assignments whose client name appears in the issue summary,
// restricted to task assignments whose billable flag matches the issue's
// billable label, ordered by taskOrderLess. Returns false when nothing
// matches; the caller falls back to interactive correction.
func Resolve(issue jira.Issue, assignments []harvest.ProjectAssignment) (Pair, bool) {
	issueIsBillable := hasLabel(issue, BillableLabel)

	var best Pair
	found := false
	for _, assignment := range assignments {
		if !strings.Contains(issue.Fields.Summary, assignment.Client.Name) {
			continue
		}
		for _, task := range assignment.TaskAssignments {
			if task.Billable != issueIsBillable {
				continue
			}
			candidate := Pair{Assignment: assignment, Task: task}
			if !found || pairLess(candidate, best) {
				best = candidate
				found = true
			}
		}
	}
	return best, found
}

// isPrimaryByNamingConvention sorts a task assignment ahead of the rest when
// its name contains "billable". The predicate is purely name-based.
// TODO: confirm with the Harvest workspace owners that the "billable"
// substring is the intended marker for default dev tasks.
func isPrimaryByNamingConvention(task harvest.TaskAssignment) bool {
	return strings.Contains(strings.ToLower(task.Task.Name), "billable")
}

func taskOrderLess(a, b harvest.TaskAssignment) bool {
	aPrimary := isPrimaryByNamingConvention(a)
	bPrimary := isPrimaryByNamingConvention(b)
	if aPrimary != bPrimary {
		return aPrimary
	}
	return a.Task.Name < b.Task.Name
}

func pairLess(a, b Pair) bool {
	if taskOrderLess(a.Task, b.Task) {
		return true
	}
	if taskOrderLess(b.Task, a.Task) {
		return false
	}
	// Equal task ordering: fall back to project name so the result does not
	// depend on the order the assignments were fetched in.
	return a.Assignment.Project.Name < b.Assignment.Project.Name
}

func hasLabel(issue jira.Issue, label string) bool {
	for _, candidate := range issue.Fields.Labels {
		if candidate == label {
			return true
		}
	}
	return false
}

// SortTaskAssignments orders task assignments for display and selection,
// primary tasks first.
func SortTaskAssignments(tasks []harvest.TaskAssignment) []harvest.TaskAssignment {
	out := append([]harvest.TaskAssignment(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return taskOrderLess(out[i], out[j])
	})
	return out
}
