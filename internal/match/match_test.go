package match

import (
	"testing"

	"jiraharvest/harvest"
	"jiraharvest/jira"
)

func billableIssue(summary string) jira.Issue {
	return jira.Issue{
		Key: "AB-1",
		Fields: jira.IssueFields{
			Summary: summary,
			Labels:  []string{BillableLabel},
		},
	}
}

func assignment(client, project string, tasks ...harvest.TaskAssignment) harvest.ProjectAssignment {
	return harvest.ProjectAssignment{
		Client:          harvest.Clientele{ID: 1, Name: client},
		Project:         harvest.Project{ID: 10, Name: project},
		TaskAssignments: tasks,
	}
}

func task(name string, billable bool) harvest.TaskAssignment {
	return harvest.TaskAssignment{Task: harvest.Task{ID: int64(len(name)), Name: name}, Billable: billable}
}

func TestResolve_ClientNameMustAppearInSummary(t *testing.T) {
	t.Parallel()

	assignments := []harvest.ProjectAssignment{
		assignment("Acme", "Website", task("Billable Dev", true)),
	}

	if _, ok := Resolve(billableIssue("Globex - add reporting"), assignments); ok {
		t.Fatalf("expected no match for an unrelated client")
	}
	if _, ok := Resolve(billableIssue("Acme - fix login"), assignments); !ok {
		t.Fatalf("expected a match when the client name appears in the summary")
	}
}

func TestResolve_TieBreakOrdering(t *testing.T) {
	t.Parallel()

	assignments := []harvest.ProjectAssignment{
		assignment("Acme", "Website",
			task("Admin", true),
			task("Billable Support", true),
			task("Billable Dev", true),
		),
	}

	pair, ok := Resolve(billableIssue("Acme - fix login"), assignments)
	if !ok {
		t.Fatalf("expected a match")
	}
	if pair.Task.Task.Name != "Billable Dev" {
		t.Fatalf("expected Billable Dev to win, got %q", pair.Task.Task.Name)
	}

	ordered := SortTaskAssignments(assignments[0].TaskAssignments)
	names := []string{ordered[0].Task.Name, ordered[1].Task.Name, ordered[2].Task.Name}
	want := []string{"Billable Dev", "Billable Support", "Admin"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected order %v, want %v", names, want)
		}
	}
}

func TestResolve_BillableGating(t *testing.T) {
	t.Parallel()

	// "Billable Admin" would sort first by name, but a billable issue must
	// never land on a task assignment whose billable flag is false.
	assignments := []harvest.ProjectAssignment{
		assignment("Acme", "Website",
			task("Billable Admin", false),
			task("Internal Support", true),
		),
	}

	pair, ok := Resolve(billableIssue("Acme - fix login"), assignments)
	if !ok {
		t.Fatalf("expected a match")
	}
	if pair.Task.Task.Name != "Internal Support" {
		t.Fatalf("expected the billable task, got %q", pair.Task.Task.Name)
	}
	if !pair.Task.Billable {
		t.Fatalf("resolved task must be billable for a billable issue")
	}
}

func TestResolve_NonBillableIssueSelectsNonBillableTask(t *testing.T) {
	t.Parallel()

	issue := jira.Issue{
		Key: "AB-2",
		Fields: jira.IssueFields{
			Summary: "Acme - internal cleanup",
			Labels:  []string{"HARVEST-NON-Billable"},
		},
	}
	assignments := []harvest.ProjectAssignment{
		assignment("Acme", "Website",
			task("Billable Dev", true),
			task("Non-Billable Work", false),
		),
	}

	pair, ok := Resolve(issue, assignments)
	if !ok {
		t.Fatalf("expected a match")
	}
	if pair.Task.Billable {
		t.Fatalf("expected a non-billable task, got %q", pair.Task.Task.Name)
	}
}

func TestResolve_DeterministicAcrossCalls(t *testing.T) {
	t.Parallel()

	assignments := []harvest.ProjectAssignment{
		assignment("Acme", "Zeta", task("Billable Dev", true)),
		assignment("Acme", "Alpha", task("Billable Dev", true)),
	}

	first, ok := Resolve(billableIssue("Acme - fix login"), assignments)
	if !ok {
		t.Fatalf("expected a match")
	}
	second, ok := Resolve(billableIssue("Acme - fix login"), assignments)
	if !ok {
		t.Fatalf("expected a match on the second call")
	}
	if first.Assignment.Project.Name != second.Assignment.Project.Name {
		t.Fatalf("resolve must be deterministic: %q vs %q", first.Assignment.Project.Name, second.Assignment.Project.Name)
	}
	if first.Assignment.Project.Name != "Alpha" {
		t.Fatalf("expected the project-name tie-break to pick Alpha, got %q", first.Assignment.Project.Name)
	}
}
