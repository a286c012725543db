package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jiraharvest/harvest"
	"jiraharvest/internal/classify"
	"jiraharvest/internal/match"
	"jiraharvest/jira"
	"jiraharvest/prompt"
	"jiraharvest/storage"
	"jiraharvest/worklog"
)

const (
	spentDateInputLayout = "02/01/2006"

	defaultMaxPromptAttempts = 3
	defaultDaysToGoBack      = 14
)

const (
	choiceAccept  = "accept"
	choiceCorrect = "correct"
	choiceSkip    = "skip"
)

var (
	// ErrMaxAttempts terminates an interactive flow after the configured
	// number of rejected or unparseable answers.
	ErrMaxAttempts = errors.New("maximum prompt attempts exceeded")

	// ErrNoAssignments means interactive correction is impossible because the
	// cached project assignment set is empty.
	ErrNoAssignments = errors.New("no project assignments available")
)

type Options struct {
	MaxPromptAttempts int
	DaysToGoBack      int
	History           *storage.SQLiteStore
	Logger            zerolog.Logger
}

// Engine converts pending Jira issues into Harvest time entries, one at a
// time: deduplicate, resolve, fill gaps interactively, confirm, create.
type Engine struct {
	harvest      harvest.Client
	prompter     prompt.Prompter
	assignments  []harvest.ProjectAssignment
	history      *storage.SQLiteStore
	maxAttempts  int
	daysToGoBack int
	log          zerolog.Logger
}

// NewEngine fetches the project assignment snapshot once; it is read-only for
// the lifetime of the engine.
func NewEngine(ctx context.Context, client harvest.Client, prompter prompt.Prompter, opts Options) (*Engine, error) {
	assignments, err := client.ProjectAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch project assignments: %w", err)
	}

	maxAttempts := opts.MaxPromptAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxPromptAttempts
	}
	daysToGoBack := opts.DaysToGoBack
	if daysToGoBack <= 0 {
		daysToGoBack = defaultDaysToGoBack
	}

	return &Engine{
		harvest:      client,
		prompter:     prompter,
		assignments:  assignments,
		history:      opts.History,
		maxAttempts:  maxAttempts,
		daysToGoBack: daysToGoBack,
		log:          opts.Logger,
	}, nil
}

// Summary counts the per-issue outcomes of one run.
type Summary struct {
	Duplicates int
	Created    int
	Skipped    int
	Failed     int
}

// Run processes the issue feed in order. Failures are per issue: the engine
// reports them and moves on, so one bad issue never aborts the run.
func (e *Engine) Run(ctx context.Context, issues []jira.Issue) (*Summary, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -e.daysToGoBack)
	entries, err := e.harvest.TimeEntries(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch existing time entries: %w", err)
	}

	pending, duplicates := classify.PendingIssues(issues, harvest.ExistingEntryNotes(entries))
	summary := &Summary{Duplicates: duplicates}

	for _, issue := range pending {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome, err := e.processIssue(ctx, issue)
		switch outcome {
		case storage.OutcomeCreated:
			summary.Created++
		case storage.OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
		if err != nil {
			e.log.Warn().Str("issue", issue.Key).Err(err).Msg("issue not converted")
			e.prompter.Report(fmt.Sprintf(
				"Could not create entry for issue %s - %s\nFailure reason: %v",
				issue.Key, issue.Fields.Summary, err,
			))
			e.record(storage.Record{
				IssueKey: issue.Key,
				Summary:  issue.Fields.Summary,
				Outcome:  storage.OutcomeFailed,
				Reason:   err.Error(),
			})
		}
	}

	return summary, nil
}

func (e *Engine) processIssue(ctx context.Context, issue jira.Issue) (string, error) {
	e.prompter.Report(fmt.Sprintf("Processing Jira issue '%s - %s'", issue.Key, issue.Fields.Summary))

	draft, err := e.buildDraft(issue)
	if err != nil {
		return storage.OutcomeFailed, err
	}

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		choice, err := e.confirmDraft(draft)
		if err != nil {
			return storage.OutcomeFailed, err
		}

		switch choice {
		case choiceAccept:
			created, err := e.harvest.CreateTimeEntry(ctx, harvest.TimeEntryCreate{
				ProjectID: draft.ProjectID,
				TaskID:    draft.TaskID,
				Hours:     draft.Hours,
				SpentDate: draft.SpentDateString(),
				Notes:     draft.Notes,
			})
			if err != nil {
				return storage.OutcomeFailed, err
			}
			e.prompter.Report(fmt.Sprintf("Created entry in Harvest\n%s", FormatTimeEntry(created)))
			e.record(storage.RecordFromDraft(draft, storage.OutcomeCreated, ""))
			return storage.OutcomeCreated, nil

		case choiceSkip:
			e.prompter.Report(fmt.Sprintf("Skipped issue %s", issue.Key))
			e.record(storage.RecordFromDraft(draft, storage.OutcomeSkipped, "skipped by user"))
			return storage.OutcomeSkipped, nil

		case choiceCorrect:
			draft, err = e.correctedDraft(issue)
			if err != nil {
				return storage.OutcomeFailed, err
			}

		default:
			return storage.OutcomeFailed, fmt.Errorf("unexpected confirmation choice %q", choice)
		}
	}

	return storage.OutcomeFailed, ErrMaxAttempts
}

// buildDraft assembles the time-entry candidate: automatic resolution and
// calculation backed by interactive correction wherever data is missing.
func (e *Engine) buildDraft(issue jira.Issue) (worklog.Draft, error) {
	pair, ok := match.Resolve(issue, e.assignments)
	if !ok {
		var err error
		pair, err = e.assignmentCorrection()
		if err != nil {
			return worklog.Draft{}, err
		}
	}

	spentDate, ok, err := jira.WorkedOnDate(issue)
	if err != nil {
		return worklog.Draft{}, err
	}
	if !ok {
		spentDate, err = e.spentDateCorrection()
		if err != nil {
			return worklog.Draft{}, err
		}
	}

	var hours float64
	duration, ok, err := jira.WorkedDuration(issue)
	if err != nil {
		return worklog.Draft{}, err
	}
	if ok {
		hours = BillableHours(duration)
	} else {
		hours, err = e.hoursCorrection()
		if err != nil {
			return worklog.Draft{}, err
		}
		if hours < 1 {
			hours = 1
		}
	}

	return e.draftFor(issue, pair, spentDate, hours), nil
}

// correctedDraft re-solicits every value after the user rejected the
// confirmation summary.
func (e *Engine) correctedDraft(issue jira.Issue) (worklog.Draft, error) {
	pair, err := e.assignmentCorrection()
	if err != nil {
		return worklog.Draft{}, err
	}
	spentDate, err := e.spentDateCorrection()
	if err != nil {
		return worklog.Draft{}, err
	}
	hours, err := e.hoursCorrection()
	if err != nil {
		return worklog.Draft{}, err
	}
	return e.draftFor(issue, pair, spentDate, hours), nil
}

func (e *Engine) draftFor(issue jira.Issue, pair match.Pair, spentDate time.Time, hours float64) worklog.Draft {
	return worklog.Draft{
		IssueKey:  issue.Key,
		Summary:   issue.Fields.Summary,
		Client:    pair.Assignment.Client.Name,
		Project:   pair.Assignment.Project.Name,
		Task:      pair.Task.Task.Name,
		ProjectID: pair.Assignment.Project.ID,
		TaskID:    pair.Task.Task.ID,
		SpentDate: spentDate,
		Hours:     hours,
		Notes:     issue.Key,
	}
}

// assignmentCorrection walks the user through client, project, and task, each
// selection scoping the next.
func (e *Engine) assignmentCorrection() (match.Pair, error) {
	if len(e.assignments) == 0 {
		return match.Pair{}, ErrNoAssignments
	}

	clientID, err := e.selectClient()
	if err != nil {
		return match.Pair{}, err
	}
	projectID, err := e.selectProject(clientID)
	if err != nil {
		return match.Pair{}, err
	}
	return e.selectTask(projectID)
}

func (e *Engine) selectClient() (int64, error) {
	seen := make(map[int64]struct{})
	options := make([]prompt.Option, 0, len(e.assignments))
	for _, assignment := range e.assignments {
		if _, exists := seen[assignment.Client.ID]; exists {
			continue
		}
		seen[assignment.Client.ID] = struct{}{}
		options = append(options, prompt.Option{
			Label: assignment.Client.Name,
			Value: strconv.FormatInt(assignment.Client.ID, 10),
		})
	}
	sortOptions(options)

	value, err := e.prompter.SingleSelect("What Client is it?", options)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}

func (e *Engine) selectProject(clientID int64) (int64, error) {
	options := make([]prompt.Option, 0, len(e.assignments))
	for _, assignment := range e.assignments {
		if assignment.Client.ID != clientID {
			continue
		}
		options = append(options, prompt.Option{
			Label: assignment.Project.Name,
			Value: strconv.FormatInt(assignment.Project.ID, 10),
		})
	}
	sortOptions(options)

	value, err := e.prompter.SingleSelect("What Project is it?", options)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}

func (e *Engine) selectTask(projectID int64) (match.Pair, error) {
	var assignment harvest.ProjectAssignment
	found := false
	for _, candidate := range e.assignments {
		if candidate.Project.ID == projectID {
			assignment = candidate
			found = true
			break
		}
	}
	if !found {
		return match.Pair{}, fmt.Errorf("project %d not found in cached assignments", projectID)
	}

	tasks := match.SortTaskAssignments(assignment.TaskAssignments)
	options := make([]prompt.Option, 0, len(tasks))
	for _, task := range tasks {
		options = append(options, prompt.Option{
			Label: task.Task.Name,
			Value: strconv.FormatInt(task.Task.ID, 10),
		})
	}

	value, err := e.prompter.SingleSelect("What Task is it?", options)
	if err != nil {
		return match.Pair{}, err
	}
	taskID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return match.Pair{}, err
	}

	for _, task := range assignment.TaskAssignments {
		if task.Task.ID == taskID {
			return match.Pair{Assignment: assignment, Task: task}, nil
		}
	}
	return match.Pair{}, fmt.Errorf("task %d not found on project %s", taskID, assignment.Project.Name)
}

// spentDateCorrection asks for a dd/MM/yyyy date, re-prompting on parse
// failures up to the attempt budget.
func (e *Engine) spentDateCorrection() (time.Time, error) {
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		value, err := e.prompter.FreeText("What day should this be logged? [dd/MM/yyyy]")
		if err != nil {
			return time.Time{}, err
		}
		spentDate, err := time.ParseInLocation(spentDateInputLayout, strings.TrimSpace(value), time.Local)
		if err == nil {
			return spentDate, nil
		}
		e.prompter.Report(fmt.Sprintf("Invalid date %q, expected dd/MM/yyyy", value))
	}
	return time.Time{}, fmt.Errorf("read spent date: %w", ErrMaxAttempts)
}

// hoursCorrection asks for numeric hours with the same bounded retry as the
// date prompt.
func (e *Engine) hoursCorrection() (float64, error) {
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		value, err := e.prompter.FreeText("How many hours did you work on this issue?")
		if err != nil {
			return 0, err
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err == nil {
			return hours, nil
		}
		e.prompter.Report(fmt.Sprintf("Invalid hours %q, expected a number", value))
	}
	return 0, fmt.Errorf("read hours: %w", ErrMaxAttempts)
}

func (e *Engine) confirmDraft(draft worklog.Draft) (string, error) {
	e.prompter.Report(fmt.Sprintf(
		"This Jira issue '%s - %s' will be converted to a Harvest time entry.\n"+
			"Client: %s\nProject: %s\nTask: %s\nSpent Date: %s\nHours: %g\nNotes: %s",
		draft.IssueKey,
		draft.Summary,
		draft.Client,
		draft.Project,
		draft.Task,
		draft.SpentDateString(),
		draft.Hours,
		draft.Notes,
	))

	return e.prompter.Confirm("Is this correct?", []prompt.Option{
		{Label: "Yes, send to Harvest", Value: choiceAccept},
		{Label: "No, I will correct", Value: choiceCorrect},
		{Label: "No, skip this issue", Value: choiceSkip},
	})
}

func (e *Engine) record(record storage.Record) {
	if e.history == nil {
		return
	}
	if _, err := e.history.InsertRecord(record); err != nil {
		e.log.Warn().Str("issue", record.IssueKey).Err(err).Msg("could not record sync outcome")
	}
}

func sortOptions(options []prompt.Option) {
	sort.Slice(options, func(i, j int) bool {
		return options[i].Label < options[j].Label
	})
}

// BillableHours converts a worked duration to billable hours: whole hours,
// never less than one.
func BillableHours(duration time.Duration) float64 {
	hours := float64(duration / time.Hour)
	if hours < 1 {
		return 1
	}
	return hours
}

// BuildAutoDraft is the non-interactive resolution used by dry runs: every
// gap that the sync would fill with a prompt is an error here.
func BuildAutoDraft(issue jira.Issue, assignments []harvest.ProjectAssignment) (worklog.Draft, error) {
	pair, ok := match.Resolve(issue, assignments)
	if !ok {
		return worklog.Draft{}, fmt.Errorf("no project/task found for issue %s", issue.Key)
	}

	spentDate, ok, err := jira.WorkedOnDate(issue)
	if err != nil {
		return worklog.Draft{}, err
	}
	if !ok {
		return worklog.Draft{}, fmt.Errorf("no worked-on date found for issue %s", issue.Key)
	}

	duration, ok, err := jira.WorkedDuration(issue)
	if err != nil {
		return worklog.Draft{}, err
	}
	if !ok {
		return worklog.Draft{}, fmt.Errorf("no worked time found for issue %s", issue.Key)
	}

	return worklog.Draft{
		IssueKey:  issue.Key,
		Summary:   issue.Fields.Summary,
		Client:    pair.Assignment.Client.Name,
		Project:   pair.Assignment.Project.Name,
		Task:      pair.Task.Task.Name,
		ProjectID: pair.Assignment.Project.ID,
		TaskID:    pair.Task.Task.ID,
		SpentDate: spentDate,
		Hours:     BillableHours(duration),
		Notes:     issue.Key,
	}, nil
}

// FormatTimeEntry renders a created Harvest entry for terminal output.
func FormatTimeEntry(entry harvest.TimeEntry) string {
	return fmt.Sprintf(
		"Project: %s\nTask: %s\nNotes: %s\nHours: %g\nSpent Date: %s",
		entry.Project.Name,
		entry.Task.Name,
		entry.Notes,
		entry.Hours,
		entry.SpentDate,
	)
}
