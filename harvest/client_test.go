package harvest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeDoer struct {
	fn func(r *http.Request) (*http.Response, error)
}

func (f fakeDoer) Do(r *http.Request) (*http.Response, error) {
	return f.fn(r)
}

func jsonResponse(payload any) *http.Response {
	body, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(string(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(t *testing.T, doer httpDoer) *HTTPClient {
	t.Helper()
	client, err := NewClient(ClientConfig{
		BaseURL:    "https://api.harvestapp.com",
		Token:      "secret",
		AccountID:  "12345",
		HTTPClient: doer,
		Logger:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClient_RequiresTokenAndAccountID(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(ClientConfig{BaseURL: "https://api.harvestapp.com", AccountID: "1"}); err == nil {
		t.Fatalf("expected error for missing token")
	}
	if _, err := NewClient(ClientConfig{BaseURL: "https://api.harvestapp.com", Token: "x"}); err == nil {
		t.Fatalf("expected error for missing account id")
	}
}

func TestProjectAssignments_HeadersAndDecoding(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/api/v2/users/me/project_assignments" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected Authorization: %q", got)
		}
		if got := r.Header.Get("Harvest-Account-ID"); got != "12345" {
			t.Fatalf("unexpected Harvest-Account-ID: %q", got)
		}
		return jsonResponse(projectAssignmentsResponse{ProjectAssignments: []ProjectAssignment{
			{
				Project: Project{ID: 10, Name: "Website"},
				Client:  Clientele{ID: 1, Name: "Acme"},
				TaskAssignments: []TaskAssignment{
					{Task: Task{ID: 100, Name: "Billable Dev"}, Billable: true},
				},
			},
		}}), nil
	}}

	assignments, err := newTestClient(t, doer).ProjectAssignments(context.Background())
	if err != nil {
		t.Fatalf("project assignments: %v", err)
	}
	if len(assignments) != 1 || assignments[0].Client.Name != "Acme" {
		t.Fatalf("unexpected assignments: %+v", assignments)
	}
	if len(assignments[0].TaskAssignments) != 1 || !assignments[0].TaskAssignments[0].Billable {
		t.Fatalf("unexpected task assignments: %+v", assignments[0].TaskAssignments)
	}
}

func TestTimeEntries_DateWindowQuery(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/api/v2/time_entries" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("from"); got != "2024-03-01" {
			t.Fatalf("unexpected from: %q", got)
		}
		if got := r.URL.Query().Get("to"); got != "2024-03-15" {
			t.Fatalf("unexpected to: %q", got)
		}
		return jsonResponse(timeEntriesResponse{TimeEntries: []TimeEntry{
			{ID: 7, Notes: "AB-1", Hours: 2},
		}}), nil
	}}

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	entries, err := newTestClient(t, doer).TimeEntries(context.Background(), from, to)
	if err != nil {
		t.Fatalf("time entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Notes != "AB-1" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestCreateTimeEntry_PostsPayload(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v2/time_entries" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var payload TimeEntryCreate
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.ProjectID != 10 || payload.TaskID != 100 || payload.Hours != 1 {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		if payload.SpentDate != "2024-03-01" || payload.Notes != "AB-1" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		return jsonResponse(TimeEntry{ID: 99, Notes: "AB-1"}), nil
	}}

	created, err := newTestClient(t, doer).CreateTimeEntry(context.Background(), TimeEntryCreate{
		ProjectID: 10,
		TaskID:    100,
		Hours:     1,
		SpentDate: "2024-03-01",
		Notes:     "AB-1",
	})
	if err != nil {
		t.Fatalf("create time entry: %v", err)
	}
	if created.ID != 99 {
		t.Fatalf("unexpected created entry: %+v", created)
	}
}

func TestExistingEntryNotes_SkipsEmptyNotes(t *testing.T) {
	t.Parallel()

	notes := ExistingEntryNotes([]TimeEntry{
		{Notes: "AB-1"},
		{Notes: ""},
		{Notes: "AB-2"},
		{Notes: "AB-1"},
	})

	if len(notes) != 2 {
		t.Fatalf("expected 2 distinct notes, got %d", len(notes))
	}
	if _, ok := notes["AB-1"]; !ok {
		t.Fatalf("expected AB-1 in notes set")
	}
	if _, ok := notes[""]; ok {
		t.Fatalf("empty notes must not be collected")
	}
}
