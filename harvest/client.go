package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const dayLayout = "2006-01-02"

// Client defines the Harvest v2 API operations used by the sync commands.
type Client interface {
	ProjectAssignments(ctx context.Context) ([]ProjectAssignment, error)
	TimeEntries(ctx context.Context, from, to time.Time) ([]TimeEntry, error)
	CreateTimeEntry(ctx context.Context, entry TimeEntryCreate) (TimeEntry, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	Token      string
	AccountID  string
	UserAgent  string
	HTTPClient httpDoer
	Logger     zerolog.Logger
}

type HTTPClient struct {
	baseURL    string
	token      string
	accountID  string
	userAgent  string
	httpClient httpDoer
	log        zerolog.Logger
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("harvest base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid harvest base URL %q", cfg.BaseURL)
	}

	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("harvest access token is required")
	}
	if strings.TrimSpace(cfg.AccountID) == "" {
		return nil, errors.New("harvest account id is required")
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		accountID:  strings.TrimSpace(cfg.AccountID),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
		log:        cfg.Logger,
	}, nil
}

type Clientele struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Task struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TaskAssignment couples a task with its billable flag inside a project
// assignment.
type TaskAssignment struct {
	Task     Task `json:"task"`
	Billable bool `json:"billable"`
}

// ProjectAssignment is one project the current user can log time against,
// with its client and the tasks available on it.
type ProjectAssignment struct {
	Project         Project          `json:"project"`
	Client          Clientele        `json:"client"`
	TaskAssignments []TaskAssignment `json:"task_assignments"`
}

// TimeEntry is an existing Harvest time entry. Notes carries the source
// issue key and is the idempotency key of the sync.
type TimeEntry struct {
	ID        int64     `json:"id"`
	Hours     float64   `json:"hours"`
	SpentDate string    `json:"spent_date"`
	Notes     string    `json:"notes"`
	Project   Project   `json:"project"`
	Client    Clientele `json:"client"`
	Task      Task      `json:"task"`
	CreatedAt time.Time `json:"created_at"`
}

// TimeEntryCreate is the creation payload for POST /api/v2/time_entries.
type TimeEntryCreate struct {
	ProjectID int64   `json:"project_id"`
	TaskID    int64   `json:"task_id"`
	Hours     float64 `json:"hours"`
	SpentDate string  `json:"spent_date"`
	Notes     string  `json:"notes"`
}

type projectAssignmentsResponse struct {
	ProjectAssignments []ProjectAssignment `json:"project_assignments"`
}

type timeEntriesResponse struct {
	TimeEntries []TimeEntry `json:"time_entries"`
}

func (c *HTTPClient) ProjectAssignments(ctx context.Context) ([]ProjectAssignment, error) {
	var page projectAssignmentsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v2/users/me/project_assignments", nil, &page); err != nil {
		return nil, fmt.Errorf("list harvest project assignments: %w", err)
	}
	return page.ProjectAssignments, nil
}

func (c *HTTPClient) TimeEntries(ctx context.Context, from, to time.Time) ([]TimeEntry, error) {
	query := url.Values{}
	query.Set("from", from.Format(dayLayout))
	query.Set("to", to.Format(dayLayout))

	var page timeEntriesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v2/time_entries?"+query.Encode(), nil, &page); err != nil {
		return nil, fmt.Errorf("list harvest time entries: %w", err)
	}
	return page.TimeEntries, nil
}

func (c *HTTPClient) CreateTimeEntry(ctx context.Context, entry TimeEntryCreate) (TimeEntry, error) {
	var created TimeEntry
	if err := c.doJSON(ctx, http.MethodPost, "/api/v2/time_entries", entry, &created); err != nil {
		return TimeEntry{}, fmt.Errorf("create harvest time entry: %w", err)
	}
	c.log.Debug().Int64("project", entry.ProjectID).Int64("task", entry.TaskID).
		Str("notes", entry.Notes).Msg("harvest time entry created")
	return created, nil
}

// ExistingEntryNotes collects the non-empty notes of the time entries in the
// window, the set the sync deduplicates against.
func ExistingEntryNotes(entries []TimeEntry) map[string]struct{} {
	notes := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Notes == "" {
			continue
		}
		notes[entry.Notes] = struct{}{}
	}
	return notes
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Harvest-Account-ID", c.accountID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("harvest authentication failed (%d): check token and account id for %s", resp.StatusCode, c.baseURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected harvest status %d on %s %s: %s", resp.StatusCode, method, path, strings.TrimSpace(string(respBody)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode harvest response from %s: %w", path, err)
	}
	return nil
}
