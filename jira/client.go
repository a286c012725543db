package jira

import (
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

const (
	// billableIssuesJQL selects issues that can become Harvest time entries:
	// labelled for Harvest, recently updated, and in a done status category.
	billableIssuesJQL = "labels in (HARVEST-Billable, HARVEST-NON-Billable) AND updated > -%dd AND statusCategory in (4, 3) ORDER BY updated DESC"
)

// Client defines the Jira API operations used by the sync commands.
type Client interface {
	CurrentUser(ctx context.Context) (User, error)
	SearchIssues(ctx context.Context, jql string) ([]Issue, error)
	BillableIssues(ctx context.Context, daysToGoBack int) ([]Issue, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	Username   string
	Token      string
	UserAgent  string
	HTTPClient httpDoer
	Logger     zerolog.Logger
}

type HTTPClient struct {
	baseURL    string
	username   string
	token      string
	userAgent  string
	httpClient httpDoer
	log        zerolog.Logger
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("jira base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid jira base URL %q", cfg.BaseURL)
	}

	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("jira API token is required")
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		username:   strings.TrimSpace(cfg.Username),
		token:      strings.TrimSpace(cfg.Token),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
		log:        cfg.Logger,
	}, nil
}

// User is the authenticated Jira account, also referenced by changelog items.
type User struct {
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
	TimeZone     string `json:"timeZone"`
}

// HistoryItem is a single field change inside a changelog history record.
type HistoryItem struct {
	Field      string `json:"field"`
	FieldType  string `json:"fieldtype"`
	FieldID    string `json:"fieldId"`
	From       string `json:"from"`
	FromString string `json:"fromString"`
	To         string `json:"to"`
	ToValue    string `json:"toString"`
}

// History is one changelog record: a creation timestamp plus the field
// changes applied at that moment.
type History struct {
	Created string        `json:"created"`
	Items   []HistoryItem `json:"items"`
}

type Changelog struct {
	Histories []History `json:"histories"`
}

type IssueFields struct {
	Summary  string   `json:"summary"`
	Labels   []string `json:"labels"`
	Assignee *User    `json:"assignee"`
}

// Issue is the slice of a Jira issue the reconciliation core reads.
type Issue struct {
	Key       string      `json:"key"`
	Fields    IssueFields `json:"fields"`
	Changelog Changelog   `json:"changelog"`
}

type searchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (User, error) {
	var user User
	if err := c.getJSON(ctx, "/rest/api/2/myself", &user); err != nil {
		return User{}, fmt.Errorf("get current jira user: %w", err)
	}
	if user.AccountID == "" {
		return User{}, errors.New("jira returned a user without an account id")
	}
	return user, nil
}

func (c *HTTPClient) SearchIssues(ctx context.Context, jql string) ([]Issue, error) {
	query := url.Values{}
	query.Set("expand", "changelog")
	query.Set("jql", jql)

	var page searchResponse
	if err := c.getJSON(ctx, "/rest/api/2/search?"+query.Encode(), &page); err != nil {
		return nil, fmt.Errorf("search jira issues: %w", err)
	}
	return page.Issues, nil
}

// BillableIssues fetches Harvest-labelled issues updated in the last
// daysToGoBack days and keeps only those the current user worked on recently.
// Issues whose changelog timestamps cannot be parsed are excluded and logged.
func (c *HTTPClient) BillableIssues(ctx context.Context, daysToGoBack int) ([]Issue, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	issues, err := c.SearchIssues(ctx, fmt.Sprintf(billableIssuesJQL, daysToGoBack))
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -daysToGoBack)
	matched := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if !IsAssigneeMatch(user, issue) {
			continue
		}
		workedOn, ok, err := WorkedOnDate(issue)
		if err != nil {
			c.log.Warn().Str("issue", issue.Key).Err(err).Msg("skipping issue with malformed changelog")
			continue
		}
		if !ok || workedOn.Before(cutoff) {
			continue
		}
		matched = append(matched, issue)
	}

	c.log.Debug().Int("fetched", len(issues)).Int("matched", len(matched)).Msg("jira issues filtered")
	return matched, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.token)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("jira authentication failed (401): check username and token for %s", c.baseURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected jira status %d on %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode jira response from %s: %w", path, err)
	}
	return nil
}
