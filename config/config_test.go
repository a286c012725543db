package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_AcceptsCompleteConfig(t *testing.T) {
	t.Parallel()

	content := []byte(`jira:
  url: "https://acme.atlassian.net"
  username: "dev@acme.com"
  token: "jira-token"
harvest:
  token: "harvest-token"
  account_id: "123456"
sync:
  days_to_go_back: 7
`)

	cfg, err := ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}

	if cfg.Harvest.URL != "https://api.harvestapp.com" {
		t.Fatalf("expected default harvest url, got %q", cfg.Harvest.URL)
	}
	if cfg.Sync.DaysToGoBack != 7 {
		t.Fatalf("expected 7 days to go back, got %d", cfg.Sync.DaysToGoBack)
	}
	if cfg.Sync.MaxPromptAttempts != 3 {
		t.Fatalf("expected default max prompt attempts, got %d", cfg.Sync.MaxPromptAttempts)
	}
	if cfg.Sync.DB != ".jiraharvest.db" {
		t.Fatalf("expected default sync db, got %q", cfg.Sync.DB)
	}
}

func TestValidateYAMLContent_RejectsMissingJiraToken(t *testing.T) {
	t.Parallel()

	content := []byte(`jira:
  url: "https://acme.atlassian.net"
  username: "dev@acme.com"
harvest:
  token: "harvest-token"
  account_id: "123456"
`)

	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for missing jira token")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_RejectsInvalidUsername(t *testing.T) {
	t.Parallel()

	content := []byte(`jira:
  url: "https://acme.atlassian.net"
  username: "not-an-email"
  token: "jira-token"
harvest:
  token: "harvest-token"
  account_id: "123456"
`)

	if _, err := ValidateYAMLContent(content); err == nil {
		t.Fatalf("expected validation error for invalid username")
	}
}

func TestValidateYAMLContent_RejectsOutOfRangeLookback(t *testing.T) {
	t.Parallel()

	content := []byte(`jira:
  url: "https://acme.atlassian.net"
  username: "dev@acme.com"
  token: "jira-token"
harvest:
  token: "harvest-token"
  account_id: "123456"
sync:
  days_to_go_back: 365
`)

	if _, err := ValidateYAMLContent(content); err == nil {
		t.Fatalf("expected validation error for out-of-range lookback")
	}
}

func TestExampleYAML_Validates(t *testing.T) {
	t.Parallel()

	if _, err := ValidateYAMLContent([]byte(ExampleYAML())); err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
}
