package config

import (
	"bytes"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyJiraURL      = "jira.url"
	KeyJiraUsername = "jira.username"
	KeyJiraToken    = "jira.token"

	KeyHarvestURL       = "harvest.url"
	KeyHarvestToken     = "harvest.token"
	KeyHarvestAccountID = "harvest.account_id"

	KeySyncDaysToGoBack      = "sync.days_to_go_back"
	KeySyncMaxPromptAttempts = "sync.max_prompt_attempts"
	KeySyncDB                = "sync.db"
)

const (
	defaultHarvestURL        = "https://api.harvestapp.com"
	defaultDaysToGoBack      = 14
	defaultMaxPromptAttempts = 3
	defaultSyncDB            = ".jiraharvest.db"
)

type Config struct {
	Jira    JiraConfig    `mapstructure:"jira" validate:"required"`
	Harvest HarvestConfig `mapstructure:"harvest" validate:"required"`
	Sync    SyncConfig    `mapstructure:"sync"`
}

type JiraConfig struct {
	URL      string `mapstructure:"url" validate:"required,url"`
	Username string `mapstructure:"username" validate:"required,email"`
	Token    string `mapstructure:"token" validate:"required"`
}

type HarvestConfig struct {
	URL       string `mapstructure:"url" validate:"required,url"`
	Token     string `mapstructure:"token" validate:"required"`
	AccountID string `mapstructure:"account_id" validate:"required"`
}

type SyncConfig struct {
	DaysToGoBack      int    `mapstructure:"days_to_go_back" validate:"gte=1,lte=90"`
	MaxPromptAttempts int    `mapstructure:"max_prompt_attempts" validate:"gte=1,lte=10"`
	DB                string `mapstructure:"db"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# jiraharvest configuration
jira:
  url: "https://your-company.atlassian.net"
  username: "you@example.com"
  token: "your-jira-api-token"

harvest:
  url: "https://api.harvestapp.com"
  token: "your-harvest-personal-access-token"
  account_id: "123456"

sync:
  days_to_go_back: 14
  max_prompt_attempts: 3
  db: ".jiraharvest.db"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyHarvestURL, defaultHarvestURL)
	v.SetDefault(KeySyncDaysToGoBack, defaultDaysToGoBack)
	v.SetDefault(KeySyncMaxPromptAttempts, defaultMaxPromptAttempts)
	v.SetDefault(KeySyncDB, defaultSyncDB)
}
