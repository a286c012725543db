package cmd

import (
	"github.com/rs/zerolog"

	"jiraharvest/config"
	"jiraharvest/harvest"
	"jiraharvest/jira"
)

const cliUserAgent = "jiraharvest/1.0"

func newJiraClient(cfg *config.Config, log zerolog.Logger) (jira.Client, error) {
	return jira.NewClient(jira.ClientConfig{
		BaseURL:   cfg.Jira.URL,
		Username:  cfg.Jira.Username,
		Token:     cfg.Jira.Token,
		UserAgent: cliUserAgent,
		Logger:    log,
	})
}

func newHarvestClient(cfg *config.Config, log zerolog.Logger) (harvest.Client, error) {
	return harvest.NewClient(harvest.ClientConfig{
		BaseURL:   cfg.Harvest.URL,
		Token:     cfg.Harvest.Token,
		AccountID: cfg.Harvest.AccountID,
		UserAgent: cliUserAgent,
		Logger:    log,
	})
}
