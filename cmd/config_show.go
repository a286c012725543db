package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jiraharvest/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Secrets are
masked.`,
	Example: `
  # Show active configuration
  jiraharvest config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
			fmt.Println("Configuration:")
			fmt.Printf("jira.url: %s\n", cfg.Jira.URL)
			fmt.Printf("jira.username: %s\n", cfg.Jira.Username)
			fmt.Printf("jira.token: %s\n", maskSecret(cfg.Jira.Token))
			fmt.Printf("harvest.url: %s\n", cfg.Harvest.URL)
			fmt.Printf("harvest.token: %s\n", maskSecret(cfg.Harvest.Token))
			fmt.Printf("harvest.account_id: %s\n", cfg.Harvest.AccountID)
			fmt.Printf("sync.days_to_go_back: %d\n", cfg.Sync.DaysToGoBack)
			fmt.Printf("sync.max_prompt_attempts: %d\n", cfg.Sync.MaxPromptAttempts)
			fmt.Printf("sync.db: %s\n", cfg.Sync.DB)
		}
	},
}

func maskSecret(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return value[:2] + "****" + value[len(value)-2:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
