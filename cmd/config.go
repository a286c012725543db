package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage jiraharvest configuration file values.",
	Long: `Create, edit, display, and delete the jiraharvest configuration file.

The configuration stores the Jira and Harvest connection values and sync
behaviour:
- jira.url / jira.username / jira.token
- harvest.url / harvest.token / harvest.account_id
- sync.days_to_go_back / sync.max_prompt_attempts / sync.db`,
	Example: `
  # Create default config in $HOME/.jiraharvest.yaml
  jiraharvest config create

  # Show active config and source file
  jiraharvest config show

  # Open active config in editor (creates example if missing)
  jiraharvest config edit

  # Delete active config file
  jiraharvest config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
