package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jiraharvest/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jiraharvest",
	Short: "Convert tracked Jira issues into Harvest time entries.",
	Long: `
**********************************************
*              JIRA  ->  HARVEST             *
**********************************************

This CLI reads recently completed Jira issues labelled for Harvest,
derives the worked-on date and duration from each issue's status
changelog, matches the issue to one of your Harvest project/task
assignments, and creates the corresponding time entries. Issues that
already have a Harvest entry (matched by notes) are never created twice.
`,
	Example: `
  # Create configuration file
  jiraharvest config create

  # Interactive sync: confirm or correct each proposed entry
  jiraharvest sync

  # Preview what would be created, without prompts or writes
  jiraharvest dry-run

  # List the Jira issues that qualify for syncing
  jiraharvest issues

  # List your Harvest project and task assignments
  jiraharvest projects

  # Show Harvest time entries for the lookback window
  jiraharvest entries

  # Export proposed entries to CSV or Excel
  jiraharvest export --output ./entries.csv

  # Show the local sync history
  jiraharvest history
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.jiraharvest.yaml, then ./.jiraharvest.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "sync", "dry-run", "issues", "projects", "entries", "export":
		return true
	}
	return false
}

// newLogger builds the CLI logger. Prompts own stdout, so logs go to stderr.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".jiraharvest" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".jiraharvest")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: jiraharvest config create")
	}
}
