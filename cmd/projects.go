package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jiraharvest/config"
	"jiraharvest/internal/match"
)

var projectsTimeout time.Duration

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List your Harvest project and task assignments",
	Long: `List every Harvest project assignment of the authenticated user, grouped by
client, with the tasks in the order the sync prefers them.`,
	Example: `
  # List project assignments
  jiraharvest projects
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		client, err := newHarvestClient(cfg, newLogger())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), projectsTimeout)
		defer cancel()

		assignments, err := client.ProjectAssignments(ctx)
		if err != nil {
			return err
		}
		if len(assignments) == 0 {
			fmt.Println("No Harvest project assignments found.")
			return nil
		}

		for _, assignment := range assignments {
			fmt.Printf("%s / %s (project %d)\n", assignment.Client.Name, assignment.Project.Name, assignment.Project.ID)
			for _, task := range match.SortTaskAssignments(assignment.TaskAssignments) {
				billable := "non-billable"
				if task.Billable {
					billable = "billable"
				}
				fmt.Printf("  %s (task %d, %s)\n", task.Task.Name, task.Task.ID, billable)
			}
		}
		fmt.Printf("Project assignments: %d\n", len(assignments))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)

	projectsCmd.Flags().DurationVar(&projectsTimeout, "timeout", 60*time.Second, "Timeout for the Harvest fetch")
}
