package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mizannoor/taskflow/internal/deps"
	"github.com/mizannoor/taskflow/internal/tasks"
	"github.com/mizannoor/taskflow/internal/ui"
)

var createCmd = &cobra.Command{
	Use:     "create <title>",
	Aliases: []string{"new", "add"},
	Short:   "Create a new task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")

		return withServices(context.Background(), func(taskSvc *tasks.Service, _ *deps.Service) error {
			task, err := taskSvc.Create(context.Background(), args[0], description, actor())
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(task)
			}
			fmt.Printf("%s created %s: %s\n", ui.RenderOK("✓"), ui.RenderID(task.ID), task.Title)
			return nil
		})
	},
}

func init() {
	createCmd.Flags().StringP("description", "d", "", "task description")
	rootCmd.AddCommand(createCmd)
}
