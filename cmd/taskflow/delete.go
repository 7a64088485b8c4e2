package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mizannoor/taskflow/internal/deps"
	"github.com/mizannoor/taskflow/internal/tasks"
	"github.com/mizannoor/taskflow/internal/ui"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <task-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task and every dependency edge touching it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withServices(ctx, func(taskSvc *tasks.Service, _ *deps.Service) error {
			// The dependency cascade runs as a registered delete hook,
			// so edges are gone before the task row is.
			if err := taskSvc.Delete(ctx, args[0], actor()); err != nil {
				return err
			}
			fmt.Printf("%s deleted %s\n", ui.RenderOK("✓"), ui.RenderID(args[0]))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
