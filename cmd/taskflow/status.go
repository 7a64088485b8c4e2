package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mizannoor/taskflow/internal/deps"
	"github.com/mizannoor/taskflow/internal/tasks"
	"github.com/mizannoor/taskflow/internal/types"
	"github.com/mizannoor/taskflow/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status <task-id> <pending|in_progress|completed>",
	Short: "Update a task's status",
	Long: "Update a task's status. Reopening a completed task (moving it back to\n" +
		"pending or in_progress) automatically re-blocks any tasks that depend\n" +
		"on it; blocked status is derived at read time, never stored.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		status := types.Status(args[1])
		if !status.IsValid() {
			FatalError("invalid status %q (expected pending, in_progress, or completed)", args[1])
		}

		return withServices(ctx, func(taskSvc *tasks.Service, depSvc *deps.Service) error {
			if err := taskSvc.SetStatus(ctx, args[0], status, actor()); err != nil {
				return err
			}
			fmt.Printf("%s %s → %s\n", ui.RenderOK("✓"), ui.RenderID(args[0]), ui.RenderStatus(status))

			// Completing a blocker may unblock dependents; say so.
			if status == types.StatusCompleted {
				info, err := depSvc.GetDependencyInfo(ctx, args[0])
				if err != nil {
					return err
				}
				for _, dependent := range info.Blocks {
					depInfo, err := depSvc.GetDependencyInfo(ctx, dependent.ID)
					if err != nil {
						return err
					}
					if !depInfo.IsBlocked {
						fmt.Printf("  %s is now unblocked\n", ui.RenderID(dependent.ID))
					}
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
