package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mizannoor/taskflow/internal/deps"
	"github.com/mizannoor/taskflow/internal/tasks"
	"github.com/mizannoor/taskflow/internal/types"
	"github.com/mizannoor/taskflow/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show a task with its dependency info",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withServices(ctx, func(taskSvc *tasks.Service, depSvc *deps.Service) error {
			task, err := taskSvc.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if task == nil {
				FatalError("task %s not found", args[0])
			}

			info, err := depSvc.GetDependencyInfo(ctx, task.ID)
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(struct {
					*types.Task
					Dependencies *types.BlockingStatus `json:"dependencies"`
				}{task, info})
			}

			fmt.Printf("%s  %s\n", ui.RenderID(task.ID), task.Title)
			fmt.Printf("  status:  %s", ui.RenderStatus(task.Status))
			if info.IsBlocked {
				fmt.Printf(" %s", ui.RenderBlockedMarker())
			}
			fmt.Println()
			if task.Description != "" {
				fmt.Printf("  description: %s\n", task.Description)
			}
			fmt.Printf("  created: %s by %s\n", task.CreatedAt.Format(time.RFC3339), task.CreatedBy)
			if len(info.BlockedBy) > 0 {
				fmt.Println("  blocked by:")
				for _, blocker := range info.BlockedBy {
					fmt.Printf("    %s %s (%s)\n", ui.RenderID(blocker.ID), blocker.Title, ui.RenderStatus(blocker.Status))
				}
			}
			if len(info.Blocks) > 0 {
				fmt.Println("  blocks:")
				for _, dependent := range info.Blocks {
					fmt.Printf("    %s %s (%s)\n", ui.RenderID(dependent.ID), dependent.Title, ui.RenderStatus(dependent.Status))
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
