package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mizannoor/taskflow/internal/config"
	"github.com/mizannoor/taskflow/internal/deps"
	"github.com/mizannoor/taskflow/internal/tasks"
	"github.com/mizannoor/taskflow/internal/types"
	"github.com/mizannoor/taskflow/internal/ui"
)

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List tasks with no unmet blockers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withServices(ctx, func(_ *tasks.Service, depSvc *deps.Service) error {
			ready, err := depSvc.ReadyTasks(ctx)
			if err != nil {
				return err
			}
			if flagJSON {
				if ready == nil {
					ready = []*types.Task{}
				}
				return printJSON(ready)
			}
			if len(ready) == 0 {
				fmt.Println(ui.RenderDim("no ready tasks"))
				return nil
			}
			showMarker := config.GetBool("list.show-blocked-marker")
			for _, task := range ready {
				fmt.Println(ui.TaskLine(task, false, showMarker))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(readyCmd)
}
