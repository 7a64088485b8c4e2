package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mizannoor/taskflow/internal/config"
	"github.com/mizannoor/taskflow/internal/deps"
	"github.com/mizannoor/taskflow/internal/tasks"
	"github.com/mizannoor/taskflow/internal/types"
	"github.com/mizannoor/taskflow/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		statusFilter, _ := cmd.Flags().GetString("status")
		blockedOnly, _ := cmd.Flags().GetBool("blocked")

		if watch && flagJSON {
			FatalError("--watch and --json cannot be combined")
		}

		render := func() error {
			return withServices(context.Background(), func(taskSvc *tasks.Service, depSvc *deps.Service) error {
				return renderList(context.Background(), taskSvc, depSvc, statusFilter, blockedOnly)
			})
		}

		if !watch {
			return render()
		}
		return watchAndRender(render)
	},
}

func renderList(ctx context.Context, taskSvc *tasks.Service, depSvc *deps.Service, statusFilter string, blockedOnly bool) error {
	taskList, err := taskSvc.List(ctx)
	if err != nil {
		return err
	}

	type row struct {
		*types.Task
		IsBlocked bool `json:"is_blocked"`
	}
	var rows []row
	for _, task := range taskList {
		if statusFilter != "" && string(task.Status) != statusFilter {
			continue
		}
		info, err := depSvc.GetDependencyInfo(ctx, task.ID)
		if err != nil {
			return err
		}
		if blockedOnly && !info.IsBlocked {
			continue
		}
		rows = append(rows, row{Task: task, IsBlocked: info.IsBlocked})
	}

	if flagJSON {
		if rows == nil {
			rows = []row{}
		}
		return printJSON(rows)
	}

	if len(rows) == 0 {
		fmt.Println(ui.RenderDim("no tasks"))
		return nil
	}
	showMarker := config.GetBool("list.show-blocked-marker")
	for _, r := range rows {
		fmt.Println(ui.TaskLine(r.Task, r.IsBlocked, showMarker))
	}
	return nil
}

// watchAndRender re-runs render whenever the database file changes.
// Blocks until interrupted.
func watchAndRender(render func() error) error {
	dbPath := flagDB
	if dbPath == "" {
		var err error
		dbPath, err = config.DBPath()
		if err != nil {
			return err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dbPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dbPath, err)
	}

	if err := render(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Println()
			if err := render(); err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderWarn("refresh failed:"), err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderWarn("watch error:"), err)
		}
	}
}

func init() {
	listCmd.Flags().Bool("watch", false, "re-render when the database changes")
	listCmd.Flags().String("status", "", "filter by status (pending|in_progress|completed)")
	listCmd.Flags().Bool("blocked", false, "show only blocked tasks")
	rootCmd.AddCommand(listCmd)
}
