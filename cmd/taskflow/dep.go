package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mizannoor/taskflow/internal/deps"
	"github.com/mizannoor/taskflow/internal/graph"
	"github.com/mizannoor/taskflow/internal/tasks"
	"github.com/mizannoor/taskflow/internal/types"
	"github.com/mizannoor/taskflow/internal/ui"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage dependencies between tasks",
}

var depAddCmd = &cobra.Command{
	Use:   "add <dependent-id> <blocker-id>",
	Short: "Make one task depend on another (dependent waits for blocker)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withServices(ctx, func(_ *tasks.Service, depSvc *deps.Service) error {
			dep, err := depSvc.AddDependency(ctx, args[0], args[1], actor())
			if err != nil {
				var verr *deps.ValidationError
				if errors.As(err, &verr) {
					renderRejection(verr)
					return nil
				}
				return err
			}
			if flagJSON {
				return printJSON(dep)
			}
			fmt.Printf("%s %s now depends on %s (edge %s)\n",
				ui.RenderOK("✓"), ui.RenderID(dep.DependentID), ui.RenderID(dep.BlockerID), ui.RenderDim(dep.ID))
			return nil
		})
	},
}

// renderRejection prints a distinct message per rejection code and
// exits non-zero. The circular case shows the offending path; without
// it "why can't I add this?" is inscrutable.
func renderRejection(verr *deps.ValidationError) {
	if verr.Code == deps.CodeCircularDependency {
		FatalError("%s\n  cycle: %s", verr.Error(), ui.RenderCyclePath(verr.CyclePath))
	}
	FatalError("%s", verr.Error())
}

var depRemoveCmd = &cobra.Command{
	Use:     "remove <edge-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a dependency edge by ID",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withServices(ctx, func(_ *tasks.Service, depSvc *deps.Service) error {
			// Idempotent: removing an absent edge is a no-op.
			if err := depSvc.RemoveDependency(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("%s removed %s\n", ui.RenderOK("✓"), ui.RenderDim(args[0]))
			return nil
		})
	},
}

var depListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List the edges touching a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withServices(ctx, func(_ *tasks.Service, depSvc *deps.Service) error {
			edges, err := depSvc.Edges(ctx, args[0])
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(edges)
			}
			if len(edges.BlockedBy) == 0 && len(edges.Blocks) == 0 {
				fmt.Println(ui.RenderDim("no dependencies"))
				return nil
			}
			for _, edge := range edges.BlockedBy {
				fmt.Printf("%s depends on %s  %s\n",
					ui.RenderID(edge.DependentID), ui.RenderID(edge.BlockerID), ui.RenderDim("edge "+edge.ID))
			}
			for _, edge := range edges.Blocks {
				fmt.Printf("%s blocks %s  %s\n",
					ui.RenderID(edge.BlockerID), ui.RenderID(edge.DependentID), ui.RenderDim("edge "+edge.ID))
			}
			return nil
		})
	},
}

var depCheckCmd = &cobra.Command{
	Use:   "check <dependent-id> <blocker-id>",
	Short: "Check whether a dependency could be added, without adding it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withServices(ctx, func(_ *tasks.Service, depSvc *deps.Service) error {
			result, err := depSvc.CanAddDependency(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(result)
			}
			if result.Valid {
				fmt.Printf("%s %s may depend on %s\n", ui.RenderOK("✓"), ui.RenderID(args[0]), ui.RenderID(args[1]))
				return nil
			}
			fmt.Printf("%s %s\n", ui.RenderError("✗"), result.Reason)
			if len(result.CyclePath) > 0 {
				fmt.Printf("  cycle: %s\n", ui.RenderCyclePath(result.CyclePath))
			}
			return nil
		})
	},
}

var depCountCmd = &cobra.Command{
	Use:   "count <task-id>",
	Short: "Show how many tasks a task depends on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withServices(ctx, func(_ *tasks.Service, depSvc *deps.Service) error {
			count, err := depSvc.DependencyCount(ctx, args[0])
			if err != nil {
				return err
			}
			edges, err := depSvc.Edges(ctx, args[0])
			if err != nil {
				return err
			}
			counts := types.DependencyCounts{Outgoing: count, Incoming: len(edges.Blocks)}
			if flagJSON {
				return printJSON(counts)
			}
			fmt.Printf("%s depends on %d task(s) (max %d), blocks %d\n",
				ui.RenderID(args[0]), counts.Outgoing, deps.MaxOutgoing, counts.Incoming)
			return nil
		})
	},
}

var depTreeCmd = &cobra.Command{
	Use:   "tree <task-id>",
	Short: "Show the blocker tree for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withServices(ctx, func(taskSvc *tasks.Service, depSvc *deps.Service) error {
			root, err := taskSvc.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if root == nil {
				FatalError("task %s not found", args[0])
			}
			return printTree(ctx, taskSvc, depSvc, args[0], 0, map[string]bool{})
		})
	},
}

// printTree walks blockers depth-first. The visited set guards against
// cycles in corrupt data; healthy graphs never revisit a node on one
// root-to-leaf path.
func printTree(ctx context.Context, taskSvc *tasks.Service, depSvc *deps.Service, taskID string, depth int, visited map[string]bool) error {
	indent := strings.Repeat("  ", depth)
	task, err := taskSvc.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		fmt.Printf("%s%s %s\n", indent, ui.RenderID(taskID), ui.RenderDim("(missing)"))
		return nil
	}
	fmt.Printf("%s%s %s (%s)\n", indent, ui.RenderID(task.ID), task.Title, ui.RenderStatus(task.Status))

	if visited[taskID] {
		return nil
	}
	visited[taskID] = true
	defer delete(visited, taskID)

	edges, err := depSvc.Edges(ctx, taskID)
	if err != nil {
		return err
	}
	for _, edge := range edges.BlockedBy {
		if err := printTree(ctx, taskSvc, depSvc, edge.BlockerID, depth+1, visited); err != nil {
			return err
		}
	}
	return nil
}

var depCyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Report circular dependencies in the stored graph",
	Long: "Report circular dependencies. The validated add path never admits a\n" +
		"cycle, so anything found here arrived through an old database or an\n" +
		"external import and should be broken up by removing an edge.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withServices(ctx, func(_ *tasks.Service, depSvc *deps.Service) error {
			all, err := depSvc.AllDependencies(ctx)
			if err != nil {
				return err
			}
			cycles := graph.DetectCycles(deps.GraphEdges(all))
			if flagJSON {
				if cycles == nil {
					cycles = [][]string{}
				}
				return printJSON(cycles)
			}
			if len(cycles) == 0 {
				fmt.Printf("%s no cycles\n", ui.RenderOK("✓"))
				return nil
			}
			for _, cycle := range cycles {
				fmt.Printf("%s %s\n", ui.RenderError("✗"), ui.RenderCyclePath(cycle))
			}
			return nil
		})
	},
}

func init() {
	depCmd.AddCommand(depAddCmd, depRemoveCmd, depListCmd, depCheckCmd, depCountCmd, depTreeCmd, depCyclesCmd)
	rootCmd.AddCommand(depCmd)
}
