package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mizannoor/taskflow/internal/config"
	"github.com/mizannoor/taskflow/internal/deps"
	"github.com/mizannoor/taskflow/internal/storage"
	"github.com/mizannoor/taskflow/internal/storage/factory"
	"github.com/mizannoor/taskflow/internal/tasks"
	"github.com/mizannoor/taskflow/internal/ui"
)

var (
	flagDB     string
	flagActor  string
	flagJSON   bool
	flagMemory bool
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:           "taskflow",
	Short:         "Local task manager with dependency tracking",
	Long:          "taskflow tracks tasks and the finish-to-start dependencies between them.\nThe dependency graph stays acyclic and blocked status is always derived\nfrom live task state, never stored.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if flagDebug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return config.Initialize()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: nearest .taskflow/taskflow.db)")
	rootCmd.PersistentFlags().StringVar(&flagActor, "actor", "", "who is performing the operation (default: config, then $USER)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output JSON instead of text")
	rootCmd.PersistentFlags().BoolVar(&flagMemory, "memory", false, "use a throwaway in-memory store")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderError("error:"), err)
		os.Exit(1)
	}
}

// FatalError prints a formatted error and exits non-zero. Used for
// argument and precondition failures inside command bodies.
func FatalError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderError("error:"), fmt.Sprintf(format, args...))
	os.Exit(1)
}

// actor resolves the acting user for the current invocation.
func actor() string {
	if flagActor != "" {
		return flagActor
	}
	return config.Actor()
}

// openStore opens the configured storage backend.
func openStore(ctx context.Context) (storage.Storage, error) {
	if flagMemory {
		return factory.Open(ctx, factory.BackendMemory, "")
	}
	path := flagDB
	if path == "" {
		var err error
		path, err = config.DBPath()
		if err != nil {
			return nil, err
		}
	}
	return factory.Open(ctx, factory.BackendSQLite, path)
}

// services wires the task service and dependency engine over one
// store, with the cascade hook attached to the deletion path.
func services(store storage.Storage) (*tasks.Service, *deps.Service) {
	depSvc := deps.NewService(store, slog.Default())
	taskSvc := tasks.NewService(store)
	taskSvc.RegisterDeleteHook(depSvc.OnTaskDeleted)
	return taskSvc, depSvc
}

// withServices opens storage, builds the services, runs fn, and closes
// the store afterwards.
func withServices(ctx context.Context, fn func(taskSvc *tasks.Service, depSvc *deps.Service) error) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	taskSvc, depSvc := services(store)
	return fn(taskSvc, depSvc)
}
