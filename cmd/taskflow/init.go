package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mizannoor/taskflow/internal/config"
	"github.com/mizannoor/taskflow/internal/storage/sqlite"
	"github.com/mizannoor/taskflow/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize taskflow in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		configPath, err := config.WriteDefault(cwd, actor())
		if err != nil {
			return err
		}

		dbPath := filepath.Join(cwd, config.Dir, config.DatabaseName)
		store, err := sqlite.New(ctx, dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		fmt.Printf("%s initialized %s\n", ui.RenderOK("✓"), filepath.Join(cwd, config.Dir))
		fmt.Printf("  config:   %s\n", configPath)
		fmt.Printf("  database: %s\n", dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
