package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yarlson/mont/internal/layout"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the .mont directory structure",
		Long:  "Create .mont/tasks, and validate any existing graph and config.yml. No config.yml is written; when it is absent the defaults apply.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd)
		},
	}
}

func runInit(cmd *cobra.Command) error {
	workDir, err := workingDir()
	if err != nil {
		return err
	}

	if err := layout.Ensure(workDir); err != nil {
		return fmt.Errorf("ensure .mont layout: %w", err)
	}

	ctx, cfg, err := openContext(workDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "initialized %s (%d tasks, %d default gates)\n",
		layout.MontDirPath(workDir), ctx.View().Len(), len(cfg.DefaultGates))
	return nil
}
