package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yarlson/mont/internal/cliutil"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}
}

func runShow(cmd *cobra.Command, id string) error {
	workDir, err := workingDir()
	if err != nil {
		return err
	}

	ctx, _, err := openContext(workDir)
	if err != nil {
		return err
	}

	task, ok := ctx.View().Get(id)
	if !ok {
		return fmt.Errorf("show %s: task not found", id)
	}

	var renderer cliutil.Renderer = cliutil.PlainRenderer{}
	return renderer.RenderTask(cmd.OutOrStdout(), task)
}
