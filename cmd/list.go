package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yarlson/mont/internal/cliutil"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every task in the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd)
		},
	}
}

func runList(cmd *cobra.Command) error {
	workDir, err := workingDir()
	if err != nil {
		return err
	}

	ctx, _, err := openContext(workDir)
	if err != nil {
		return err
	}

	var renderer cliutil.Renderer = cliutil.PlainRenderer{}
	return renderer.RenderList(cmd.OutOrStdout(), ctx.View().Values())
}
