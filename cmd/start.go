package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yarlson/mont/internal/model"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Mark a task in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStatus(args[0], model.StatusInProgress)
		},
	}
}

func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStatus(args[0], model.StatusComplete)
		},
	}
}

func newUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <id>",
		Short: "Clear a task's stopped status, returning it to pending/ready",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStatus(args[0], model.StatusNone)
		},
	}
}

func setStatus(id string, status model.Status) error {
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
		return fmt.Errorf("task not found: %s", id)
	}

	updated := task.Clone()
	updated.Status = status

	tx := ctx.Begin()
	tx.Update(id, updated)
	if err := ctx.Commit(tx); err != nil {
		return fmt.Errorf("commit status change: %w", err)
	}
	return nil
}
