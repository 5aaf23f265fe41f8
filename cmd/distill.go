package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yarlson/mont/internal/cliutil"
	"github.com/yarlson/mont/internal/config"
	"github.com/yarlson/mont/internal/diffengine"
	"github.com/yarlson/mont/internal/engine"
	"github.com/yarlson/mont/internal/model"
	"github.com/yarlson/mont/internal/tempfile"
)

func newDistillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distill <id>",
		Short: "Distill a jot into a regular task via the editor",
		Long:  "Opens the jot in the configured editor. The edited block is re-parsed and applied; its kind must change from jot to task.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDistill(cmd, args[0])
		},
	}
}

func runDistill(cmd *cobra.Command, id string) error {
	workDir, err := workingDir()
	if err != nil {
		return err
	}

	ctx, _, err := openContext(workDir)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigWithFile(workDir, GetConfigFile())
	if err != nil {
		return fmt.Errorf("load mont.yaml: %w", err)
	}

	task, ok := ctx.View().Get(id)
	if !ok {
		return fmt.Errorf("distill %s: task not found", id)
	}
	if !task.IsJot() {
		return fmt.Errorf("distill %s: not a jot", id)
	}

	path, err := tempfile.Make(cfg.Tempdir.Suffix, []*model.Task{task}, tempfile.Instructions(tempfile.ModeEdit, model.KindTask))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	var editor cliutil.Editor = cliutil.ShellEditor{}
	if err := editor.Edit(cmd.Context(), path); err != nil {
		return fmt.Errorf("edit %s: %w", path, err)
	}

	return applyDistilled(ctx, task, path)
}

func applyDistilled(ctx *engine.Context, original *model.Task, path string) error {
	edited, err := tempfile.Parse(path)
	if err != nil {
		return fmt.Errorf("parse edited temp file: %w", err)
	}
	if len(edited) != 1 {
		return errors.New("distill: expected exactly one task block")
	}
	if edited[0].Kind != model.KindTask {
		return errors.New("distill: edited task must be of kind task")
	}

	diff := diffengine.Compute([]*model.Task{original}, edited)
	if diff.IsEmpty() {
		return errors.New("distill: no change recorded")
	}

	if _, err := diffengine.Apply(ctx, diff); err != nil {
		return fmt.Errorf("apply distill: %w", err)
	}
	return nil
}
