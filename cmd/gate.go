package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yarlson/mont/internal/model"
)

func newGateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gate <task-id> <gate-id> <status>",
		Short: "Set the status of a gate attached to a task",
		Long:  "status is one of: pending, passed, failed, skipped.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGate(args[0], args[1], args[2])
		},
	}
}

func runGate(taskID, gateID, status string) error {
	gateStatus := model.GateStatus(status)
	switch gateStatus {
	case model.GateStatusPending, model.GateStatusPassed, model.GateStatusFailed, model.GateStatusSkipped:
	default:
		return fmt.Errorf("gate: invalid status %q", status)
	}

	workDir, err := workingDir()
	if err != nil {
		return err
	}

	ctx, _, err := openContext(workDir)
	if err != nil {
		return err
	}

	task, ok := ctx.View().Get(taskID)
	if !ok {
		return fmt.Errorf("gate: task not found: %s", taskID)
	}

	found := false
	updated := task.Clone()
	for i := range updated.Gates {
		if updated.Gates[i].ID == gateID {
			updated.Gates[i].Status = gateStatus
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("gate: task %s has no gate %s attached", taskID, gateID)
	}

	tx := ctx.Begin()
	tx.Update(taskID, updated)
	if err := ctx.Commit(tx); err != nil {
		return fmt.Errorf("commit gate status change: %w", err)
	}
	return nil
}
