package cliutil

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Picker resolves a "?" id placeholder to a concrete one by letting the
// user choose interactively among candidates, grounded on
// original_source/src/commands/shared.rs's pick_task.
type Picker interface {
	Pick(ctx context.Context, candidates []string) (string, error)
}

// FzfPicker shells out to fzf, feeding it one candidate per line and
// returning the selected line.
type FzfPicker struct{}

func (FzfPicker) Pick(ctx context.Context, candidates []string) (string, error) {
	cmd := exec.CommandContext(ctx, "fzf")
	cmd.Stdin = strings.NewReader(strings.Join(candidates, "\n"))

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("fzf: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
