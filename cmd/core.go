package cmd

import (
	"fmt"
	"os"

	"github.com/yarlson/mont/internal/engine"
	"github.com/yarlson/mont/internal/layout"
	"github.com/yarlson/mont/internal/settings"
)

// openContext ensures the .mont directory layout exists, loads the graph
// from .mont/tasks, and loads+validates .mont/config.yml against it.
func openContext(workDir string) (*engine.Context, *settings.Config, error) {
	if err := layout.Ensure(workDir); err != nil {
		return nil, nil, fmt.Errorf("ensure .mont layout: %w", err)
	}

	ctx, err := engine.Load(layout.TasksDirPath(workDir))
	if err != nil {
		return nil, nil, fmt.Errorf("load task graph: %w", err)
	}

	cfg, err := settings.Load(layout.ConfigFilePath(workDir))
	if err != nil {
		return nil, nil, fmt.Errorf("load config.yml: %w", err)
	}
	if err := cfg.Validate(ctx.View()); err != nil {
		return nil, nil, fmt.Errorf("validate config.yml: %w", err)
	}

	return ctx, cfg, nil
}

func workingDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}
