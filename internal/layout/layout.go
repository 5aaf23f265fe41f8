// Package layout manages the on-disk directory structure a task graph
// lives in: a root-level .mont directory holding the tasks themselves and
// the settings file validated against them. Adapted from the teacher's
// .ralph directory helper (internal/state), narrowed to what the engine
// needs rather than an autonomous-loop harness's full state tree.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory and file names under the root.
const (
	MontDir    = ".mont"
	TasksDir   = "tasks"
	ConfigFile = "config.yml"
)

// MontDirPath returns the path to the .mont directory under root.
func MontDirPath(root string) string {
	return filepath.Join(root, MontDir)
}

// TasksDirPath returns the path to the tasks directory under root.
func TasksDirPath(root string) string {
	return filepath.Join(root, MontDir, TasksDir)
}

// ConfigFilePath returns the path to config.yml under root.
func ConfigFilePath(root string) string {
	return filepath.Join(root, MontDir, ConfigFile)
}

// Ensure creates the .mont directory structure if it doesn't already
// exist. Idempotent.
func Ensure(root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return fmt.Errorf("root directory does not exist: %s", root)
	}

	dirs := []string{
		MontDirPath(root),
		TasksDirPath(root),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
