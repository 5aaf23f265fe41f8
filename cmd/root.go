// Package cmd implements the thin cobra CLI surface over the task graph
// core. Every verb loads a Context from .mont/tasks and performs one
// operation through the engine/diffengine/txn public API; the verbs that
// change the graph commit it, which persists the changed tasks.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// NewRootCmd creates the root command for the mont CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mont",
		Short: "A task graph engine for dependency-ordered work",
		Long: `mont tracks tasks as a DAG of markdown files with YAML frontmatter:
before/after ordering, gates as completion preconditions, and a diff-based
multi-edit workflow for bulk changes in an external editor.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: mont.yaml in the working directory, or the global config)")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newDoneCmd())
	rootCmd.AddCommand(newUnlockCmd())
	rootCmd.AddCommand(newDistillCmd())
	rootCmd.AddCommand(newGateCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfigFile returns the --config flag value, empty if unset.
func GetConfigFile() string {
	return cfgFile
}
