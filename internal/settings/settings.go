// Package settings loads and validates the task graph's config.yml: the
// default gates every task must satisfy, and the jj integration toggle.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yarlson/mont/internal/model"
)

// JJConfig controls the external version-control integration.
type JJConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the graph-wide configuration loaded from config.yml.
type Config struct {
	DefaultGates []string `yaml:"default_gates"`
	JJ           JJConfig `yaml:"jj"`
}

// Default returns the configuration used when no config.yml is present.
func Default() *Config {
	return &Config{JJ: JJConfig{Enabled: true}}
}

// Sentinel errors describing why validation failed.
var (
	ErrGateNotFound = errors.New("default gate not found in task graph")
	ErrNotAGate     = errors.New("default gate is not a gate")
)

// ValidationError names the offending gate id and the failed check.
type ValidationError struct {
	GateID string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("default gate %q: %s", e.GateID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// rawConfig mirrors Config's shape for strict (unknown-key-rejecting)
// decoding, since yaml.v3 rejects unknown fields only via node decoding
// with KnownFields set.
type rawConfig struct {
	DefaultGates []string `yaml:"default_gates"`
	JJ           struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"jj"`
}

// Load reads config.yml from path, returning the default configuration if
// the file does not exist. Unknown top-level or jj keys are rejected.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	cfg := Default()
	if len(bytes.TrimSpace(content)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var raw rawConfig
	raw.JJ.Enabled = true
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}

	cfg.DefaultGates = raw.DefaultGates
	cfg.JJ.Enabled = raw.JJ.Enabled
	return cfg, nil
}

// GraphLookup is the minimal read surface Validate needs.
type GraphLookup interface {
	Get(id string) (*model.Task, bool)
}

// Validate checks that every default gate id resolves to a task of kind
// gate in graph.
func (c *Config) Validate(graph GraphLookup) error {
	for _, gateID := range c.DefaultGates {
		task, ok := graph.Get(gateID)
		if !ok {
			return &ValidationError{GateID: gateID, Err: ErrGateNotFound}
		}
		if !task.IsGate() {
			return &ValidationError{GateID: gateID, Err: ErrNotAGate}
		}
	}
	return nil
}
