// Package codec converts tasks between their in-memory form and markdown
// files with YAML frontmatter.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yarlson/mont/internal/model"
)

// Sentinel errors returned by Parse, always wrapped in a ParseError that
// carries the task id when it is known.
var (
	ErrMissingFrontmatter = errors.New("missing frontmatter delimiters")
	ErrInvalidYaml        = errors.New("invalid yaml")
	ErrEmptyID            = errors.New("task id cannot be empty")
	ErrReservedID         = errors.New("task id is reserved")
	ErrGateWithAfter      = errors.New("gate must not have after dependencies")
	ErrGateMarkedComplete = errors.New("gate cannot be marked complete")
	ErrJotWithGates       = errors.New("jot cannot have gates")
)

// ParseError wraps a codec error with the id (when known) it occurred on.
type ParseError struct {
	TaskID string
	Err    error
}

func (e *ParseError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("task %q: %s", e.TaskID, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// gateItem mirrors the frontmatter shape of a gates entry: a bare string
// (status defaults to pending) or a single-key mapping {id: status}.
type gateItem model.GateItem

func (g *gateItem) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		g.ID = value.Value
		g.Status = model.GateStatusPending
		return nil
	}

	if value.Kind == yaml.MappingNode {
		if len(value.Content) != 2 {
			return fmt.Errorf("%w: gate entry must be a single-key mapping", ErrInvalidYaml)
		}
		var id, status string
		if err := value.Content[0].Decode(&id); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidYaml, err)
		}
		if err := value.Content[1].Decode(&status); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidYaml, err)
		}
		g.ID = id
		switch model.GateStatus(status) {
		case model.GateStatusPending, model.GateStatusPassed, model.GateStatusFailed, model.GateStatusSkipped:
			g.Status = model.GateStatus(status)
		default:
			return fmt.Errorf("%w: unknown gate status %q", ErrInvalidYaml, status)
		}
		return nil
	}

	return fmt.Errorf("%w: gate entry must be a string or a map with {id: status}", ErrInvalidYaml)
}

// frontmatter is the YAML shape recognized between the `---` delimiters.
type frontmatter struct {
	ID     string     `yaml:"id"`
	Title  string     `yaml:"title,omitempty"`
	Type   string     `yaml:"type,omitempty"`
	Status string     `yaml:"status,omitempty"`
	Before []string   `yaml:"before,omitempty"`
	After  []string   `yaml:"after,omitempty"`
	Gates  []gateItem `yaml:"gates,omitempty"`
	NewID  string     `yaml:"new_id,omitempty"`
}

var statusOnDisk = map[string]model.Status{
	"inprogress": model.StatusInProgress,
	"stopped":    model.StatusStopped,
	"complete":   model.StatusComplete,
}

var statusToDisk = map[model.Status]string{
	model.StatusInProgress: "inprogress",
	model.StatusStopped:    "stopped",
	model.StatusComplete:   "complete",
}

// Parse parses a task markdown file. The input must contain two `---`
// delimiter lines; the block between them is YAML frontmatter, the content
// after the second delimiter is the description (trimmed).
//
// Delimiters are matched by line, not by substring search, so a `---`
// occurring inside a YAML string value does not falsely terminate the
// frontmatter block.
func Parse(content string) (*model.Task, error) {
	lines := strings.Split(content, "\n")
	startLine, endLine := -1, -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "---" {
			continue
		}
		if startLine == -1 {
			startLine = i
			continue
		}
		endLine = i
		break
	}
	if startLine == -1 || endLine == -1 {
		return nil, &ParseError{Err: ErrMissingFrontmatter}
	}

	yamlBlock := strings.Join(lines[startLine+1:endLine], "\n")
	description := strings.TrimSpace(strings.Join(lines[endLine+1:], "\n"))

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return nil, &ParseError{TaskID: fm.ID, Err: fmt.Errorf("%w: %s", ErrInvalidYaml, err)}
	}

	if fm.ID == "" {
		return nil, &ParseError{Err: ErrEmptyID}
	}
	if fm.ID == model.ReservedID {
		return nil, &ParseError{TaskID: fm.ID, Err: ErrReservedID}
	}

	task := &model.Task{
		ID:          fm.ID,
		Title:       fm.Title,
		Description: description,
		Before:      fm.Before,
		After:       fm.After,
		NewID:       fm.NewID,
	}

	switch fm.Type {
	case "", "task":
		task.Kind = model.KindTask
	case "jot":
		task.Kind = model.KindJot
	case "gate":
		task.Kind = model.KindGate
	default:
		return nil, &ParseError{TaskID: fm.ID, Err: fmt.Errorf("%w: unknown type %q", ErrInvalidYaml, fm.Type)}
	}

	if fm.Status != "" {
		status, ok := statusOnDisk[fm.Status]
		if !ok {
			return nil, &ParseError{TaskID: fm.ID, Err: fmt.Errorf("%w: unknown status %q", ErrInvalidYaml, fm.Status)}
		}
		task.Status = status
	}

	for _, g := range fm.Gates {
		task.Gates = append(task.Gates, model.GateItem(g))
	}

	if task.IsGate() && len(task.After) > 0 {
		return nil, &ParseError{TaskID: task.ID, Err: ErrGateWithAfter}
	}
	if task.IsGate() && task.IsComplete() {
		return nil, &ParseError{TaskID: task.ID, Err: ErrGateMarkedComplete}
	}
	if task.IsJot() && len(task.Gates) > 0 {
		return nil, &ParseError{TaskID: task.ID, Err: ErrJotWithGates}
	}

	return task, nil
}

// Serialize emits a task as markdown: opening delimiter, frontmatter fields
// in fixed order, closing delimiter, blank line, description.
func Serialize(t *model.Task) []byte {
	var b strings.Builder

	b.WriteString("---\n")
	if t.ID != "" {
		fmt.Fprintf(&b, "id: %s\n", t.ID)
	}
	if t.Title != "" {
		fmt.Fprintf(&b, "title: %s\n", t.Title)
	}
	switch t.Kind {
	case model.KindTask, "":
		// default, don't write
	case model.KindJot:
		b.WriteString("type: jot\n")
	case model.KindGate:
		b.WriteString("type: gate\n")
	}
	if t.Status != model.StatusNone {
		fmt.Fprintf(&b, "status: %s\n", statusToDisk[t.Status])
	}
	if len(t.Before) > 0 {
		b.WriteString("before:\n")
		for _, id := range t.Before {
			fmt.Fprintf(&b, "  - %s\n", id)
		}
	}
	if len(t.After) > 0 {
		b.WriteString("after:\n")
		for _, id := range t.After {
			fmt.Fprintf(&b, "  - %s\n", id)
		}
	}
	if len(t.Gates) > 0 {
		b.WriteString("gates:\n")
		for _, g := range t.Gates {
			if g.Status == model.GateStatusPending || g.Status == "" {
				fmt.Fprintf(&b, "  - %s\n", g.ID)
			} else {
				fmt.Fprintf(&b, "  - %s: %s\n", g.ID, g.Status)
			}
		}
	}
	b.WriteString("---\n\n")

	if t.Description != "" {
		b.WriteString(t.Description)
		b.WriteString("\n")
	}

	return []byte(b.String())
}
