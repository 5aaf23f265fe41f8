// Package validator checks a view of the task graph against the
// invariants that every commit must uphold: referenced ids must exist,
// after-targets and gates must resolve to the right kind of task, and the
// before/after edges must not form a cycle.
package validator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yarlson/mont/internal/model"
	"github.com/yarlson/mont/internal/txn"
	"github.com/yarlson/mont/internal/view"
)

// Error kinds, named per the error surface every commit can fail with.
var (
	ErrInvalidBefore = errors.New("before references a task that does not exist")
	ErrInvalidAfter  = errors.New("after references a task that does not exist")
	ErrAfterIsGate   = errors.New("after references a gate, which cannot be an after-dependency")
	ErrGateNotFound  = errors.New("gates references a task that does not exist")
	ErrNotAGate      = errors.New("gates references a task that is not a gate")
	ErrGateNotRoot   = errors.New("gates references a gate that is not a root gate")
	ErrCycleDetected = errors.New("before/after edges form a cycle")
	ErrDuplicateID   = errors.New("duplicate task id")
)

// ValidationError wraps one of the above sentinels with the task and
// reference id it occurred on.
type ValidationError struct {
	TaskID string
	RefID  string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.RefID != "" {
		return fmt.Sprintf("task %q: %s: %q", e.TaskID, e.Err, e.RefID)
	}
	return fmt.Sprintf("task %q: %s", e.TaskID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks every invariant over v, returning the first violation it
// finds. Soft-deleted tasks are already excluded by View and are never
// validated as targets or sources.
func Validate(v view.View) error {
	for _, task := range v.Values() {
		if err := validateTask(v, task); err != nil {
			return err
		}
	}
	return checkCycles(v)
}

func validateTask(v view.View, task *model.Task) error {
	for _, before := range task.Before {
		if !v.Contains(before) {
			return &ValidationError{TaskID: task.ID, RefID: before, Err: ErrInvalidBefore}
		}
	}

	for _, after := range task.After {
		target, ok := v.Get(after)
		if !ok {
			return &ValidationError{TaskID: task.ID, RefID: after, Err: ErrInvalidAfter}
		}
		if target.IsGate() && after != task.ID {
			return &ValidationError{TaskID: task.ID, RefID: after, Err: ErrAfterIsGate}
		}
	}

	for _, gate := range task.Gates {
		target, ok := v.Get(gate.ID)
		if !ok {
			return &ValidationError{TaskID: task.ID, RefID: gate.ID, Err: ErrGateNotFound}
		}
		if !target.IsGate() {
			return &ValidationError{TaskID: task.ID, RefID: gate.ID, Err: ErrNotAGate}
		}
		if len(target.Before) > 0 {
			return &ValidationError{TaskID: task.ID, RefID: gate.ID, Err: ErrGateNotRoot}
		}
	}

	return nil
}

// CheckDuplicateIDs detects two operations within a single transaction that
// would assign the same id to two different tasks: two inserts sharing an
// explicit id, an insert colliding with a rename's target id, or two
// renames landing on the same new id. Ops are otherwise free to collapse
// via last-write-wins (see view.Overlay), so this is the only place such a
// collision is caught before it reaches disk.
func CheckDuplicateIDs(ops []txn.Op) error {
	seen := make(map[string]struct{})
	for _, op := range ops {
		var id string
		switch op.Kind {
		case txn.OpInsert:
			id = op.Task.ID
		case txn.OpUpdate:
			if op.OldID == "" || op.OldID == op.Task.ID {
				continue
			}
			id = op.Task.ID
		default:
			continue
		}

		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			return &ValidationError{TaskID: id, Err: ErrDuplicateID}
		}
		seen[id] = struct{}{}
	}
	return nil
}

// color marks a node's state during three-color DFS cycle detection.
type color int

const (
	white color = iota
	gray
	black
)

// checkCycles runs a three-color DFS over the before/after edges of every
// task in v: a before entry is an edge from the task to the listed id, an
// after entry an edge from the listed id to the task. A reference to an id
// outside v is treated as already resolved (black) so dangling references
// are left to validateTask instead of tripping a false cycle here.
func checkCycles(v view.View) error {
	colors := make(map[string]color)
	ids := v.Keys()
	sort.Strings(ids)

	afterEdges := make(map[string][]string)
	for _, task := range v.Values() {
		for _, after := range task.After {
			afterEdges[after] = append(afterEdges[after], task.ID)
		}
	}

	var visit func(id string) error
	visit = func(id string) error {
		switch colors[id] {
		case gray:
			return &ValidationError{TaskID: id, Err: ErrCycleDetected}
		case black:
			return nil
		}

		colors[id] = gray
		task, ok := v.Get(id)
		if ok {
			neighbors := append(append([]string{}, task.Before...), afterEdges[id]...)
			for _, n := range neighbors {
				if !v.Contains(n) {
					continue
				}
				if err := visit(n); err != nil {
					return err
				}
			}
		}
		colors[id] = black
		return nil
	}

	for _, id := range ids {
		if colors[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}

	return nil
}
