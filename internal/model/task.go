// Package model defines the task graph's core data types.
package model

// Kind is the category of a task: a plain unit of work, a quick-capture
// note, or a gate attached to other tasks as a completion precondition.
type Kind string

const (
	KindTask Kind = "task"
	KindJot  Kind = "jot"
	KindGate Kind = "gate"
)

// Status is the stored task status. The zero value means pending/ready,
// which is computed from the graph rather than stored.
type Status string

const (
	StatusNone       Status = ""
	StatusInProgress Status = "in_progress"
	StatusStopped    Status = "stopped"
	StatusComplete   Status = "complete"
)

// GateStatus is the state of a gate attached to a task via Gates.
type GateStatus string

const (
	GateStatusPending GateStatus = "pending"
	GateStatusPassed  GateStatus = "passed"
	GateStatusFailed  GateStatus = "failed"
	GateStatusSkipped GateStatus = "skipped"
)

// ReservedID is never a valid task id.
const ReservedID = "?"

// GateItem is one entry in a task's Gates list: a gate id plus the status
// of that gate as attached to this task.
type GateItem struct {
	ID     string
	Status GateStatus
}

// Task is the atomic entity of the task graph.
type Task struct {
	ID          string
	Title       string
	Description string
	Kind        Kind
	Status      Status

	// Before lists ids this task must complete before.
	Before []string
	// After lists ids this task starts after.
	After []string
	// Gates lists validator tasks attached to this task.
	Gates []GateItem

	// NewID carries a rename intent through the editor round-trip. Never
	// persisted to disk.
	NewID string

	// Deleted is a transient soft-delete flag, never persisted.
	Deleted bool
}

// IsGate reports whether this task is a gate.
func (t *Task) IsGate() bool {
	return t.Kind == KindGate
}

// IsJot reports whether this task is a jot.
func (t *Task) IsJot() bool {
	return t.Kind == KindJot
}

// IsComplete reports whether this task is marked complete.
func (t *Task) IsComplete() bool {
	return t.Status == StatusComplete
}

// IsInProgress reports whether this task is marked in progress.
func (t *Task) IsInProgress() bool {
	return t.Status == StatusInProgress
}

// IsStopped reports whether this task is marked stopped.
func (t *Task) IsStopped() bool {
	return t.Status == StatusStopped
}

// GateIDs returns the gate ids attached to this task, in order.
func (t *Task) GateIDs() []string {
	ids := make([]string, len(t.Gates))
	for i, g := range t.Gates {
		ids[i] = g.ID
	}
	return ids
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	clone := *t
	clone.Before = append([]string(nil), t.Before...)
	clone.After = append([]string(nil), t.After...)
	clone.Gates = append([]GateItem(nil), t.Gates...)
	return &clone
}

// Equal reports whether two tasks are identical in every field that is
// persisted to disk (ignores Deleted, which is never persisted).
func (t *Task) Equal(other *Task) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.ID != other.ID || t.Title != other.Title || t.Description != other.Description ||
		t.Kind != other.Kind || t.Status != other.Status {
		return false
	}
	if !stringsEqual(t.Before, other.Before) || !stringsEqual(t.After, other.After) {
		return false
	}
	if len(t.Gates) != len(other.Gates) {
		return false
	}
	for i := range t.Gates {
		if t.Gates[i] != other.Gates[i] {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
