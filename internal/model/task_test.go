package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTask_IsGate(t *testing.T) {
	gate := &Task{ID: "g", Kind: KindGate}
	task := &Task{ID: "t", Kind: KindTask}
	assert.True(t, gate.IsGate())
	assert.False(t, task.IsGate())
}

func TestTask_IsJot(t *testing.T) {
	jot := &Task{ID: "j", Kind: KindJot}
	assert.True(t, jot.IsJot())
	assert.False(t, jot.IsGate())
}

func TestTask_StatusHelpers(t *testing.T) {
	assert.True(t, (&Task{Status: StatusComplete}).IsComplete())
	assert.True(t, (&Task{Status: StatusInProgress}).IsInProgress())
	assert.True(t, (&Task{Status: StatusStopped}).IsStopped())
	assert.False(t, (&Task{}).IsComplete())
}

func TestTask_GateIDs(t *testing.T) {
	task := &Task{Gates: []GateItem{{ID: "a"}, {ID: "b", Status: GateStatusPassed}}}
	assert.Equal(t, []string{"a", "b"}, task.GateIDs())
}

func TestTask_Clone_Independent(t *testing.T) {
	task := &Task{ID: "t", Before: []string{"a"}, Gates: []GateItem{{ID: "g"}}}
	clone := task.Clone()
	clone.Before[0] = "z"
	clone.Gates[0].ID = "z"
	assert.Equal(t, "a", task.Before[0])
	assert.Equal(t, "g", task.Gates[0].ID)
}

func TestTask_Equal(t *testing.T) {
	a := &Task{ID: "t", Title: "T", Before: []string{"x"}}
	b := &Task{ID: "t", Title: "T", Before: []string{"x"}}
	c := &Task{ID: "t", Title: "Different", Before: []string{"x"}}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestTask_Equal_IgnoresDeleted(t *testing.T) {
	a := &Task{ID: "t", Deleted: true}
	b := &Task{ID: "t", Deleted: false}
	assert.True(t, a.Equal(b))
}
