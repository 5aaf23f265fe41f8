package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarlson/mont/internal/model"
)

func TestParse_ValidTask(t *testing.T) {
	content := `---
id: test-task
before:
  - task1
after:
  - dep1
gates:
  - val1
title: Test Task
---

Task description here.
`
	task, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "test-task", task.ID)
	assert.Equal(t, []string{"task1"}, task.Before)
	assert.Equal(t, []string{"dep1"}, task.After)
	require.Len(t, task.Gates, 1)
	assert.Equal(t, "val1", task.Gates[0].ID)
	assert.Equal(t, model.GateStatusPending, task.Gates[0].Status)
	assert.Equal(t, "Test Task", task.Title)
	assert.False(t, task.IsGate())
	assert.Equal(t, "Task description here.", task.Description)
}

func TestParse_GateWithoutAfter(t *testing.T) {
	content := `---
id: my-gate
type: gate
before:
  - task1
---

Gate description.
`
	task, err := Parse(content)
	require.NoError(t, err)
	assert.True(t, task.IsGate())
	assert.Equal(t, []string{"task1"}, task.Before)
	assert.Empty(t, task.After)
}

func TestParse_GateWithAfterFails(t *testing.T) {
	content := `---
id: bad-gate
type: gate
after:
  - some-task
---

Should fail.
`
	_, err := Parse(content)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGateWithAfter)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "bad-gate", perr.TaskID)
}

func TestParse_GateMarkedCompleteFails(t *testing.T) {
	content := `---
id: complete-gate
type: gate
status: complete
---

Should fail.
`
	_, err := Parse(content)
	assert.ErrorIs(t, err, ErrGateMarkedComplete)
}

func TestParse_JotWithGatesFails(t *testing.T) {
	content := `---
id: bad-jot
type: jot
gates:
  - some-gate
---

Jots cannot have gates.
`
	_, err := Parse(content)
	assert.ErrorIs(t, err, ErrJotWithGates)
}

func TestParse_MissingFrontmatter(t *testing.T) {
	_, err := Parse("No frontmatter here")
	assert.ErrorIs(t, err, ErrMissingFrontmatter)
}

func TestParse_MissingClosingDelimiter(t *testing.T) {
	_, err := Parse("---\nid: test\nNo closing delimiter")
	assert.ErrorIs(t, err, ErrMissingFrontmatter)
}

func TestParse_MissingID(t *testing.T) {
	content := `---
title: No id
---

Description.
`
	_, err := Parse(content)
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestParse_ReservedID(t *testing.T) {
	content := "---\nid: \"?\"\n---\n\nbody\n"
	_, err := Parse(content)
	assert.ErrorIs(t, err, ErrReservedID)
}

func TestParse_EmptyOptionalFields(t *testing.T) {
	content := `---
id: minimal
---

Minimal task.
`
	task, err := Parse(content)
	require.NoError(t, err)
	assert.Empty(t, task.Before)
	assert.Empty(t, task.After)
	assert.Empty(t, task.Gates)
	assert.Empty(t, task.Title)
	assert.False(t, task.IsGate())
	assert.False(t, task.IsComplete())
}

func TestParse_EmptyDescriptionRoundTrips(t *testing.T) {
	task := &model.Task{ID: "no-body", Kind: model.KindTask}
	md := Serialize(task)
	parsed, err := Parse(string(md))
	require.NoError(t, err)
	assert.Equal(t, "", parsed.Description)
	assert.Equal(t, "no-body", parsed.ID)
}

func TestParse_DashesInsideStringDoNotTerminateEarly(t *testing.T) {
	content := "---\nid: dashy\ntitle: \"a --- b\"\n---\n\nBody after.\n"
	task, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "a --- b", task.Title)
	assert.Equal(t, "Body after.", task.Description)
}

func TestParse_MixedGateStatuses(t *testing.T) {
	content := `---
id: test-task
gates:
  - val1
  - val2: passed
  - val3: failed
  - val4: skipped
---

Task with mixed validation statuses.
`
	task, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, task.Gates, 4)
	assert.Equal(t, model.GateStatusPending, task.Gates[0].Status)
	assert.Equal(t, model.GateStatusPassed, task.Gates[1].Status)
	assert.Equal(t, model.GateStatusFailed, task.Gates[2].Status)
	assert.Equal(t, model.GateStatusSkipped, task.Gates[3].Status)
}

func TestSerialize_RoundtripFull(t *testing.T) {
	task := &model.Task{
		ID:     "full-task",
		Before: []string{"parent1", "parent2"},
		After:  []string{"dep1"},
		Gates: []model.GateItem{
			{ID: "val1", Status: model.GateStatusPending},
			{ID: "val2", Status: model.GateStatusPassed},
			{ID: "val3", Status: model.GateStatusFailed},
		},
		Title:       "Full Task Title",
		Status:      model.StatusInProgress,
		Kind:        model.KindTask,
		Description: "This is the description.",
	}
	md := Serialize(task)
	parsed, err := Parse(string(md))
	require.NoError(t, err)

	assert.Equal(t, task.ID, parsed.ID)
	assert.Equal(t, task.Title, parsed.Title)
	assert.Equal(t, model.KindTask, parsed.Kind)
	assert.Equal(t, model.StatusInProgress, parsed.Status)
	assert.Equal(t, task.Before, parsed.Before)
	assert.Equal(t, task.After, parsed.After)
	require.Len(t, parsed.Gates, 3)
	assert.Equal(t, model.GateStatusPending, parsed.Gates[0].Status)
	assert.Equal(t, model.GateStatusPassed, parsed.Gates[1].Status)
	assert.Equal(t, model.GateStatusFailed, parsed.Gates[2].Status)
	assert.Equal(t, task.Description, parsed.Description)
}

func TestSerialize_TypeOmittedForTask(t *testing.T) {
	md := string(Serialize(&model.Task{ID: "t", Kind: model.KindTask}))
	assert.NotContains(t, md, "type:")
}

func TestSerialize_GateRoundtrip(t *testing.T) {
	task := &model.Task{
		ID:          "my-gate",
		Before:      []string{"consumer"},
		Title:       "Gate Title",
		Kind:        model.KindGate,
		Description: "Gate description.",
	}
	md := Serialize(task)
	parsed, err := Parse(string(md))
	require.NoError(t, err)
	assert.Equal(t, model.KindGate, parsed.Kind)
	assert.True(t, parsed.IsGate())
}

func TestSerialize_FieldOrder(t *testing.T) {
	task := &model.Task{
		ID:     "ordered",
		Title:  "T",
		Kind:   model.KindJot,
		Status: model.StatusStopped,
		Before: []string{"a"},
		After:  []string{"b"},
	}
	md := string(Serialize(task))
	idIdx := indexOf(md, "id:")
	titleIdx := indexOf(md, "title:")
	typeIdx := indexOf(md, "type:")
	statusIdx := indexOf(md, "status:")
	beforeIdx := indexOf(md, "before:")
	afterIdx := indexOf(md, "after:")
	assert.True(t, idIdx < titleIdx)
	assert.True(t, titleIdx < typeIdx)
	assert.True(t, typeIdx < statusIdx)
	assert.True(t, statusIdx < beforeIdx)
	assert.True(t, beforeIdx < afterIdx)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
