package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarlson/mont/internal/model"
)

func newTask(id string, before, after []string) *model.Task {
	return &model.Task{ID: id, Kind: model.KindTask, Before: before, After: after}
}

func TestTaskGraph_InsertGet(t *testing.T) {
	g := New()
	g.Insert(newTask("a", nil, nil))
	task, ok := g.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", task.ID)
	assert.True(t, g.IsDirty("a"))
}

func TestTaskGraph_GetFiltersDeleted(t *testing.T) {
	g := New()
	g.Insert(newTask("a", nil, nil))
	g.SoftDelete("a")
	_, ok := g.Get("a")
	assert.False(t, ok)
	assert.False(t, g.Contains("a"))
	raw, ok := g.GetRaw("a")
	require.True(t, ok)
	assert.True(t, raw.Deleted)
}

func TestTaskGraph_ClearDirtyPurgesDeleted(t *testing.T) {
	g := New()
	g.Insert(newTask("a", nil, nil))
	g.Insert(newTask("b", nil, nil))
	g.SoftDelete("a")
	g.ClearDirty()
	assert.False(t, g.HasDirty())
	_, ok := g.GetRaw("a")
	assert.False(t, ok)
	_, ok = g.GetRaw("b")
	assert.True(t, ok)
}

func TestTaskGraph_LenIsEmpty(t *testing.T) {
	g := New()
	assert.True(t, g.IsEmpty())
	g.Insert(newTask("a", nil, nil))
	assert.Equal(t, 1, g.Len())
	g.SoftDelete("a")
	assert.True(t, g.IsEmpty())
}

func TestTransitiveReduction_DropsRedundantEdge(t *testing.T) {
	g := New()
	// a before b, b before c, a before c (redundant: a -> c reachable via b)
	g.Insert(newTask("a", []string{"b", "c"}, nil))
	g.Insert(newTask("b", []string{"c"}, nil))
	g.Insert(newTask("c", nil, nil))

	reduced := g.TransitiveReduction()
	assert.Equal(t, []string{"b"}, reduced["a"])
	assert.Equal(t, []string{"c"}, reduced["b"])
}

func TestTransitiveReduction_KeepsNonRedundantEdges(t *testing.T) {
	g := New()
	g.Insert(newTask("a", []string{"b"}, nil))
	g.Insert(newTask("b", nil, nil))

	reduced := g.TransitiveReduction()
	assert.Equal(t, []string{"b"}, reduced["a"])
}

func TestTaskGraph_AfterEdgeDirection(t *testing.T) {
	g := New()
	// b runs after a: edge a -> b
	g.Insert(newTask("a", nil, nil))
	g.Insert(newTask("b", nil, []string{"a"}))

	order := g.TopologicalOrder()
	aIdx, bIdx := indexOfStr(order, "a"), indexOfStr(order, "b")
	assert.True(t, aIdx < bIdx)
}

func TestTopologicalOrder_RespectsBefore(t *testing.T) {
	g := New()
	g.Insert(newTask("a", []string{"b"}, nil))
	g.Insert(newTask("b", nil, nil))
	g.Insert(newTask("c", nil, nil))

	order := g.TopologicalOrder()
	require.Len(t, order, 3)
	aIdx, bIdx := indexOfStr(order, "a"), indexOfStr(order, "b")
	assert.True(t, aIdx < bIdx)
}

func TestTopologicalOrder_DeterministicTieBreak(t *testing.T) {
	g := New()
	g.Insert(newTask("c", nil, nil))
	g.Insert(newTask("a", nil, nil))
	g.Insert(newTask("b", nil, nil))

	order := g.TopologicalOrder()
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestTopologicalOrder_EmptyGraph(t *testing.T) {
	g := New()
	assert.Nil(t, g.TopologicalOrder())
}

func TestConnectedComponents_GroupsLinkedTasks(t *testing.T) {
	g := New()
	g.Insert(newTask("a", []string{"b"}, nil))
	g.Insert(newTask("b", nil, nil))
	g.Insert(newTask("c", nil, nil))

	components := g.ConnectedComponents()
	require.Len(t, components, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, components[0])
	assert.Equal(t, []string{"c"}, components[1])
}

func TestConnectedComponents_GatesLinkTasks(t *testing.T) {
	g := New()
	a := newTask("a", nil, nil)
	a.Gates = []model.GateItem{{ID: "g"}}
	g.Insert(a)
	g.Insert(newTask("g", nil, nil))

	components := g.ConnectedComponents()
	require.Len(t, components, 1)
	assert.ElementsMatch(t, []string{"a", "g"}, components[0])
}

func indexOfStr(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
