// Package graph holds the set of tasks keyed by id and computes the
// topological order, transitive reduction, and connected components over
// their before/after/gate edges.
package graph

import (
	"sort"

	"github.com/yarlson/mont/internal/model"
)

// TaskGraph is a mapping id -> Task plus a set of ids dirty since the last
// persistence cycle.
type TaskGraph struct {
	tasks map[string]*model.Task
	dirty map[string]struct{}
}

// New returns an empty TaskGraph.
func New() *TaskGraph {
	return &TaskGraph{
		tasks: make(map[string]*model.Task),
		dirty: make(map[string]struct{}),
	}
}

// Insert inserts or overwrites a task, marking it dirty.
func (g *TaskGraph) Insert(task *model.Task) {
	g.tasks[task.ID] = task
	g.dirty[task.ID] = struct{}{}
}

// Get returns the task with the given id, ignoring soft-deleted entries.
func (g *TaskGraph) Get(id string) (*model.Task, bool) {
	t, ok := g.tasks[id]
	if !ok || t.Deleted {
		return nil, false
	}
	return t, true
}

// GetRaw returns the task with the given id regardless of its deleted flag.
func (g *TaskGraph) GetRaw(id string) (*model.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// Contains reports whether a non-deleted task with the given id exists.
func (g *TaskGraph) Contains(id string) bool {
	_, ok := g.Get(id)
	return ok
}

// SoftDelete flags a task as deleted and marks it dirty. Returns false if
// the task does not exist.
func (g *TaskGraph) SoftDelete(id string) bool {
	t, ok := g.tasks[id]
	if !ok {
		return false
	}
	t.Deleted = true
	g.dirty[id] = struct{}{}
	return true
}

// Len returns the number of non-deleted tasks.
func (g *TaskGraph) Len() int {
	n := 0
	for _, t := range g.tasks {
		if !t.Deleted {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the graph has no non-deleted tasks.
func (g *TaskGraph) IsEmpty() bool {
	return g.Len() == 0
}

// Keys returns the ids of non-deleted tasks, unsorted.
func (g *TaskGraph) Keys() []string {
	keys := make([]string, 0, len(g.tasks))
	for id, t := range g.tasks {
		if !t.Deleted {
			keys = append(keys, id)
		}
	}
	return keys
}

// Values returns the non-deleted tasks, unsorted.
func (g *TaskGraph) Values() []*model.Task {
	values := make([]*model.Task, 0, len(g.tasks))
	for _, t := range g.tasks {
		if !t.Deleted {
			values = append(values, t)
		}
	}
	return values
}

// MarkDirty marks a task id dirty without otherwise altering it.
func (g *TaskGraph) MarkDirty(id string) {
	g.dirty[id] = struct{}{}
}

// IsDirty reports whether the given id is in the dirty set.
func (g *TaskGraph) IsDirty(id string) bool {
	_, ok := g.dirty[id]
	return ok
}

// HasDirty reports whether any task is dirty.
func (g *TaskGraph) HasDirty() bool {
	return len(g.dirty) > 0
}

// DirtyTasks returns the raw (including soft-deleted) tasks currently dirty.
func (g *TaskGraph) DirtyTasks() []*model.Task {
	tasks := make([]*model.Task, 0, len(g.dirty))
	for id := range g.dirty {
		if t, ok := g.tasks[id]; ok {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// ClearDirty drops all soft-deleted entries from the graph and empties the
// dirty set. Call after persisting dirty tasks to disk.
func (g *TaskGraph) ClearDirty() {
	for id, t := range g.tasks {
		if t.Deleted {
			delete(g.tasks, id)
		}
	}
	g.dirty = make(map[string]struct{})
}

// successorEdges builds, for each non-deleted task id, the set of ids it
// points to: before targets (task -> before-id) and after edges read
// backward (after-id -> task), per spec §4.2.
func (g *TaskGraph) successorEdges() map[string]map[string]struct{} {
	ids := make(map[string]struct{})
	for _, t := range g.tasks {
		if !t.Deleted {
			ids[t.ID] = struct{}{}
		}
	}

	edges := make(map[string]map[string]struct{})
	addEdge := func(from, to string) {
		if _, ok := ids[from]; !ok {
			return
		}
		if _, ok := ids[to]; !ok {
			return
		}
		if edges[from] == nil {
			edges[from] = make(map[string]struct{})
		}
		edges[from][to] = struct{}{}
	}

	for _, t := range g.tasks {
		if t.Deleted {
			continue
		}
		if _, ok := edges[t.ID]; !ok {
			edges[t.ID] = make(map[string]struct{})
		}
		for _, before := range t.Before {
			addEdge(t.ID, before)
		}
		for _, after := range t.After {
			addEdge(after, t.ID)
		}
	}

	return edges
}

// TransitiveReduction computes the minimum-edge equivalent DAG: for each
// node, its direct successors with redundant edges (reachable via another
// direct successor) removed.
func (g *TaskGraph) TransitiveReduction() map[string][]string {
	edges := g.successorEdges()

	reachable := make(map[string]map[string]struct{})
	for start := range edges {
		visited := make(map[string]struct{})
		stack := []string{start}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, ok := visited[n]; ok {
				continue
			}
			visited[n] = struct{}{}
			for neighbor := range edges[n] {
				if _, ok := visited[neighbor]; !ok {
					stack = append(stack, neighbor)
				}
			}
		}
		delete(visited, start)
		reachable[start] = visited
	}

	result := make(map[string][]string, len(edges))
	for node, successors := range edges {
		var reduced []string
		for succ := range successors {
			redundant := false
			for other := range successors {
				if other == succ {
					continue
				}
				if _, ok := reachable[other][succ]; ok {
					redundant = true
					break
				}
			}
			if !redundant {
				reduced = append(reduced, succ)
			}
		}
		sort.Strings(reduced)
		result[node] = reduced
	}

	return result
}

// TopologicalOrder returns task ids in topological order using Kahn's
// algorithm over the transitive reduction, breaking ties lexicographically
// for determinism.
func (g *TaskGraph) TopologicalOrder() []string {
	if g.IsEmpty() {
		return nil
	}

	successors := g.TransitiveReduction()

	inDegree := make(map[string]int)
	for id := range successors {
		inDegree[id] = 0
	}
	for _, succs := range successors {
		for _, s := range succs {
			inDegree[s]++
		}
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	result := make([]string, 0, len(inDegree))
	for len(queue) > 0 {
		sort.Strings(queue)
		id := queue[0]
		queue = queue[1:]
		result = append(result, id)

		for _, succ := range successors[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	return result
}

// ConnectedComponents groups task ids connected through before/after/gate
// edges, using union-find over the undirected closure of those edges.
// Components are sorted by their lexicographically smallest id.
func (g *TaskGraph) ConnectedComponents() [][]string {
	if g.IsEmpty() {
		return nil
	}

	ids := g.Keys()
	sort.Strings(ids)
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	parent := make([]int, len(ids))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		pi, pj := find(i), find(j)
		if pi != pj {
			parent[pi] = pj
		}
	}

	for _, id := range ids {
		t := g.tasks[id]
		idx := index[id]
		for _, b := range t.Before {
			if j, ok := index[b]; ok {
				union(idx, j)
			}
		}
		for _, a := range t.After {
			if j, ok := index[a]; ok {
				union(idx, j)
			}
		}
		for _, gate := range t.Gates {
			if j, ok := index[gate.ID]; ok {
				union(idx, j)
			}
		}
	}

	byRoot := make(map[int][]string)
	for _, id := range ids {
		root := find(index[id])
		byRoot[root] = append(byRoot[root], id)
	}

	components := make([][]string, 0, len(byRoot))
	for _, members := range byRoot {
		components = append(components, members)
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})

	return components
}
