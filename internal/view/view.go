// Package view provides read-only projections over a task graph: the
// persisted graph itself, and a graph overlaid with a pending transaction's
// operations, both exposing the same interface so the validator and callers
// don't need to distinguish them.
package view

import (
	"github.com/yarlson/mont/internal/graph"
	"github.com/yarlson/mont/internal/model"
	"github.com/yarlson/mont/internal/txn"
)

// View is a read-only projection of tasks keyed by id.
type View interface {
	Get(id string) (*model.Task, bool)
	Contains(id string) bool
	Values() []*model.Task
	Keys() []string
	Len() int
	IsEmpty() bool
}

// Direct wraps a TaskGraph directly, filtering soft-deleted tasks.
type Direct struct {
	graph *graph.TaskGraph
}

// NewDirect returns a View over the given graph's current state.
func NewDirect(g *graph.TaskGraph) *Direct {
	return &Direct{graph: g}
}

func (d *Direct) Get(id string) (*model.Task, bool) { return d.graph.Get(id) }
func (d *Direct) Contains(id string) bool           { return d.graph.Contains(id) }
func (d *Direct) Values() []*model.Task             { return d.graph.Values() }
func (d *Direct) Keys() []string                    { return d.graph.Keys() }
func (d *Direct) Len() int                           { return d.graph.Len() }
func (d *Direct) IsEmpty() bool                      { return d.graph.IsEmpty() }

// Overlay combines a base graph with a pending transaction's operations,
// without cloning the base. An Insert or a rename Update resurrects an id
// that a prior op in the same transaction deleted; a Delete or rename
// Update removes the old id even if a prior op inserted it.
type Overlay struct {
	base    *graph.TaskGraph
	inserts map[string]*model.Task
	deletes map[string]struct{}
}

// NewOverlay builds an Overlay of base with the given ops applied in order.
func NewOverlay(base *graph.TaskGraph, ops []txn.Op) *Overlay {
	o := &Overlay{
		base:    base,
		inserts: make(map[string]*model.Task),
		deletes: make(map[string]struct{}),
	}

	for _, op := range ops {
		switch op.Kind {
		case txn.OpInsert:
			delete(o.deletes, op.Task.ID)
			o.inserts[op.Task.ID] = op.Task
		case txn.OpUpdate:
			if op.OldID != op.Task.ID {
				delete(o.inserts, op.OldID)
				o.deletes[op.OldID] = struct{}{}
			}
			delete(o.deletes, op.Task.ID)
			o.inserts[op.Task.ID] = op.Task
		case txn.OpDelete:
			delete(o.inserts, op.ID)
			o.deletes[op.ID] = struct{}{}
		}
	}

	return o
}

func (o *Overlay) Get(id string) (*model.Task, bool) {
	if _, deleted := o.deletes[id]; deleted {
		return nil, false
	}
	if t, ok := o.inserts[id]; ok {
		return t, true
	}
	return o.base.Get(id)
}

func (o *Overlay) Contains(id string) bool {
	_, ok := o.Get(id)
	return ok
}

func (o *Overlay) Keys() []string {
	keys := make([]string, 0, o.base.Len()+len(o.inserts))
	for _, id := range o.base.Keys() {
		if _, deleted := o.deletes[id]; deleted {
			continue
		}
		if _, overridden := o.inserts[id]; overridden {
			continue
		}
		keys = append(keys, id)
	}
	for id := range o.inserts {
		keys = append(keys, id)
	}
	return keys
}

func (o *Overlay) Values() []*model.Task {
	values := make([]*model.Task, 0, o.base.Len()+len(o.inserts))
	for _, t := range o.base.Values() {
		if _, deleted := o.deletes[t.ID]; deleted {
			continue
		}
		if _, overridden := o.inserts[t.ID]; overridden {
			continue
		}
		values = append(values, t)
	}
	for _, t := range o.inserts {
		values = append(values, t)
	}
	return values
}

func (o *Overlay) Len() int { return len(o.Keys()) }

func (o *Overlay) IsEmpty() bool { return o.Len() == 0 }
