// Package diffengine matches an edited task list against the original list
// it was derived from and turns the difference into a single transaction:
// inserts for new ids, updates (including renames) for changed content, and
// deletes for ids dropped from the edited list.
package diffengine

import (
	"github.com/yarlson/mont/internal/engine"
	"github.com/yarlson/mont/internal/idgen"
	"github.com/yarlson/mont/internal/model"
)

// Update pairs the original id a task is replacing with its new content.
type Update struct {
	OriginalID string
	Task       *model.Task
}

// Diff is the set of changes between an original and an edited task list.
type Diff struct {
	Inserts []*model.Task
	Updates []Update
	Deletes []string
}

// IsEmpty reports whether the diff has no changes.
func (d *Diff) IsEmpty() bool {
	return len(d.Inserts) == 0 && len(d.Updates) == 0 && len(d.Deletes) == 0
}

// ChangeCount returns the total number of changes in the diff.
func (d *Diff) ChangeCount() int {
	return len(d.Inserts) + len(d.Updates) + len(d.Deletes)
}

// Compute matches edited against original by id. A task in edited whose
// NewID is set is a rename: it must match an id in original (else it is
// treated as an insert under NewID). A task in edited whose id matches one
// in original without NewID set is an update if its content differs, and
// a no-op otherwise. A task in edited with no matching id in original is
// an insert. An id in original with no corresponding entry in edited
// (whether matched directly or via rename) is a delete.
//
// Changing a task's id field directly, without setting NewID, is treated
// as a delete of the old id plus an insert of the new one: only the
// explicit NewID field signals a rename-as-update.
func Compute(original, edited []*model.Task) *Diff {
	originalByID := make(map[string]*model.Task, len(original))
	for _, t := range original {
		originalByID[t.ID] = t
	}

	diff := &Diff{}
	seen := make(map[string]struct{}, len(edited))

	for _, e := range edited {
		if e.NewID != "" {
			if orig, ok := originalByID[e.ID]; ok {
				seen[e.ID] = struct{}{}
				renamed := e.Clone()
				renamed.ID = e.NewID
				renamed.NewID = ""
				diff.Updates = append(diff.Updates, Update{OriginalID: orig.ID, Task: renamed})
			} else {
				inserted := e.Clone()
				inserted.ID = e.NewID
				inserted.NewID = ""
				diff.Inserts = append(diff.Inserts, inserted)
			}
			continue
		}

		orig, ok := originalByID[e.ID]
		if !ok {
			diff.Inserts = append(diff.Inserts, e)
			continue
		}

		seen[e.ID] = struct{}{}
		if !orig.Equal(e) {
			diff.Updates = append(diff.Updates, Update{OriginalID: orig.ID, Task: e})
		}
	}

	for _, o := range original {
		if _, ok := seen[o.ID]; !ok {
			diff.Deletes = append(diff.Deletes, o.ID)
		}
	}

	return diff
}

// ApplyResult reports what a diff actually produced once committed.
type ApplyResult struct {
	Created []string
	// Updated holds (originalID, newID, idChanged) triples.
	Updated []UpdatedEntry
	Deleted []string
}

// UpdatedEntry records one update applied by Apply.
type UpdatedEntry struct {
	OriginalID string
	NewID      string
	IDChanged  bool
}

// Apply stages diff as a single transaction against ctx: deletes first
// (rewriting references to nil), then updates (rewriting references on
// rename), then inserts, allocating ids for any task left with an empty
// id, and commits atomically. Validation therefore sees the entire
// post-edit graph at once.
func Apply(ctx *engine.Context, diff *Diff) (*ApplyResult, error) {
	tx := ctx.Begin()
	v := ctx.View()

	result := &ApplyResult{}

	for _, id := range diff.Deletes {
		tx.RewriteReferences(v, id, nil)
		tx.Delete(id)
		result.Deleted = append(result.Deleted, id)
	}

	staged := make(map[string]struct{})
	taken := func(id string) bool {
		if _, ok := staged[id]; ok {
			return true
		}
		return v.Contains(id)
	}

	for _, u := range diff.Updates {
		idChanged := u.Task.ID != u.OriginalID
		if idChanged {
			newID := u.Task.ID
			tx.RewriteReferences(v, u.OriginalID, &newID)
		}

		if u.Task.ID == "" {
			id, err := idgen.Generate(u.Task.Title, taken)
			if err != nil {
				return nil, err
			}
			u.Task.ID = id
		}
		staged[u.Task.ID] = struct{}{}

		result.Updated = append(result.Updated, UpdatedEntry{
			OriginalID: u.OriginalID,
			NewID:      u.Task.ID,
			IDChanged:  idChanged,
		})
		tx.Update(u.OriginalID, u.Task)
	}

	for _, task := range diff.Inserts {
		if task.ID == "" {
			id, err := idgen.Generate(task.Title, taken)
			if err != nil {
				return nil, err
			}
			task.ID = id
		}
		staged[task.ID] = struct{}{}

		result.Created = append(result.Created, task.ID)
		tx.Insert(task)
	}

	if err := ctx.Commit(tx); err != nil {
		return nil, err
	}

	return result, nil
}
