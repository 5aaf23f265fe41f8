// Package engine implements the task graph's central coordination point:
// loading a tasks directory into memory, staging transactions, validating
// and committing them under a version stamp, and persisting dirty tasks
// back to disk. Named engine (not context) so the exported Context type
// never collides with the standard library's context package.
package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yarlson/mont/internal/codec"
	"github.com/yarlson/mont/internal/graph"
	"github.com/yarlson/mont/internal/model"
	"github.com/yarlson/mont/internal/txn"
	"github.com/yarlson/mont/internal/validator"
	"github.com/yarlson/mont/internal/view"
)

// BulkLoadError collects every I/O and parse failure encountered while
// loading a tasks directory, rather than stopping at the first one. When
// there are none, it holds the first validation failure of the loaded
// graph instead.
type BulkLoadError struct {
	IOErrors         map[string]error
	ParseErrors      map[string]error
	ValidationErrors []error
}

func newBulkLoadError() *BulkLoadError {
	return &BulkLoadError{
		IOErrors:    make(map[string]error),
		ParseErrors: make(map[string]error),
	}
}

func (e *BulkLoadError) addIO(path string, err error) {
	e.IOErrors[path] = err
}

func (e *BulkLoadError) addParse(path string, err error) {
	e.ParseErrors[path] = err
}

func (e *BulkLoadError) addValidation(err error) {
	e.ValidationErrors = append(e.ValidationErrors, err)
}

// IsEmpty reports whether no errors were collected.
func (e *BulkLoadError) IsEmpty() bool {
	return len(e.IOErrors) == 0 && len(e.ParseErrors) == 0 && len(e.ValidationErrors) == 0
}

func (e *BulkLoadError) Error() string {
	var b strings.Builder
	paths := make([]string, 0, len(e.IOErrors))
	for p := range e.IOErrors {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(&b, "io error reading %s: %s\n", p, e.IOErrors[p])
	}

	paths = paths[:0]
	for p := range e.ParseErrors {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(&b, "parse error in %s: %s\n", p, e.ParseErrors[p])
	}

	for _, err := range e.ValidationErrors {
		fmt.Fprintf(&b, "validation error: %s\n", err)
	}

	return strings.TrimRight(b.String(), "\n")
}

// ErrConflict is returned by Commit when the transaction's base version no
// longer matches the context's current version.
var ErrConflict = errors.New("transaction base version is stale")

// ConflictError carries the expected and actual version for ErrConflict.
type ConflictError struct {
	Expected uint64
	Actual   uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: transaction based on version %d, context is at version %d", e.Expected, e.Actual)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// IoError wraps a filesystem failure encountered while persisting a commit.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io error on %s: %s", e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// Context is the central, concurrency-safe handle to a loaded task graph.
// Readers never block each other; Commit serializes writers under the same
// lock it uses to check the version stamp.
type Context struct {
	mu       sync.RWMutex
	graph    *graph.TaskGraph
	version  uint64
	tasksDir string
}

// New returns a Context with an empty graph rooted at tasksDir.
func New(tasksDir string) *Context {
	return &Context{graph: graph.New(), tasksDir: tasksDir}
}

// Load reads every *.md file in tasksDir, parses it, and validates the
// resulting graph, all before constructing the Context. I/O and parse
// errors are collected across every file rather than stopping at the
// first one; if any occurred, validation is skipped and the batch is
// returned without constructing a Context.
func Load(tasksDir string) (*Context, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		bulk := newBulkLoadError()
		bulk.addIO(tasksDir, err)
		return nil, bulk
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		paths = append(paths, filepath.Join(tasksDir, entry.Name()))
	}
	sort.Strings(paths)

	bulk := newBulkLoadError()
	tasks := make([]*model.Task, len(paths))

	var mu sync.Mutex
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				mu.Lock()
				bulk.addIO(path, err)
				mu.Unlock()
				return nil
			}
			task, err := codec.Parse(string(content))
			if err != nil {
				mu.Lock()
				bulk.addParse(path, err)
				mu.Unlock()
				return nil
			}
			tasks[i] = task
			return nil
		})
	}
	_ = g.Wait()

	if !bulk.IsEmpty() {
		return nil, bulk
	}

	g2 := graph.New()
	for _, t := range tasks {
		g2.Insert(t)
	}
	g2.ClearDirty()

	if err := validator.Validate(view.NewDirect(g2)); err != nil {
		bulk.addValidation(err)
		return nil, bulk
	}

	return &Context{graph: g2, tasksDir: tasksDir}, nil
}

// Begin snapshots the current version and returns a new transaction
// staged against it.
func (c *Context) Begin() *txn.Transaction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return txn.New(c.version)
}

// View returns a read-only view of the live graph, not a copy. Holding
// it does not block writers from starting, but Get/Values reflect the
// state at the instant they were called only if the caller does not race
// a concurrent Commit; callers needing a stable read should keep working
// through a single View call site.
func (c *Context) View() view.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return view.NewDirect(c.graph)
}

// TasksDir returns the directory this context was loaded from.
func (c *Context) TasksDir() string {
	return c.tasksDir
}

// Commit validates tx against the current graph state and, on success,
// applies its operations, advances the version, and persists every dirty
// task to disk. If tx's base version no longer matches, no changes are
// applied and ConflictError is returned. If validation fails the graph is
// left untouched. If persistence fails partway through, the in-memory
// graph has already advanced and is not rolled back; the dirty set is
// left as-is so the next successful Commit writes the remaining dirty
// tasks again.
func (c *Context) Commit(tx *txn.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.version != tx.BaseVersion() {
		return &ConflictError{Expected: tx.BaseVersion(), Actual: c.version}
	}

	if err := validator.CheckDuplicateIDs(tx.Ops()); err != nil {
		return err
	}

	overlay := view.NewOverlay(c.graph, tx.Ops())
	if err := validator.Validate(overlay); err != nil {
		return err
	}

	for _, op := range tx.Ops() {
		switch op.Kind {
		case txn.OpInsert:
			c.graph.Insert(op.Task)
		case txn.OpUpdate:
			if op.OldID != op.Task.ID {
				c.graph.SoftDelete(op.OldID)
			}
			c.graph.Insert(op.Task)
		case txn.OpDelete:
			c.graph.SoftDelete(op.ID)
		}
	}

	c.version++

	return c.persistDirty()
}

// persistDirty writes every dirty, non-deleted task to <tasksDir>/<id>.md
// and removes the file for every dirty, deleted task, then clears the
// dirty set.
func (c *Context) persistDirty() error {
	for _, task := range c.graph.DirtyTasks() {
		path := filepath.Join(c.tasksDir, task.ID+".md")
		if task.Deleted {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return &IoError{Path: path, Err: err}
			}
			continue
		}

		if err := writeFileAtomic(path, codec.Serialize(task)); err != nil {
			return &IoError{Path: path, Err: err}
		}
	}

	c.graph.ClearDirty()
	return nil
}

// writeFileAtomic writes content to a temp file in the same directory as
// path, then renames it into place, so a concurrent reader never observes
// a partially written file.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
