package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarlson/mont/internal/codec"
	"github.com/yarlson/mont/internal/model"
	"github.com/yarlson/mont/internal/validator"
)

func writeTaskFile(t *testing.T, dir string, task *model.Task) {
	t.Helper()
	path := filepath.Join(dir, task.ID+".md")
	require.NoError(t, os.WriteFile(path, codec.Serialize(task), 0o644))
}

func TestLoad_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	ctx, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, ctx.View().IsEmpty())
}

func TestLoad_ParsesAndValidatesFiles(t *testing.T) {
	dir := t.TempDir()
	writeTaskFile(t, dir, &model.Task{ID: "a", Kind: model.KindTask, Before: []string{"b"}})
	writeTaskFile(t, dir, &model.Task{ID: "b", Kind: model.KindTask})

	ctx, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.View().Len())
}

func TestLoad_CollectsParseErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.md"), []byte("not a task"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	var bulk *BulkLoadError
	require.ErrorAs(t, err, &bulk)
	assert.Len(t, bulk.ParseErrors, 1)
}

func TestLoad_CollectsValidationErrors(t *testing.T) {
	dir := t.TempDir()
	writeTaskFile(t, dir, &model.Task{ID: "a", Kind: model.KindTask, Before: []string{"missing"}})

	_, err := Load(dir)
	require.Error(t, err)
	var bulk *BulkLoadError
	require.ErrorAs(t, err, &bulk)
	assert.Len(t, bulk.ValidationErrors, 1)
}

func TestCommit_InsertPersistsFile(t *testing.T) {
	dir := t.TempDir()
	ctx := New(dir)

	tx := ctx.Begin()
	tx.Insert(&model.Task{ID: "a", Kind: model.KindTask})
	require.NoError(t, ctx.Commit(tx))

	content, err := os.ReadFile(filepath.Join(dir, "a.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "id: a")
}

func TestCommit_AdvancesVersion(t *testing.T) {
	dir := t.TempDir()
	ctx := New(dir)

	tx := ctx.Begin()
	tx.Insert(&model.Task{ID: "a", Kind: model.KindTask})
	require.NoError(t, ctx.Commit(tx))

	assert.Equal(t, uint64(1), ctx.version)
}

func TestCommit_StaleBaseVersionConflicts(t *testing.T) {
	dir := t.TempDir()
	ctx := New(dir)

	// Two transactions begun against the same version; committing the
	// first advances the version out from under the second.
	txEarly := ctx.Begin()
	txLate := ctx.Begin()

	txEarly.Insert(&model.Task{ID: "a", Kind: model.KindTask})
	require.NoError(t, ctx.Commit(txEarly))

	txLate.Insert(&model.Task{ID: "b", Kind: model.KindTask})
	err := ctx.Commit(txLate)
	require.Error(t, err)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint64(0), conflict.Expected)
	assert.Equal(t, uint64(1), conflict.Actual)
}

func TestCommit_ValidationFailureLeavesGraphUntouched(t *testing.T) {
	dir := t.TempDir()
	ctx := New(dir)

	tx := ctx.Begin()
	tx.Insert(&model.Task{ID: "a", Kind: model.KindTask, Before: []string{"missing"}})

	err := ctx.Commit(tx)
	require.Error(t, err)
	assert.ErrorIs(t, err, validator.ErrInvalidBefore)
	assert.True(t, ctx.View().IsEmpty())
}

func TestCommit_DuplicateIDInsertsRejected(t *testing.T) {
	dir := t.TempDir()
	ctx := New(dir)

	tx := ctx.Begin()
	tx.Insert(&model.Task{ID: "a", Kind: model.KindTask})
	tx.Insert(&model.Task{ID: "a", Kind: model.KindTask, Title: "collides"})

	err := ctx.Commit(tx)
	require.Error(t, err)
	assert.ErrorIs(t, err, validator.ErrDuplicateID)
	assert.True(t, ctx.View().IsEmpty())
}

func TestCommit_DeleteRemovesFile(t *testing.T) {
	dir := t.TempDir()
	writeTaskFile(t, dir, &model.Task{ID: "a", Kind: model.KindTask})
	ctx, err := Load(dir)
	require.NoError(t, err)

	tx := ctx.Begin()
	tx.Delete("a")
	require.NoError(t, ctx.Commit(tx))

	_, statErr := os.Stat(filepath.Join(dir, "a.md"))
	assert.True(t, os.IsNotExist(statErr))
	assert.False(t, ctx.View().Contains("a"))
}

func TestCommit_RenameRemovesOldFileWritesNew(t *testing.T) {
	dir := t.TempDir()
	writeTaskFile(t, dir, &model.Task{ID: "old", Kind: model.KindTask})
	ctx, err := Load(dir)
	require.NoError(t, err)

	tx := ctx.Begin()
	tx.Update("old", &model.Task{ID: "new", Kind: model.KindTask})
	require.NoError(t, ctx.Commit(tx))

	_, statErr := os.Stat(filepath.Join(dir, "old.md"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, "new.md"))
	assert.NoError(t, statErr)
}
