package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-calendar/internal/domain"
	"task-calendar/internal/repository"
)

func TestOpenDirectory_LoadsSnapshot(t *testing.T) {
	store := &memoryStore{}
	require.NoError(t, store.Save(context.Background(), &repository.Snapshot{Accounts: []repository.AccountRecord{
		{Email: "ana@example.com", Password: "secret123", Tasks: []repository.TaskRecord{{Name: "legacy", Status: "Completed", Progress: 20}}},
	}}))

	directory, err := OpenDirectory(context.Background(), store, DirectoryOptions{})
	require.NoError(t, err)

	snapshot := directory.Snapshot()
	require.Len(t, snapshot.Accounts, 1)
	task := snapshot.Accounts[0].Tasks[0]
	assert.NotEmpty(t, task.ID, "tasks without IDs get one on load")
	assert.Equal(t, 20, task.Progress, "stored progress is not coerced on load")
}

func TestOpenDirectory_PersistsAssignedIDs(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	require.NoError(t, store.Save(ctx, &repository.Snapshot{Accounts: []repository.AccountRecord{
		{Email: "ana@example.com", Password: "secret123", Tasks: []repository.TaskRecord{{Name: "first"}, {Name: "second"}}},
	}}))

	first, err := OpenDirectory(ctx, store, DirectoryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, store.saveCount(), "assigned IDs are saved once")

	second, err := OpenDirectory(ctx, store, DirectoryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, store.saveCount(), "nothing to assign on reopen")
	assert.Equal(t, first.Snapshot(), second.Snapshot())
}

func TestOpenDirectory_IDSaveFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	require.NoError(t, store.Save(ctx, &repository.Snapshot{Accounts: []repository.AccountRecord{
		{Email: "ana@example.com", Tasks: []repository.TaskRecord{{Name: "first"}}},
	}}))
	store.failSaves(errDiskFull)

	directory, err := OpenDirectory(ctx, store, DirectoryOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, directory.Snapshot().Accounts[0].Tasks[0].ID)
}

func TestOpenDirectory_LoadError(t *testing.T) {
	store := &memoryStore{loadErr: context.Canceled}

	_, err := OpenDirectory(context.Background(), store, DirectoryOptions{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirectoryStore_UpdateCommitsOnlyAfterSave(t *testing.T) {
	store := &memoryStore{}
	directory, err := OpenDirectory(context.Background(), store, DirectoryOptions{})
	require.NoError(t, err)

	err = directory.Update(context.Background(), func(d *domain.Directory) error {
		d.Add(&domain.Account{Email: "ana@example.com"})
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, directory.Snapshot().Accounts, 1)

	store.failSaves(errDiskFull)
	err = directory.Update(context.Background(), func(d *domain.Directory) error {
		d.Add(&domain.Account{Email: "bo@example.com"})
		return nil
	})
	assert.ErrorIs(t, err, errDiskFull)
	assert.Len(t, directory.Snapshot().Accounts, 1, "failed save must not change memory")
}

func TestDirectoryStore_UpdateFunctionErrorSkipsSave(t *testing.T) {
	store := &memoryStore{}
	directory, err := OpenDirectory(context.Background(), store, DirectoryOptions{})
	require.NoError(t, err)
	boom := errors.New("boom")

	err = directory.Update(context.Background(), func(d *domain.Directory) error {
		d.Add(&domain.Account{Email: "ana@example.com"})
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, store.saveCount())
	assert.Empty(t, directory.Snapshot().Accounts)
}

// deadlineStore records whether Save saw a deadline
type deadlineStore struct {
	memoryStore
	sawDeadline bool
}

func (d *deadlineStore) Save(ctx context.Context, snapshot *repository.Snapshot) error {
	_, d.sawDeadline = ctx.Deadline()
	return d.memoryStore.Save(ctx, snapshot)
}

func TestDirectoryStore_WriteTimeoutApplied(t *testing.T) {
	store := &deadlineStore{}
	directory, err := OpenDirectory(context.Background(), store, DirectoryOptions{WriteTimeout: time.Second})
	require.NoError(t, err)

	require.NoError(t, directory.Update(context.Background(), func(d *domain.Directory) error { return nil }))

	assert.True(t, store.sawDeadline)
}

func TestDirectoryStore_Close(t *testing.T) {
	store := &memoryStore{}
	directory, err := OpenDirectory(context.Background(), store, DirectoryOptions{})
	require.NoError(t, err)

	require.NoError(t, directory.Close())
	assert.True(t, store.isClosed)
}
