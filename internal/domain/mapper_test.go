package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-calendar/internal/repository"
)

func TestSnapshotMapper_FromRecordNormalizes(t *testing.T) {
	mapper := &SnapshotMapper{newID: func() string { return "generated" }}

	tests := []struct {
		name     string
		record   repository.TaskRecord
		expected Task
	}{
		{
			name:   "keeps a valid record",
			record: repository.TaskRecord{ID: "t-1", Name: "Write report", EndDate: "2025-06-01", Status: "In Progress", Priority: 2, Progress: 40, Assignees: []string{"ana"}},
			expected: Task{ID: "t-1", Name: "Write report", EndDate: "2025-06-01", Status: StatusInProgress, Priority: 2, Progress: 40, Assignees: []string{"ana"}},
		},
		{
			name:     "assigns a missing id",
			record:   repository.TaskRecord{Name: "x", Status: "Not Started"},
			expected: Task{ID: "generated", Name: "x", Status: StatusNotStarted, Assignees: []string{}},
		},
		{
			name:     "canonicalizes compact status",
			record:   repository.TaskRecord{ID: "t", Status: "InProgress"},
			expected: Task{ID: "t", Status: StatusInProgress, Assignees: []string{}},
		},
		{
			name:     "keeps unknown status verbatim",
			record:   repository.TaskRecord{ID: "t", Status: "Blocked", Progress: 5},
			expected: Task{ID: "t", Status: "Blocked", Progress: 5, Assignees: []string{}},
		},
		{
			name:     "clamps progress",
			record:   repository.TaskRecord{ID: "t", Status: "In Progress", Progress: 150},
			expected: Task{ID: "t", Status: StatusInProgress, Progress: 100, Assignees: []string{}},
		},
		{
			name:     "keeps stored progress of completed task",
			record:   repository.TaskRecord{ID: "t", Status: "Completed", Progress: 30},
			expected: Task{ID: "t", Status: StatusCompleted, Progress: 30, Assignees: []string{}},
		},
		{
			name:     "removes duplicate assignees",
			record:   repository.TaskRecord{ID: "t", Status: "Not Started", Assignees: []string{"ana", "bo", "ana"}},
			expected: Task{ID: "t", Status: StatusNotStarted, Assignees: []string{"ana", "bo"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapper.FromRecord(tt.record))
		})
	}
}

func TestSnapshotMapper_RoundTrip(t *testing.T) {
	mapper := NewSnapshotMapper()
	snapshot := &repository.Snapshot{Accounts: []repository.AccountRecord{
		{
			Email:    "ana@example.com",
			Password: "secret123",
			Tasks: []repository.TaskRecord{
				{ID: "t-1", Name: "Write report", EndDate: "2025-06-01", Status: "In Progress", Priority: 2, Progress: 40, Assignees: []string{"ana", "bo"}},
			},
		},
		{Email: "bo@example.com", Password: "hunter22", Tasks: []repository.TaskRecord{}},
	}}

	result := mapper.ToSnapshot(mapper.FromSnapshot(snapshot))

	assert.Equal(t, snapshot, result)
}

func TestSnapshotMapper_AssignedIDsAreStable(t *testing.T) {
	mapper := NewSnapshotMapper()
	snapshot := &repository.Snapshot{Accounts: []repository.AccountRecord{
		{Email: "ana@example.com", Tasks: []repository.TaskRecord{{Name: "a"}, {Name: "b"}}},
	}}

	first := mapper.ToSnapshot(mapper.FromSnapshot(snapshot))
	second := mapper.ToSnapshot(mapper.FromSnapshot(first))

	require.Len(t, first.Accounts[0].Tasks, 2)
	assert.NotEmpty(t, first.Accounts[0].Tasks[0].ID)
	assert.NotEqual(t, first.Accounts[0].Tasks[0].ID, first.Accounts[0].Tasks[1].ID)
	assert.Equal(t, first, second)
}

func TestSnapshotMapper_MergesDuplicateEmails(t *testing.T) {
	mapper := NewSnapshotMapper()
	snapshot := &repository.Snapshot{Accounts: []repository.AccountRecord{
		{Email: "ana@example.com", Password: "first111", Tasks: []repository.TaskRecord{{ID: "a"}}},
		{Email: "ANA@example.com", Password: "second22", Tasks: []repository.TaskRecord{{ID: "b"}}},
	}}

	directory := mapper.FromSnapshot(snapshot)

	require.Len(t, directory.Accounts, 1)
	assert.Equal(t, "first111", directory.Accounts[0].Password)
	assert.Len(t, directory.Accounts[0].Tasks, 2)
}

func TestSnapshotMapper_Nil(t *testing.T) {
	mapper := NewSnapshotMapper()

	assert.Empty(t, mapper.FromSnapshot(nil).Accounts)
	assert.Equal(t, repository.EmptySnapshot(), mapper.ToSnapshot(nil))
}
