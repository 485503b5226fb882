package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_LegacySplitDocuments(t *testing.T) {
	store, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "credentials.json"), `{"ana@example.com": "secret123", "bo@example.com": "hunter22"}`)
	writeFile(t, filepath.Join(dir, "tasks.json"), `{
		"ana@example.com": [
			{"name": "Write report", "date": "2025-06-01", "status": "In Progress", "priority": 2, "progress": 87.0, "assignees": ["ana"]}
		]
	}`)

	snapshot, err := store.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, snapshot.Accounts, 2)
	ana := snapshot.Accounts[0]
	assert.Equal(t, "ana@example.com", ana.Email)
	assert.Equal(t, "secret123", ana.Password)
	require.Len(t, ana.Tasks, 1)
	assert.Equal(t, "2025-06-01", ana.Tasks[0].EndDate)
	assert.Equal(t, 87, ana.Tasks[0].Progress)
	assert.Equal(t, 2, ana.Tasks[0].Priority)

	bo := snapshot.Accounts[1]
	assert.Equal(t, "bo@example.com", bo.Email)
	assert.NotNil(t, bo.Tasks)
	assert.Empty(t, bo.Tasks)
}

func TestLoad_LegacySaveWritesUnifiedShape(t *testing.T) {
	store, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "credentials.json"), `{"ana@example.com": "secret123"}`)
	writeFile(t, filepath.Join(dir, "tasks.json"), `{"ana@example.com": [{"name": "Write report", "date": "2025-06-01", "status": "Completed", "priority": 1, "progress": 100.0, "assignees": []}]}`)
	ctx := context.Background()

	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, snapshot))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"end_date": "2025-06-01"`)
	assert.Contains(t, string(data), `"progress": 100`)
	assert.NotContains(t, string(data), `"date"`)

	// The legacy documents are left in place.
	_, err = os.Stat(filepath.Join(dir, "credentials.json"))
	assert.NoError(t, err)

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, reloaded)
}

func TestLoad_LegacyProgressRoundingAndClamping(t *testing.T) {
	tests := []struct {
		name     string
		progress string
		expected int
	}{
		{"whole float", "87.0", 87},
		{"rounds half up", "42.5", 43},
		{"rounds down", "42.4", 42},
		{"clamps above", "120.0", 100},
		{"clamps below", "-3.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, dir := newTestStore(t)
			writeFile(t, filepath.Join(dir, "credentials.json"), `{"ana@example.com": "secret123"}`)
			writeFile(t, filepath.Join(dir, "tasks.json"), `{"ana@example.com": [{"name": "x", "date": "2025-01-01", "status": "Not Started", "priority": 1, "progress": `+tt.progress+`, "assignees": []}]}`)

			snapshot, err := store.Load(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.expected, snapshot.Accounts[0].Tasks[0].Progress)
		})
	}
}

func TestLoad_LegacyKeepsTasksWithoutCredentials(t *testing.T) {
	store, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "credentials.json"), `{"Ana@Example.com": "secret123"}`)
	writeFile(t, filepath.Join(dir, "tasks.json"), `{
		"ana@example.com": [{"name": "matched case-insensitively", "date": "2025-01-01", "status": "Not Started", "priority": 1, "progress": 0, "assignees": []}],
		"ghost@example.com": [{"name": "orphan", "date": "2025-01-01", "status": "Not Started", "priority": 1, "progress": 0, "assignees": []}]
	}`)

	snapshot, err := store.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, snapshot.Accounts, 2)
	assert.Equal(t, "Ana@Example.com", snapshot.Accounts[0].Email)
	assert.Len(t, snapshot.Accounts[0].Tasks, 1)
	assert.Equal(t, "ghost@example.com", snapshot.Accounts[1].Email)
	assert.Equal(t, "", snapshot.Accounts[1].Password)
	assert.Equal(t, "orphan", snapshot.Accounts[1].Tasks[0].Name)
}

func TestLoad_LegacyCredentialsOnly(t *testing.T) {
	store, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "credentials.json"), `{"ana@example.com": "secret123"}`)

	snapshot, err := store.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, snapshot.Accounts, 1)
	assert.Empty(t, snapshot.Accounts[0].Tasks)
}

func TestLoad_CorruptLegacyReturnsEmpty(t *testing.T) {
	store, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "credentials.json"), `{"ana@example.com": "secret123"}`)
	writeFile(t, filepath.Join(dir, "tasks.json"), `[oops`)

	snapshot, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, snapshot.Accounts)
}

func TestLoad_UnifiedWinsOverLegacy(t *testing.T) {
	store, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "credentials.json"), `{"legacy@example.com": "secret123"}`)
	writeFile(t, store.Path(), `{"accounts": [{"email": "current@example.com", "password": "secret123", "tasks": []}]}`)

	snapshot, err := store.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, snapshot.Accounts, 1)
	assert.Equal(t, "current@example.com", snapshot.Accounts[0].Email)
}
