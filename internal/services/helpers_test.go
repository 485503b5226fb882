package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"task-calendar/internal/config"
	"task-calendar/internal/domain"
	"task-calendar/internal/repository"
)

// memoryStore is an in-process repository.Store that can be told to fail saves
type memoryStore struct {
	mu       sync.Mutex
	data     []byte
	saveErr  error
	saves    int
	loadErr  error
	isClosed bool
}

func (m *memoryStore) Load(ctx context.Context) (*repository.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.data == nil {
		return repository.EmptySnapshot(), nil
	}
	var snapshot repository.Snapshot
	if err := json.Unmarshal(m.data, &snapshot); err != nil {
		return nil, err
	}
	return snapshot.Normalize(), nil
}

func (m *memoryStore) Save(ctx context.Context, snapshot *repository.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

func (m *memoryStore) Close() error {
	m.isClosed = true
	return nil
}

func (m *memoryStore) failSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *memoryStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var errDiskFull = errors.New("disk full")

func setupServices(t *testing.T) (*ServiceContainer, *memoryStore) {
	t.Helper()
	return setupServicesWithConfig(t, config.NewConfig())
}

func setupServicesWithConfig(t *testing.T, cfg *config.Config) (*ServiceContainer, *memoryStore) {
	t.Helper()
	store := &memoryStore{}
	container, err := NewServiceContainer(context.Background(), store, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })
	return container, store
}

// loggedIn signs up a fresh account and returns its session
func loggedIn(t *testing.T, container *ServiceContainer, email string) domain.Session {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, container.AccountService.Signup(ctx, email, "secret123"))
	session, err := container.AccountService.Login(ctx, email, "secret123")
	require.NoError(t, err)
	return session
}

func rawTask(name string, priority string) domain.RawTask {
	return domain.RawTask{
		Name:      name,
		EndDate:   "2025-06-01",
		Status:    "In Progress",
		Priority:  priority,
		Progress:  "40",
		Assignees: []string{"ana", "bo"},
	}
}
