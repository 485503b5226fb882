package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"task-calendar/internal/domain"
	"task-calendar/internal/logging"
	"task-calendar/internal/repository"
)

// DirectoryStore owns the in-memory directory and keeps it in step with the
// durable snapshot. Mutations are serialized and each one is saved in full
// before it becomes visible.
type DirectoryStore struct {
	mu           sync.RWMutex
	store        repository.Store
	mapper       *domain.SnapshotMapper
	directory    *domain.Directory
	writeTimeout time.Duration
	logger       logrus.FieldLogger
}

// DirectoryOptions configures OpenDirectory
type DirectoryOptions struct {
	// WriteTimeout bounds each save. Zero means no extra deadline.
	WriteTimeout time.Duration
	Logger       logrus.FieldLogger
}

// OpenDirectory loads the snapshot from store. A missing or corrupt snapshot
// yields an empty directory. When load had to assign task IDs the snapshot is
// saved once so the IDs survive into the next process.
func OpenDirectory(ctx context.Context, store repository.Store, opts DirectoryOptions) (*DirectoryStore, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	mapper := domain.NewSnapshotMapper()
	directory := mapper.FromSnapshot(snapshot)
	logger.WithField("accounts", len(directory.Accounts)).Debug("directory loaded")

	d := &DirectoryStore{
		store:        store,
		mapper:       mapper,
		directory:    directory,
		writeTimeout: opts.WriteTimeout,
		logger:       logger,
	}
	if missing := snapshot.MissingTaskIDs(); missing > 0 {
		entry := logger.WithField("tasks", missing)
		if err := d.save(ctx, directory); err != nil {
			entry.WithError(err).Warn("assigned task IDs could not be saved")
		} else {
			entry.Info("assigned IDs to stored tasks")
		}
	}
	return d, nil
}

// Read runs fn under the read lock. fn must not retain or modify the
// directory.
func (d *DirectoryStore) Read(fn func(directory *domain.Directory) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return fn(d.directory)
}

// Update applies fn to a working copy of the directory and saves it. The
// copy replaces the live directory only when fn and the save both succeed,
// so a failed save leaves memory matching disk.
func (d *DirectoryStore) Update(ctx context.Context, fn func(directory *domain.Directory) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	working := d.directory.Clone()
	if err := fn(working); err != nil {
		return err
	}

	if err := d.save(ctx, working); err != nil {
		d.logger.WithError(err).Error("snapshot save failed, change discarded")
		return err
	}

	d.directory = working
	return nil
}

func (d *DirectoryStore) save(ctx context.Context, directory *domain.Directory) error {
	if d.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.writeTimeout)
		defer cancel()
	}
	return d.store.Save(ctx, d.mapper.ToSnapshot(directory))
}

// Snapshot returns the current directory in stored form
func (d *DirectoryStore) Snapshot() *repository.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mapper.ToSnapshot(d.directory)
}

// Close releases the underlying store
func (d *DirectoryStore) Close() error {
	return d.store.Close()
}
