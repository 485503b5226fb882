// Package jsonfile stores the directory snapshot as a single JSON document,
// replaced atomically on every save.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/jsonc"

	"task-calendar/internal/errors"
	"task-calendar/internal/logging"
	"task-calendar/internal/repository"
)

const filePermissions = 0600

// Options configures a Store
type Options struct {
	// Path of the unified snapshot document.
	Path string
	// Paths of the split legacy documents (email -> password and
	// email -> tasks). Consulted only when Path does not exist.
	LegacyCredentialsPath string
	LegacyTasksPath       string
	DirPermissions        os.FileMode
	Logger                logrus.FieldLogger
}

// Store implements repository.Store on top of a JSON file
type Store struct {
	opts   Options
	logger logrus.FieldLogger
}

// New creates a JSON file store. Nothing is read or written until Load or Save.
func New(opts Options) *Store {
	if opts.DirPermissions == 0 {
		opts.DirPermissions = 0755
	}
	var logger logrus.FieldLogger = logging.Discard()
	if opts.Logger != nil {
		logger = opts.Logger
	}
	return &Store{
		opts:   opts,
		logger: logger.WithField("store", "jsonfile"),
	}
}

// Path returns the unified snapshot path
func (s *Store) Path() string {
	return s.opts.Path
}

// Load reads the snapshot. A missing file falls back to the legacy split
// documents; an unreadable or corrupt file yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (*repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.opts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.loadLegacyOrEmpty(), nil
		}
		s.logger.WithError(err).WithField("path", s.opts.Path).Warn("snapshot unreadable, starting with an empty directory")
		return repository.EmptySnapshot(), nil
	}

	snapshot, err := decodeUnified(data)
	if err != nil {
		s.logger.WithError(err).WithField("path", s.opts.Path).Warn("snapshot corrupt, starting with an empty directory")
		return repository.EmptySnapshot(), nil
	}
	return snapshot.Normalize(), nil
}

func (s *Store) loadLegacyOrEmpty() *repository.Snapshot {
	if s.opts.LegacyCredentialsPath == "" {
		return repository.EmptySnapshot()
	}
	snapshot, found, err := loadLegacy(s.opts.LegacyCredentialsPath, s.opts.LegacyTasksPath)
	if err != nil {
		s.logger.WithError(err).Warn("legacy snapshot unreadable, starting with an empty directory")
		return repository.EmptySnapshot()
	}
	if !found {
		return repository.EmptySnapshot()
	}
	s.logger.WithField("accounts", len(snapshot.Accounts)).Info("loaded legacy split snapshot")
	return snapshot.Normalize()
}

// unifiedDocument accepts both the current "accounts" key and the "users"
// key written by earlier versions.
type unifiedDocument struct {
	Accounts *[]repository.AccountRecord `json:"accounts"`
	Users    *[]repository.AccountRecord `json:"users"`
}

func decodeUnified(data []byte) (*repository.Snapshot, error) {
	var doc unifiedDocument
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	switch {
	case doc.Accounts != nil:
		return &repository.Snapshot{Accounts: *doc.Accounts}, nil
	case doc.Users != nil:
		return &repository.Snapshot{Accounts: *doc.Users}, nil
	default:
		return nil, fmt.Errorf("parse snapshot: no top-level accounts key")
	}
}

// Save writes the snapshot to a temporary file in the target directory,
// syncs it and renames it over the previous snapshot.
func (s *Store) Save(ctx context.Context, snapshot *repository.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return errors.NewPersistenceError("save snapshot", err)
	}
	if snapshot == nil {
		snapshot = repository.EmptySnapshot()
	}

	data, err := json.MarshalIndent(snapshot.Normalize(), "", "    ")
	if err != nil {
		return errors.NewPersistenceError("encode snapshot", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.opts.Path)
	if err := os.MkdirAll(dir, s.opts.DirPermissions); err != nil {
		return errors.NewPersistenceError("create data directory", err)
	}

	if err := writeFileAtomic(s.opts.Path, data); err != nil {
		return errors.NewPersistenceError("write snapshot", err)
	}

	s.logger.WithField("accounts", len(snapshot.Accounts)).Debug("snapshot saved")
	return nil
}

// Close is a no-op; the store holds no open handles between calls
func (s *Store) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	file, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary snapshot file: %w", err)
	}
	temporaryPath := file.Name()

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary snapshot file: %w", err)
	}
	if err := file.Chmod(filePermissions); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("setting snapshot permissions: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary snapshot file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary snapshot file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming snapshot into place: %w", err)
	}

	// The rename is only durable once the directory entry is flushed.
	if parent, err := os.Open(dir); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}
