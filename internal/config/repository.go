package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"task-calendar/internal/repository"
	"task-calendar/internal/repository/jsonfile"
	"task-calendar/internal/repository/sqlite"
)

// CreateStore creates the snapshot store selected by the configuration
func CreateStore(ctx context.Context, config *Config, logger logrus.FieldLogger) (repository.Store, error) {
	switch config.Store.Backend {
	case BackendSQLite:
		if err := os.MkdirAll(config.Store.Dir, os.FileMode(config.Store.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := sqlite.New(ctx, config.GetSQLitePath(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return store, nil
	case BackendJSON, "":
		return jsonfile.New(jsonfile.Options{
			Path:                  config.GetSnapshotPath(),
			LegacyCredentialsPath: filepath.Join(config.Store.Dir, config.Store.LegacyCredentialsFilename),
			LegacyTasksPath:       filepath.Join(config.Store.Dir, config.Store.LegacyTasksFilename),
			DirPermissions:        os.FileMode(config.Store.DirPermissions),
			Logger:                logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", config.Store.Backend)
	}
}
