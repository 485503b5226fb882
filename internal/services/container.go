package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"task-calendar/internal/config"
	"task-calendar/internal/credentials"
	"task-calendar/internal/logging"
	"task-calendar/internal/repository"
	"task-calendar/internal/validation"
)

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Directory      *DirectoryStore
	AccountService AccountService
	TaskService    TaskService
	QueryService   QueryService
}

// NewServiceContainer loads the directory from store and wires the services.
// A nil cfg uses defaults and a nil logger discards output.
func NewServiceContainer(ctx context.Context, store repository.Store, cfg *config.Config, logger logrus.FieldLogger) (*ServiceContainer, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	directory, err := OpenDirectory(ctx, store, DirectoryOptions{
		WriteTimeout: cfg.WriteTimeout(),
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	taskService := NewTaskService(directory, validation.NewTaskValidatorWithConfig(cfg), logger.WithField("service", "task"))
	return &ServiceContainer{
		Directory: directory,
		AccountService: NewAccountService(
			directory,
			validation.NewAccountValidatorWithConfig(cfg),
			credentials.NewHasher(cfg),
			logger.WithField("service", "account"),
		),
		TaskService:  taskService,
		QueryService: NewQueryService(taskService),
	}, nil
}

// Close releases the underlying store
func (c *ServiceContainer) Close() error {
	return c.Directory.Close()
}
