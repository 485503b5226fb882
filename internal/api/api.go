package api

import (
	"context"

	"github.com/sirupsen/logrus"

	"task-calendar/internal/config"
	"task-calendar/internal/domain"
	"task-calendar/internal/services"
)

// API is the contract the presentation layer programs against. Every
// task operation is scoped to the Session returned by Login.
type API interface {
	// Account operations
	Signup(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (domain.Session, error)

	// Task operations
	CreateTask(ctx context.Context, session domain.Session, raw domain.RawTask) (*domain.Task, error)
	EditTask(ctx context.Context, session domain.Session, id string, raw domain.RawTask) (*domain.Task, error)
	EditTaskAt(ctx context.Context, session domain.Session, index int, raw domain.RawTask) (*domain.Task, error)
	ListTasks(ctx context.Context, session domain.Session) ([]domain.Task, error)
	GetTask(ctx context.Context, session domain.Session, id string) (*domain.Task, error)

	// Query filters the session's tasks and orders them by priority
	Query(ctx context.Context, session domain.Session, criteria domain.Criteria) (*services.QueryResult, error)

	Close() error
}

type apiImpl struct {
	container *services.ServiceContainer
}

// New creates an API over an already wired service container
func New(container *services.ServiceContainer) API {
	return &apiImpl{container: container}
}

// Open builds the configured store, loads the directory and returns an API
// over it. The caller owns the result and must Close it.
func Open(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (API, error) {
	store, err := config.CreateStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	container, err := services.NewServiceContainer(ctx, store, cfg, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return New(container), nil
}

func (a *apiImpl) Signup(ctx context.Context, email, password string) error {
	return a.container.AccountService.Signup(ctx, email, password)
}

func (a *apiImpl) Login(ctx context.Context, email, password string) (domain.Session, error) {
	return a.container.AccountService.Login(ctx, email, password)
}

func (a *apiImpl) CreateTask(ctx context.Context, session domain.Session, raw domain.RawTask) (*domain.Task, error) {
	return a.container.TaskService.CreateTask(ctx, session, raw)
}

func (a *apiImpl) EditTask(ctx context.Context, session domain.Session, id string, raw domain.RawTask) (*domain.Task, error) {
	return a.container.TaskService.EditTask(ctx, session, id, raw)
}

func (a *apiImpl) EditTaskAt(ctx context.Context, session domain.Session, index int, raw domain.RawTask) (*domain.Task, error) {
	return a.container.TaskService.EditTaskAt(ctx, session, index, raw)
}

func (a *apiImpl) ListTasks(ctx context.Context, session domain.Session) ([]domain.Task, error) {
	return a.container.TaskService.ListTasks(ctx, session)
}

func (a *apiImpl) GetTask(ctx context.Context, session domain.Session, id string) (*domain.Task, error) {
	return a.container.TaskService.GetTask(ctx, session, id)
}

func (a *apiImpl) Query(ctx context.Context, session domain.Session, criteria domain.Criteria) (*services.QueryResult, error) {
	return a.container.QueryService.Query(ctx, session, criteria)
}

func (a *apiImpl) Close() error {
	return a.container.Close()
}
