package services

import (
	"context"

	"task-calendar/internal/domain"
)

// NoResultsMessage is shown when a query matches no tasks
const NoResultsMessage = "No tasks match the selected criteria."

// QueryResult is a filtered, priority-ordered view of an account's tasks
type QueryResult struct {
	Tasks    []domain.Task   `json:"tasks"`
	Criteria domain.Criteria `json:"criteria"`
	// NoResults is informational; an empty result is not an error.
	NoResults bool `json:"no_results"`
}

// AccountService handles signup and login
type AccountService interface {
	Signup(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (domain.Session, error)
}

// TaskService handles the task collection of the session's account
type TaskService interface {
	CreateTask(ctx context.Context, session domain.Session, raw domain.RawTask) (*domain.Task, error)
	EditTask(ctx context.Context, session domain.Session, id string, raw domain.RawTask) (*domain.Task, error)
	EditTaskAt(ctx context.Context, session domain.Session, index int, raw domain.RawTask) (*domain.Task, error)
	ListTasks(ctx context.Context, session domain.Session) ([]domain.Task, error)
	GetTask(ctx context.Context, session domain.Session, id string) (*domain.Task, error)
}

// QueryService filters and orders tasks
type QueryService interface {
	// Pure operations
	SortByPriority(tasks []domain.Task) []domain.Task
	Filter(tasks []domain.Task, criteria domain.Criteria) []domain.Task

	// Query filters the session's tasks and orders them by priority
	Query(ctx context.Context, session domain.Session, criteria domain.Criteria) (*QueryResult, error)
}
