package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"task-calendar/internal/domain"
	"task-calendar/internal/errors"
	"task-calendar/internal/validation"
)

type taskServiceImpl struct {
	directory     *DirectoryStore
	taskValidator *validation.TaskValidator
	logger        logrus.FieldLogger
}

// NewTaskService builds the task operations over a shared directory.
func NewTaskService(directory *DirectoryStore, taskValidator *validation.TaskValidator, logger logrus.FieldLogger) TaskService {
	return &taskServiceImpl{
		directory:     directory,
		taskValidator: taskValidator,
		logger:        logger,
	}
}

// accountFor resolves the session's account
func accountFor(directory *domain.Directory, session domain.Session) (*domain.Account, error) {
	if session.IsZero() {
		return nil, errors.ErrNotLoggedIn
	}
	account := directory.Find(session.Email)
	if account == nil {
		return nil, errors.NewAuthError(errors.ErrNotLoggedIn, session.Email)
	}
	return account, nil
}

// CreateTask validates raw and appends it to the account with a new ID
func (t *taskServiceImpl) CreateTask(ctx context.Context, session domain.Session, raw domain.RawTask) (*domain.Task, error) {
	var created domain.Task
	err := t.directory.Update(ctx, func(directory *domain.Directory) error {
		account, err := accountFor(directory, session)
		if err != nil {
			return err
		}

		task, err := t.taskValidator.ValidateTaskFields(raw)
		if err != nil {
			return err
		}
		task.ID = domain.NewTaskID()
		task.EnforceCompletion()

		account.Tasks = append(account.Tasks, task)
		created = task.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.logger.WithFields(logrus.Fields{"email": session.Email, "task_id": created.ID}).Debug("task created")
	return &created, nil
}

// EditTask replaces the task with the given ID. The ID is preserved.
func (t *taskServiceImpl) EditTask(ctx context.Context, session domain.Session, id string, raw domain.RawTask) (*domain.Task, error) {
	return t.replace(ctx, session, raw, func(account *domain.Account) (int, error) {
		index := account.TaskIndex(id)
		if index < 0 {
			return 0, errors.NewTaskNotFoundError(id)
		}
		return index, nil
	})
}

// EditTaskAt replaces the task at a zero-based position in creation order
func (t *taskServiceImpl) EditTaskAt(ctx context.Context, session domain.Session, index int, raw domain.RawTask) (*domain.Task, error) {
	return t.replace(ctx, session, raw, func(account *domain.Account) (int, error) {
		if index < 0 || index >= len(account.Tasks) {
			return 0, errors.NewIndexOutOfRangeError(index, len(account.Tasks))
		}
		return index, nil
	})
}

func (t *taskServiceImpl) replace(ctx context.Context, session domain.Session, raw domain.RawTask, locate func(*domain.Account) (int, error)) (*domain.Task, error) {
	var updated domain.Task
	err := t.directory.Update(ctx, func(directory *domain.Directory) error {
		account, err := accountFor(directory, session)
		if err != nil {
			return err
		}
		index, err := locate(account)
		if err != nil {
			return err
		}

		task, err := t.taskValidator.ValidateTaskFields(raw)
		if err != nil {
			return err
		}
		task.ID = account.Tasks[index].ID
		task.EnforceCompletion()

		account.Tasks[index] = task
		updated = task.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.logger.WithFields(logrus.Fields{"email": session.Email, "task_id": updated.ID}).Debug("task edited")
	return &updated, nil
}

// ListTasks returns a copy of the account's tasks in creation order
func (t *taskServiceImpl) ListTasks(ctx context.Context, session domain.Session) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var tasks []domain.Task
	err := t.directory.Read(func(directory *domain.Directory) error {
		account, err := accountFor(directory, session)
		if err != nil {
			return err
		}
		tasks = domain.CloneTasks(account.Tasks)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a copy of one task
func (t *taskServiceImpl) GetTask(ctx context.Context, session domain.Session, id string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var found domain.Task
	err := t.directory.Read(func(directory *domain.Directory) error {
		account, err := accountFor(directory, session)
		if err != nil {
			return err
		}
		index := account.TaskIndex(id)
		if index < 0 {
			return errors.NewTaskNotFoundError(id)
		}
		found = account.Tasks[index].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}
