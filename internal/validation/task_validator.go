package validation

import (
	"fmt"
	"strings"

	"task-calendar/internal/config"
	"task-calendar/internal/domain"
	apperrors "task-calendar/internal/errors"
)

// TaskValidator turns submitted task fields into a domain.Task
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateTaskFields checks every field and reports all problems together.
// The returned task has no ID; completed tasks get full progress.
func (tv *TaskValidator) ValidateTaskFields(raw domain.RawTask) (domain.Task, error) {
	validationError := NewValidationError()
	task := domain.Task{}

	task.Name = strings.TrimSpace(raw.Name)
	if !tv.validator.IsNonEmptyString(task.Name) {
		validationError.Required(FieldName)
	} else if !tv.validator.IsValidTaskNameLength(task.Name) {
		validationError.TooLong(FieldName, task.Name, tv.validator.getTaskNameMaxLength())
	}

	task.EndDate = strings.TrimSpace(raw.EndDate)
	if task.EndDate == "" {
		validationError.Required(FieldEndDate)
	} else if !tv.validator.IsValidDate(task.EndDate) {
		validationError.BadFormat(FieldEndDate, raw.EndDate, "YYYY-MM-DD")
	}

	statusInput := strings.TrimSpace(raw.Status)
	if statusInput == "" {
		validationError.Required(FieldStatus)
	} else if status, ok := domain.ParseStatus(statusInput); ok {
		task.Status = status
	} else {
		validationError.NotAllowed(FieldStatus, raw.Status, fmt.Sprintf("must be one of %q, %q or %q",
			domain.StatusNotStarted, domain.StatusInProgress, domain.StatusCompleted))
	}

	if priority, ok := tv.validator.ParseInt(raw.Priority); ok {
		task.Priority = priority
	} else {
		validationError.BadFormat(FieldPriority, raw.Priority, "integer")
	}

	if progress, ok := tv.validator.ParseInt(raw.Progress); !ok {
		validationError.BadFormat(FieldProgress, raw.Progress, "integer")
	} else if !tv.validator.IsValidProgress(progress) {
		validationError.OutOfRange(FieldProgress, progress, "must be between 0 and 100")
	} else {
		task.Progress = progress
	}

	task.Assignees = domain.NormalizeAssignees(raw.Assignees)
	if max := tv.validator.getMaxAssignees(); len(task.Assignees) > max {
		validationError.TooMany(FieldAssignees, task.Assignees, len(task.Assignees), max)
	}

	if validationError.HasErrors() {
		return domain.Task{}, apperrors.NewValidationError(validationError.GetUserFriendlyMessage(), validationError)
	}

	task.EnforceCompletion()
	return task, nil
}
