package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used for task end dates.
const DateLayout = "2006-01-02"

// MaxProgress is the progress value of a finished task.
const MaxProgress = 100

// Task represents a tracked task in the domain model.
// This is a pure domain model without storage-specific concerns.
type Task struct {
	ID        string
	Name      string
	EndDate   string
	Status    Status
	Priority  int
	Progress  int
	Assignees []string
}

// NewTaskID returns a fresh immutable task identifier.
func NewTaskID() string {
	return uuid.NewString()
}

// Due parses the task's end date.
func (t Task) Due() (time.Time, error) {
	return ParseDate(t.EndDate)
}

// EnforceCompletion coerces progress to 100 for completed tasks.
func (t *Task) EnforceCompletion() {
	if t.Status == StatusCompleted {
		t.Progress = MaxProgress
	}
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	clone := t
	if t.Assignees != nil {
		clone.Assignees = append([]string(nil), t.Assignees...)
	}
	return clone
}

// String returns the task name for display purposes.
func (t Task) String() string {
	return t.Name
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// CloneTasks deep-copies a task slice. The result is never nil.
func CloneTasks(tasks []Task) []Task {
	clones := make([]Task, len(tasks))
	for i, task := range tasks {
		clones[i] = task.Clone()
	}
	return clones
}
