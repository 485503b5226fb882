package domain

import (
	"task-calendar/internal/repository"
)

// SnapshotMapper handles conversion between the domain directory and stored
// snapshot records. Records read from storage are normalized on the way in
// so every domain invariant holds after load.
type SnapshotMapper struct {
	newID func() string
}

// NewSnapshotMapper creates a new SnapshotMapper instance.
func NewSnapshotMapper() *SnapshotMapper {
	return &SnapshotMapper{newID: NewTaskID}
}

// ToRecord converts a domain Task to a stored TaskRecord.
func (m *SnapshotMapper) ToRecord(task Task) repository.TaskRecord {
	assignees := task.Assignees
	if assignees == nil {
		assignees = []string{}
	}
	return repository.TaskRecord{
		ID:        task.ID,
		Name:      task.Name,
		EndDate:   task.EndDate,
		Status:    task.Status.String(),
		Priority:  task.Priority,
		Progress:  task.Progress,
		Assignees: append([]string{}, assignees...),
	}
}

// FromRecord converts a stored TaskRecord to a domain Task. Known status
// spellings are canonicalized and unknown ones kept verbatim. A missing ID is
// assigned, progress is clamped and assignees are deduplicated. Stored
// progress is otherwise kept as is, even for completed tasks.
func (m *SnapshotMapper) FromRecord(record repository.TaskRecord) Task {
	id := record.ID
	if id == "" {
		id = m.newID()
	}
	return Task{
		ID:        id,
		Name:      record.Name,
		EndDate:   record.EndDate,
		Status:    StatusFromLabel(record.Status),
		Priority:  record.Priority,
		Progress:  clampProgress(record.Progress),
		Assignees: NormalizeAssignees(record.Assignees),
	}
}

// ToSnapshot converts a domain Directory to a snapshot.
func (m *SnapshotMapper) ToSnapshot(directory *Directory) *repository.Snapshot {
	snapshot := repository.EmptySnapshot()
	if directory == nil {
		return snapshot
	}
	for _, account := range directory.Accounts {
		record := repository.AccountRecord{
			Email:    account.Email,
			Password: account.Password,
			Tasks:    make([]repository.TaskRecord, len(account.Tasks)),
		}
		for i, task := range account.Tasks {
			record.Tasks[i] = m.ToRecord(task)
		}
		snapshot.Accounts = append(snapshot.Accounts, record)
	}
	return snapshot
}

// FromSnapshot converts a snapshot to a domain Directory. When two stored
// accounts share a case-folded email the first wins and the later one's tasks
// are appended to it.
func (m *SnapshotMapper) FromSnapshot(snapshot *repository.Snapshot) *Directory {
	directory := NewDirectory()
	if snapshot == nil {
		return directory
	}
	for _, record := range snapshot.Accounts {
		tasks := make([]Task, len(record.Tasks))
		for i, taskRecord := range record.Tasks {
			tasks[i] = m.FromRecord(taskRecord)
		}
		if existing := directory.Find(record.Email); existing != nil {
			existing.Tasks = append(existing.Tasks, tasks...)
			continue
		}
		directory.Add(&Account{
			Email:    record.Email,
			Password: record.Password,
			Tasks:    tasks,
		})
	}
	return directory
}

func clampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > MaxProgress {
		return MaxProgress
	}
	return progress
}
