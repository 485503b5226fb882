// Package repository defines the durable snapshot model shared by the store
// backends. Records mirror the on-disk document; the domain package maps them
// to and from its own types.
package repository

import "context"

// Snapshot is the complete serialized directory: every account and its tasks
type Snapshot struct {
	Accounts []AccountRecord `json:"accounts"`
}

// AccountRecord is one account as stored
type AccountRecord struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Tasks    []TaskRecord `json:"tasks"`
}

// TaskRecord is one task as stored. ID is omitted by snapshots written
// before tasks carried identifiers.
type TaskRecord struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	EndDate   string   `json:"end_date"`
	Status    string   `json:"status"`
	Priority  int      `json:"priority"`
	Progress  int      `json:"progress"`
	Assignees []string `json:"assignees"`
}

// Store loads and saves whole snapshots.
//
// Load is fail-soft: a missing or unreadable snapshot yields an empty one and
// a nil error. Save replaces the stored snapshot atomically and reports every
// failure.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// EmptySnapshot returns a snapshot with no accounts
func EmptySnapshot() *Snapshot {
	return &Snapshot{Accounts: []AccountRecord{}}
}

// Normalize replaces nil slices with empty ones so the snapshot serializes
// as [] rather than null. It returns the same snapshot.
func (s *Snapshot) Normalize() *Snapshot {
	if s.Accounts == nil {
		s.Accounts = []AccountRecord{}
	}
	for i := range s.Accounts {
		if s.Accounts[i].Tasks == nil {
			s.Accounts[i].Tasks = []TaskRecord{}
		}
		for j := range s.Accounts[i].Tasks {
			if s.Accounts[i].Tasks[j].Assignees == nil {
				s.Accounts[i].Tasks[j].Assignees = []string{}
			}
		}
	}
	return s
}

// MissingTaskIDs counts task records stored without an identifier
func (s *Snapshot) MissingTaskIDs() int {
	if s == nil {
		return 0
	}
	missing := 0
	for _, account := range s.Accounts {
		for _, task := range account.Tasks {
			if task.ID == "" {
				missing++
			}
		}
	}
	return missing
}
