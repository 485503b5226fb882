package jsonfile

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"

	"task-calendar/internal/repository"
)

// legacyTask is a task as stored by the split-document layout: the due date
// is under "date" and progress is a float.
type legacyTask struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Date      string   `json:"date"`
	EndDate   string   `json:"end_date"`
	Status    string   `json:"status"`
	Priority  float64  `json:"priority"`
	Progress  float64  `json:"progress"`
	Assignees []string `json:"assignees"`
}

// loadLegacy merges the credentials document (email -> password) with the
// tasks document (email -> tasks). found is false when the credentials
// document does not exist. Emails are matched case-insensitively; tasks
// filed under an email without credentials are kept under an account with
// an empty password rather than dropped.
func loadLegacy(credentialsPath, tasksPath string) (*repository.Snapshot, bool, error) {
	credentialData, err := os.ReadFile(credentialsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read legacy credentials: %w", err)
	}

	var credentials map[string]string
	if err := json.Unmarshal(jsonc.ToJSON(credentialData), &credentials); err != nil {
		return nil, false, fmt.Errorf("parse legacy credentials: %w", err)
	}

	tasksByEmail := map[string][]legacyTask{}
	if tasksPath != "" {
		taskData, err := os.ReadFile(tasksPath)
		switch {
		case err == nil:
			if err := json.Unmarshal(jsonc.ToJSON(taskData), &tasksByEmail); err != nil {
				return nil, false, fmt.Errorf("parse legacy tasks: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, false, fmt.Errorf("read legacy tasks: %w", err)
		}
	}

	accounts := map[string]*repository.AccountRecord{}
	var order []string
	account := func(email string) *repository.AccountRecord {
		key := strings.ToLower(email)
		if existing, ok := accounts[key]; ok {
			return existing
		}
		record := &repository.AccountRecord{Email: email, Tasks: []repository.TaskRecord{}}
		accounts[key] = record
		order = append(order, key)
		return record
	}

	for _, email := range sortedKeys(credentials) {
		account(email).Password = credentials[email]
	}
	for _, email := range sortedKeys(tasksByEmail) {
		record := account(email)
		for _, task := range tasksByEmail[email] {
			record.Tasks = append(record.Tasks, convertLegacyTask(task))
		}
	}

	sort.Strings(order)
	snapshot := &repository.Snapshot{Accounts: make([]repository.AccountRecord, 0, len(order))}
	for _, key := range order {
		snapshot.Accounts = append(snapshot.Accounts, *accounts[key])
	}
	return snapshot, true, nil
}

func convertLegacyTask(task legacyTask) repository.TaskRecord {
	endDate := task.EndDate
	if endDate == "" {
		endDate = task.Date
	}
	progress := int(math.Round(task.Progress))
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return repository.TaskRecord{
		ID:        task.ID,
		Name:      task.Name,
		EndDate:   endDate,
		Status:    task.Status,
		Priority:  int(math.Round(task.Priority)),
		Progress:  progress,
		Assignees: task.Assignees,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
