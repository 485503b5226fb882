package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	apperrors "task-calendar/internal/errors"
	"task-calendar/internal/repository"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// taskRow is a task tagged with the email of the account that owns it.
type taskRow struct {
	AccountEmail string
	Task         repository.TaskRecord
}

// scanAccount reads (email, password).
func scanAccount(s scanner) (repository.AccountRecord, error) {
	account := repository.AccountRecord{Tasks: []repository.TaskRecord{}}
	err := s.Scan(&account.Email, &account.Password)
	return account, err
}

// scanTask reads (account_email, id, name, end_date, status, priority,
// progress, assignees).
func scanTask(s scanner) (taskRow, error) {
	var (
		row       taskRow
		assignees string
	)
	t := &row.Task
	if err := s.Scan(&row.AccountEmail, &t.ID, &t.Name, &t.EndDate, &t.Status, &t.Priority, &t.Progress, &assignees); err != nil {
		return taskRow{}, err
	}
	list, err := decodeAssignees(assignees)
	if err != nil {
		return taskRow{}, fmt.Errorf("task %s assignees: %w", t.ID, err)
	}
	t.Assignees = list
	return row, nil
}

// queryAll scans every row of query. what names the rows in error messages.
func queryAll[T any](ctx context.Context, db *sql.DB, what, query string, scan func(scanner) (T, error), args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("query "+what, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, apperrors.NewPersistenceError("scan "+what, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("read "+what, err)
	}
	return out, nil
}

// inTx commits when fn succeeds and rolls back otherwise.
func inTx(ctx context.Context, db *sql.DB, operation string, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewPersistenceError(operation, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			err = apperrors.NewPersistenceError(operation, err)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// The assignees column holds a JSON array of names.
func encodeAssignees(assignees []string) (string, error) {
	if assignees == nil {
		assignees = []string{}
	}
	data, err := json.Marshal(assignees)
	return string(data), err
}

func decodeAssignees(column string) ([]string, error) {
	var list []string
	if column != "" {
		if err := json.Unmarshal([]byte(column), &list); err != nil {
			return nil, err
		}
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}
