// Package sqlite stores the directory snapshot in a SQLite database. Every
// save rewrites all rows inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"task-calendar/internal/errors"
	"task-calendar/internal/logging"
	"task-calendar/internal/repository"
	"task-calendar/internal/repository/sqlite/migrations"
)

// SQLiteRepository implements repository.Store
type SQLiteRepository struct {
	db     *sql.DB
	logger logrus.FieldLogger
}

var _ repository.Store = (*SQLiteRepository)(nil)

// New opens (creating if needed) the database at dbPath and runs migrations.
// A nil logger discards output.
func New(ctx context.Context, dbPath string, logger logrus.FieldLogger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithField("store", "sqlite")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewPersistenceError("open database", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.NewPersistenceError("enable foreign keys", err)
	}

	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewPersistenceError("run migrations", err)
	}

	repo := &SQLiteRepository{db: db, logger: logger}
	if version, err := repo.schemaVersion(ctx); err == nil {
		logger.WithFields(logrus.Fields{"path": dbPath, "schema_version": version}).Debug("database opened")
	}
	return repo, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Load reads every account and task. Read failures are logged and yield an
// empty snapshot.
func (r *SQLiteRepository) Load(ctx context.Context) (*repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot, err := r.load(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("database unreadable, starting with an empty directory")
		return repository.EmptySnapshot(), nil
	}
	return snapshot, nil
}

func (r *SQLiteRepository) load(ctx context.Context) (*repository.Snapshot, error) {
	accounts, err := queryAll(ctx, r.db, "accounts",
		`SELECT email, password FROM accounts ORDER BY position`, scanAccount)
	if err != nil {
		return nil, err
	}
	tasks, err := queryAll(ctx, r.db, "tasks",
		`SELECT account_email, id, name, end_date, status, priority, progress, assignees
		FROM tasks ORDER BY account_email, position`, scanTask)
	if err != nil {
		return nil, err
	}

	owner := make(map[string]int, len(accounts))
	for i, account := range accounts {
		owner[account.Email] = i
	}
	for _, row := range tasks {
		i, ok := owner[row.AccountEmail]
		if !ok {
			return nil, fmt.Errorf("task %s belongs to unknown account %s", row.Task.ID, row.AccountEmail)
		}
		accounts[i].Tasks = append(accounts[i].Tasks, row.Task)
	}

	return (&repository.Snapshot{Accounts: accounts}).Normalize(), nil
}

// Save replaces every stored row with the snapshot in a single transaction
func (r *SQLiteRepository) Save(ctx context.Context, snapshot *repository.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return errors.NewPersistenceError("save snapshot", err)
	}
	if snapshot == nil {
		snapshot = repository.EmptySnapshot()
	}

	err := inTx(ctx, r.db, "save snapshot", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
			return fmt.Errorf("clear accounts: %w", err)
		}

		accountStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accounts (email, email_key, password, position)
		VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer accountStmt.Close()

		taskStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (account_email, position, id, name, end_date, status, priority, progress, assignees)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer taskStmt.Close()

		for position, account := range snapshot.Accounts {
			if _, err := accountStmt.ExecContext(ctx, account.Email, migrations.EmailKey(account.Email), account.Password, position); err != nil {
				return fmt.Errorf("insert account %s: %w", account.Email, err)
			}
			for taskPosition, task := range account.Tasks {
				assignees, err := encodeAssignees(task.Assignees)
				if err != nil {
					return err
				}
				if _, err := taskStmt.ExecContext(ctx, account.Email, taskPosition, task.ID, task.Name,
					task.EndDate, task.Status, task.Priority, task.Progress, assignees); err != nil {
					return fmt.Errorf("insert task %q: %w", task.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.WithField("accounts", len(snapshot.Accounts)).Debug("snapshot saved")
	return nil
}

// schemaVersion returns the highest applied migration
func (r *SQLiteRepository) schemaVersion(ctx context.Context) (int, error) {
	version, err := migrations.Version(ctx, r.db)
	if err != nil {
		return 0, errors.NewPersistenceError("read schema version", err)
	}
	return version, nil
}
