package migrations

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

//go:embed *.sql
var sqlFiles embed.FS

// Step is one schema change. File-based steps carry SQL text, registered
// steps carry Go functions for changes SQLite cannot express on its own.
type Step struct {
	Version int
	UpSQL   string
	DownSQL string
	Up      func(tx *sql.Tx) error
	Down    func(tx *sql.Tx) error
}

var registered = map[int]Step{}

// Register adds a Go step from an init function. Registering a version twice
// panics.
func Register(version int, up, down func(tx *sql.Tx) error) {
	if _, dup := registered[version]; dup {
		panic(fmt.Sprintf("migration %d registered twice", version))
	}
	registered[version] = Step{Version: version, Up: up, Down: down}
}

const versionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// Run brings db up to the newest schema. Each step runs in its own
// transaction together with its bookkeeping row.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, versionTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	steps, err := allSteps()
	if err != nil {
		return err
	}
	done, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	for _, step := range steps {
		if done[step.Version] {
			continue
		}
		if err := apply(ctx, db, step); err != nil {
			return fmt.Errorf("migration %d: %w", step.Version, err)
		}
	}
	return nil
}

// Version is the newest applied step, 0 for an empty database.
func Version(ctx context.Context, db *sql.DB) (int, error) {
	var v sql.NullInt64
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&v)
	return int(v.Int64), err
}

func allSteps() ([]Step, error) {
	entries, err := sqlFiles.ReadDir(".")
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(entries)/2+len(registered))
	for _, entry := range entries {
		base, ok := strings.CutSuffix(entry.Name(), ".up.sql")
		if !ok {
			continue
		}
		version := parseVersion(base)
		if version == 0 {
			continue
		}
		if _, clash := registered[version]; clash {
			return nil, fmt.Errorf("migration %d defined in both SQL and Go", version)
		}
		up, err := sqlFiles.ReadFile(entry.Name())
		if err != nil {
			return nil, err
		}
		down, err := sqlFiles.ReadFile(base + ".down.sql")
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Version: version, UpSQL: string(up), DownSQL: string(down)})
	}
	for _, step := range registered {
		steps = append(steps, step)
	}

	slices.SortFunc(steps, func(a, b Step) int { return cmp.Compare(a.Version, b.Version) })
	return steps, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	done := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		done[v] = true
	}
	return done, rows.Err()
}

func apply(ctx context.Context, db *sql.DB, step Step) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if step.Up != nil {
		err = step.Up(tx)
	} else {
		_, err = tx.ExecContext(ctx, step.UpSQL)
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, step.Version); err != nil {
		return err
	}
	return tx.Commit()
}

// parseVersion reads the numeric prefix of names like "000001_init".
func parseVersion(name string) int {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return v
}
