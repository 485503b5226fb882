package migrations

import (
	"database/sql"
	"fmt"
	"strings"
)

func init() {
	Register(2, addEmailKey, dropEmailKey)
}

// EmailKey is the stored case-folded form of an account email.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// addEmailKey backs case-insensitive email uniqueness. SQLite's lower() only
// folds ASCII, so existing rows are keyed from Go.
func addEmailKey(tx *sql.Tx) error {
	if _, err := tx.Exec(`ALTER TABLE accounts ADD COLUMN email_key TEXT NOT NULL DEFAULT ''`); err != nil {
		return fmt.Errorf("add email_key: %w", err)
	}

	emails, err := existingEmails(tx)
	if err != nil {
		return err
	}

	update, err := tx.Prepare(`UPDATE accounts SET email_key = ? WHERE email = ?`)
	if err != nil {
		return err
	}
	defer update.Close()
	for _, email := range emails {
		if _, err := update.Exec(EmailKey(email), email); err != nil {
			return fmt.Errorf("key %s: %w", email, err)
		}
	}

	_, err = tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email_key ON accounts(email_key)`)
	return err
}

// existingEmails drains the cursor before any UPDATE runs on the same
// connection.
func existingEmails(tx *sql.Tx) ([]string, error) {
	rows, err := tx.Query(`SELECT email FROM accounts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func dropEmailKey(tx *sql.Tx) error {
	if _, err := tx.Exec(`DROP INDEX IF EXISTS idx_accounts_email_key`); err != nil {
		return err
	}
	_, err := tx.Exec(`ALTER TABLE accounts DROP COLUMN email_key`)
	return err
}
