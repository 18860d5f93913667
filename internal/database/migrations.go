package database

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist. Statements are
// idempotent so startup can always run them.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			default_group_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS groups (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (group_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS subgroups (
			id TEXT PRIMARY KEY,
			group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS subgroup_members (
			subgroup_id TEXT NOT NULL REFERENCES subgroups(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			PRIMARY KEY (subgroup_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS bills (
			id TEXT PRIMARY KEY,
			group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			raw_markdown TEXT,
			total_amount BIGINT NOT NULL,
			created_by TEXT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS bill_items (
			id TEXT PRIMARY KEY,
			bill_id TEXT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
			description TEXT NOT NULL,
			quantity INT,
			amount BIGINT NOT NULL CHECK (amount > 0),
			paid_by TEXT NOT NULL REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS bill_item_assignees (
			item_id TEXT NOT NULL REFERENCES bill_items(id) ON DELETE CASCADE,
			assignee_id TEXT NOT NULL,
			position INT NOT NULL,
			PRIMARY KEY (item_id, assignee_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bills_group ON bills(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bill_items_bill ON bill_items(bill_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
