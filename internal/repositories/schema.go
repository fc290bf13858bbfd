package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id          BIGSERIAL PRIMARY KEY,
		creator_id  BIGINT       NOT NULL DEFAULT 0,
		title       VARCHAR(255) NOT NULL,
		description TEXT         NOT NULL DEFAULT '',
		status      VARCHAR(20)  NOT NULL DEFAULT 'new'
			CHECK (status IN ('new','in_progress','pending','blocked','done')),
		deadline    TIMESTAMPTZ  NOT NULL,
		created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_deadline ON tasks (deadline)`,
	`CREATE TABLE IF NOT EXISTS subtasks (
		id          BIGSERIAL PRIMARY KEY,
		task_id     BIGINT       NULL REFERENCES tasks (id) ON DELETE SET NULL,
		title       VARCHAR(255) NOT NULL,
		description TEXT         NOT NULL DEFAULT '',
		status      VARCHAR(20)  NOT NULL DEFAULT 'new'
			CHECK (status IN ('new','in_progress','pending','blocked','done')),
		deadline    TIMESTAMPTZ  NOT NULL,
		created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subtasks_task_id ON subtasks (task_id)`,
}

// EnsureSchema creates the tables if they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
