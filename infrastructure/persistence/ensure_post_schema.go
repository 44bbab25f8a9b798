package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsurePostSchema creates the scheduled_posts table if it is missing.
// Safe to call at startup.
func EnsurePostSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := `CREATE TABLE IF NOT EXISTS scheduled_posts (
		id SERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		is_thread BOOLEAN NOT NULL DEFAULT FALSE,
		thread_parts TEXT[],
		media BYTEA,
		media_mime TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		scheduled_time TIMESTAMPTZ NOT NULL,
		posted_ids TEXT[],
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating scheduled_posts table failed: %w", err)
	}

	idx := `CREATE INDEX IF NOT EXISTS idx_scheduled_posts_due ON scheduled_posts (status, scheduled_time)`
	if _, err := db.ExecContext(ctx, idx); err != nil {
		return fmt.Errorf("creating scheduled_posts index failed: %w", err)
	}
	return nil
}
