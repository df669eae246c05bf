package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the
// end.
var migrations = []string{
	// Migration 1: Replace hard UNIQUE on admin usernames with a partial
	// unique index that only covers active (non-deleted) accounts so that
	// soft-deleted usernames can be reused.
	`DROP INDEX IF EXISTS sqlite_autoindex_admin_users_1`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_admin_users_username_active
	     ON admin_users(username) WHERE deleted_at IS NULL`,

	// Migration 2: Earlier schema revisions stored a single image per product
	// with no primary flag, leaving imported rows with zero primaries. Promote
	// the first image (lowest sort order, then id) of any product that has
	// images but no primary, so the representative-image query stays
	// deterministic.
	`UPDATE product_images SET is_primary = 1 WHERE id IN (
	     SELECT (SELECT id FROM product_images q
	             WHERE q.product_id = p.product_id
	             ORDER BY q.sort_order, q.id LIMIT 1)
	     FROM product_images p
	     GROUP BY p.product_id
	     HAVING SUM(p.is_primary) = 0
	 )`,

	// Migration 3: Lead rows imported from the legacy system carry free-form
	// statuses. Fold anything outside the enum back to 'new'.
	`UPDATE leads SET status = 'new'
	     WHERE status NOT IN ('new', 'contacted', 'archived')`,
}

// Migrate ensures the schema and runs the migration list.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
