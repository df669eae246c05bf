package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// RevokeToken adds a token's JTI to the revocation list. The list only has to
// outlive the tokens on it, so each revocation also purges entries whose
// expiry has passed.
func RevokeToken(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		jti, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	if _, err := PurgeExpiredTokens(ctx, db); err != nil {
		slog.Warn("could not purge expired revocations", "error", err)
	}
	return nil
}

// PurgeExpiredTokens deletes revocations for tokens that have expired on
// their own and reports how many rows went away.
func PurgeExpiredTokens(ctx context.Context, db *sql.DB) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("purging revoked tokens: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging revoked tokens: %w", err)
	}
	return n, nil
}

// IsTokenRevoked reports whether a token's JTI is on the revocation list.
func IsTokenRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM revoked_tokens WHERE jti = ?`, jti,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return true, nil
}
