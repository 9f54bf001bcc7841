package database

import (
	"database/sql"
	"fmt"
	"time"
)

// GetAdminByUsername retrieves an administrator credential, or nil if the
// username is unknown. Callers must not reveal which case occurred.
func (db *DB) GetAdminByUsername(username string) (*AdminUser, error) {
	admin := &AdminUser{}
	err := db.queryRow(
		`SELECT id, username, password_hash, created_at
		 FROM admin_users WHERE username = $1`,
		username,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}

	return admin, nil
}

// UpsertAdminUser creates an administrator credential or rotates the
// password of an existing one. Used by the provisioning tool only.
func (db *DB) UpsertAdminUser(username, passwordHash string) (*AdminUser, error) {
	admin := &AdminUser{}
	err := db.queryRow(
		`INSERT INTO admin_users (username, password_hash)
		 VALUES ($1, $2)
		 ON CONFLICT (username)
		 DO UPDATE SET password_hash = EXCLUDED.password_hash
		 RETURNING id, username, password_hash, created_at`,
		username, passwordHash,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert admin user: %w", err)
	}

	return admin, nil
}

// CreateSession stores a session token with its absolute expiry.
func (db *DB) CreateSession(token string, expiresAt time.Time) error {
	_, err := db.exec(
		`INSERT INTO admin_sessions (session_token, expires_at) VALUES ($1, $2)`,
		token, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// HasValidSession reports whether the token names a session that exists
// and has not expired. Both conditions live in one query so an
// expired-but-unswept row can never validate.
func (db *DB) HasValidSession(token string) (bool, error) {
	var valid bool
	err := db.queryRow(
		`SELECT EXISTS(
			SELECT 1 FROM admin_sessions
			WHERE session_token = $1 AND expires_at > NOW()
		 )`,
		token,
	).Scan(&valid)

	if err != nil {
		return false, fmt.Errorf("failed to validate session: %w", err)
	}

	return valid, nil
}

// DeleteSession removes a session by token, reporting whether a row was
// removed.
func (db *DB) DeleteSession(token string) (bool, error) {
	result, err := db.exec(
		`DELETE FROM admin_sessions WHERE session_token = $1`,
		token,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// DeleteExpiredSessions purges sessions past their expiry and returns the
// number of rows removed. Expired rows are already invisible to
// HasValidSession; this keeps the table from growing without bound.
func (db *DB) DeleteExpiredSessions() (int64, error) {
	result, err := db.exec(`DELETE FROM admin_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected, nil
}
