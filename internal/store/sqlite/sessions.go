package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Ender778/recipe-management-app/internal/domain"
	"github.com/Ender778/recipe-management-app/internal/store"
)

// sessionColumns is the ordered list of columns selected in session queries.
// Must match the scan order in scanSession.
const sessionColumns = `id, created_at, updated_at, deleted_at,
	user_id, refresh_token_hash, device_type, device_name, client_name,
	ip_address, last_used_at, expires_at`

// scanSession scans a sql.Row (or sql.Rows via its Scan method) into a domain.Session.
func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var sess domain.Session

	var (
		createdAt  string
		updatedAt  string
		deletedAt  sql.NullString
		lastUsedAt string
		expiresAt  string
	)

	err := scanner.Scan(
		&sess.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&sess.UserID,
		&sess.RefreshTokenHash,
		&sess.DeviceType,
		&sess.DeviceName,
		&sess.ClientName,
		&sess.IPAddress,
		&lastUsedAt,
		&expiresAt,
	)
	if err != nil {
		return nil, err
	}

	sess.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sess.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	sess.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}
	sess.LastUsedAt, err = parseTime(lastUsedAt)
	if err != nil {
		return nil, err
	}
	sess.ExpiresAt, err = parseTime(expiresAt)
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

// CreateSession inserts a new refresh-token session.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, created_at, updated_at, deleted_at,
			user_id, refresh_token_hash, device_type, device_name, client_name,
			ip_address, last_used_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
		nullTimeString(session.DeletedAt),
		session.UserID,
		session.RefreshTokenHash,
		session.DeviceType,
		session.DeviceName,
		session.ClientName,
		session.IPAddress,
		formatTime(session.LastUsedAt),
		formatTime(session.ExpiresAt),
	)
	return err
}

// GetSessionByRefreshToken retrieves a session by its refresh token hash.
// Returns store.ErrNotFound if no session matches.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token_hash = ? AND deleted_at IS NULL`,
		tokenHash)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// UpdateSession performs a full update on an existing session.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			updated_at = ?,
			refresh_token_hash = ?,
			device_type = ?,
			device_name = ?,
			client_name = ?,
			ip_address = ?,
			last_used_at = ?,
			expires_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(session.UpdatedAt),
		session.RefreshTokenHash,
		session.DeviceType,
		session.DeviceName,
		session.ClientName,
		session.IPAddress,
		formatTime(session.LastUsedAt),
		formatTime(session.ExpiresAt),
		session.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteSession removes a session. The operation is idempotent.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteAllUserSessions removes every session belonging to a user.
// Used on logout-everywhere and password changes.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredSessions removes sessions whose refresh tokens have lapsed.
// Returns the number of sessions removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, formatTime(time.Now()))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
