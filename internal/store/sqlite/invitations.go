package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Ender778/recipe-management-app/internal/domain"
	"github.com/Ender778/recipe-management-app/internal/id"
	"github.com/Ender778/recipe-management-app/internal/store"
)

// invitationColumns is the ordered list of columns selected in invitation queries.
// Must match the scan order in scanInvitation.
const invitationColumns = `id, created_at, updated_at, deleted_at,
	book_id, invited_by_user_id, invited_user_email, invited_user_id,
	permission, status, expires_at`

// scanInvitation scans a sql.Row (or sql.Rows via its Scan method) into a domain.Invitation.
func scanInvitation(scanner interface{ Scan(dest ...any) error }) (*domain.Invitation, error) {
	var inv domain.Invitation

	var (
		createdAt     string
		updatedAt     string
		deletedAt     sql.NullString
		invitedUserID sql.NullString
		permission    string
		status        string
		expiresAt     string
	)

	err := scanner.Scan(
		&inv.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&inv.BookID,
		&inv.InvitedByUserID,
		&inv.InvitedUserEmail,
		&invitedUserID,
		&permission,
		&status,
		&expiresAt,
	)
	if err != nil {
		return nil, err
	}

	inv.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	inv.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	inv.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}
	inv.ExpiresAt, err = parseTime(expiresAt)
	if err != nil {
		return nil, err
	}

	inv.Permission, _ = domain.ParsePermission(permission)
	inv.Status = domain.InvitationStatus(status)

	if invitedUserID.Valid {
		inv.InvitedUserID = invitedUserID.String
	}

	return &inv, nil
}

// CreateInvitation inserts a new invitation.
// Returns store.ErrAlreadyExists when a pending invitation for the same
// (book, email) pair exists. The partial unique index on pending rows makes
// this hold even for concurrent creates that both passed a duplicate check.
func (s *Store) CreateInvitation(ctx context.Context, invitation *domain.Invitation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invitations (
			id, created_at, updated_at, deleted_at,
			book_id, invited_by_user_id, invited_user_email, invited_user_id,
			permission, status, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invitation.ID,
		formatTime(invitation.CreatedAt),
		formatTime(invitation.UpdatedAt),
		nullTimeString(invitation.DeletedAt),
		invitation.BookID,
		invitation.InvitedByUserID,
		invitation.InvitedUserEmail,
		nullString(invitation.InvitedUserID),
		invitation.Permission.String(),
		string(invitation.Status),
		formatTime(invitation.ExpiresAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists.WithMessage("a pending invitation for this email already exists")
		}
		return err
	}
	return nil
}

// GetInvitation retrieves an invitation by ID.
// Returns store.ErrNotFound if the invitation does not exist.
func (s *Store) GetInvitation(ctx context.Context, id string) (*domain.Invitation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ? AND deleted_at IS NULL`, id)

	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetPendingInvitation retrieves the pending invitation for a (book, email)
// pair, if one exists. The email match is case-insensitive.
// Returns store.ErrNotFound if there is no pending invitation.
func (s *Store) GetPendingInvitation(ctx context.Context, bookID, email string) (*domain.Invitation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		WHERE book_id = ? AND invited_user_email = ? AND status = ? AND deleted_at IS NULL`,
		bookID, email, string(domain.InvitationPending))

	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvitationsByBook returns all invitations for a book ordered by
// created_at descending.
func (s *Store) ListInvitationsByBook(ctx context.Context, bookID string) ([]*domain.Invitation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		WHERE book_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC`,
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvitations(rows)
}

// ListInvitationsForEmail returns all invitations addressed to an email,
// ordered by created_at descending. The match is case-insensitive.
func (s *Store) ListInvitationsForEmail(ctx context.Context, email string) ([]*domain.Invitation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		WHERE invited_user_email = ? AND deleted_at IS NULL
		ORDER BY created_at DESC`,
		email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvitations(rows)
}

// ListInvitationsByInviter returns all invitations created by a user,
// ordered by created_at descending.
func (s *Store) ListInvitationsByInviter(ctx context.Context, inviterID string) ([]*domain.Invitation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		WHERE invited_by_user_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC`,
		inviterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvitations(rows)
}

// TransitionInvitation conditionally moves a pending, unexpired invitation
// to the given terminal status. The status and deadline checks live in the
// UPDATE's WHERE clause, so when several callers race exactly one write
// succeeds; the rest get store.ErrNotPending.
func (s *Store) TransitionInvitation(ctx context.Context, invitationID string, to domain.InvitationStatus) error {
	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		UPDATE invitations SET
			status = ?,
			updated_at = ?
		WHERE id = ? AND status = ? AND expires_at > ? AND deleted_at IS NULL`,
		string(to),
		formatTime(now),
		invitationID,
		string(domain.InvitationPending),
		formatTime(now),
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return s.invitationTransitionFailure(ctx, invitationID)
	}
	return nil
}

// AcceptInvitation moves a pending, unexpired invitation to accepted and
// upserts the invitee's membership in a single transaction. Either both
// writes commit or neither does, so an accepted invitation can never exist
// without its membership. Returns the updated invitation.
func (s *Store) AcceptInvitation(ctx context.Context, invitationID, userID string) (*domain.Invitation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	// The conditional UPDATE is the race arbiter: of any number of
	// concurrent accepts, declines, or revokes, only one write finds the
	// row still pending.
	result, err := tx.ExecContext(ctx, `
		UPDATE invitations SET
			status = ?,
			invited_user_id = ?,
			updated_at = ?
		WHERE id = ? AND status = ? AND expires_at > ? AND deleted_at IS NULL`,
		string(domain.InvitationAccepted),
		userID,
		formatTime(now),
		invitationID,
		string(domain.InvitationPending),
		formatTime(now),
	)
	if err != nil {
		return nil, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, s.invitationTransitionFailure(ctx, invitationID)
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, invitationID)
	inv, err := scanInvitation(row)
	if err != nil {
		return nil, err
	}

	membershipID, err := id.Generate("mem")
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO memberships (
			id, created_at, updated_at, deleted_at,
			book_id, user_id, permission
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (book_id, user_id) DO UPDATE SET
			permission = excluded.permission,
			updated_at = excluded.updated_at`,
		membershipID,
		formatTime(now),
		formatTime(now),
		nil,
		inv.BookID,
		userID,
		inv.Permission.String(),
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inv, nil
}

// invitationTransitionFailure distinguishes a missing invitation from one
// that is no longer pending, after a conditional transition affected no rows.
func (s *Store) invitationTransitionFailure(ctx context.Context, invitationID string) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM invitations WHERE id = ? AND deleted_at IS NULL`, invitationID).
		Scan(&exists)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return store.ErrNotPending
}

// DeleteInvitation removes an invitation record entirely.
// Returns store.ErrNotFound if the invitation does not exist.
func (s *Store) DeleteInvitation(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
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

// MarkExpiredInvitations moves pending invitations whose deadline has passed
// to the stored expired status. Returns the number of rows transitioned.
// Read paths never depend on this having run; it only keeps listings honest.
func (s *Store) MarkExpiredInvitations(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE invitations SET
			status = ?,
			updated_at = ?
		WHERE status = ? AND expires_at <= ? AND deleted_at IS NULL`,
		string(domain.InvitationExpired),
		formatTime(now),
		string(domain.InvitationPending),
		formatTime(now),
	)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func collectInvitations(rows *sql.Rows) ([]*domain.Invitation, error) {
	var invitations []*domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invitations, nil
}
