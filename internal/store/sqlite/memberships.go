package sqlite

import (
	"context"
	"database/sql"

	"github.com/Ender778/recipe-management-app/internal/domain"
	"github.com/Ender778/recipe-management-app/internal/store"
)

// membershipColumns is the ordered list of columns selected in membership queries.
// Must match the scan order in scanMembership.
const membershipColumns = `id, created_at, updated_at, deleted_at,
	book_id, user_id, permission`

// scanMembership scans a sql.Row (or sql.Rows via its Scan method) into a domain.Membership.
func scanMembership(scanner interface{ Scan(dest ...any) error }) (*domain.Membership, error) {
	var m domain.Membership

	var (
		createdAt  string
		updatedAt  string
		deletedAt  sql.NullString
		permission string
	)

	err := scanner.Scan(
		&m.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&m.BookID,
		&m.UserID,
		&permission,
	)
	if err != nil {
		return nil, err
	}

	m.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	m.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	m.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	m.Permission, _ = domain.ParsePermission(permission)

	return &m, nil
}

// GetMembership retrieves the membership a user holds on a book.
// Returns store.ErrNotFound if the user is not a member.
func (s *Store) GetMembership(ctx context.Context, bookID, userID string) (*domain.Membership, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships
		WHERE book_id = ? AND user_id = ? AND deleted_at IS NULL`,
		bookID, userID)

	m, err := scanMembership(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMembershipsForUser returns all memberships a user holds, ordered by
// creation time descending.
func (s *Store) ListMembershipsForUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMemberships(rows)
}

// ListMembershipsForBook returns all memberships on a book, ordered by
// creation time ascending so the owner's membership comes first.
func (s *Store) ListMembershipsForBook(ctx context.Context, bookID string) ([]*domain.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships
		WHERE book_id = ? AND deleted_at IS NULL
		ORDER BY created_at`,
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMemberships(rows)
}

// UpsertMembership inserts a membership, or overwrites the permission when
// the (book, user) pair already has one. Granting access twice never
// produces a second row, and the later grant's permission wins.
func (s *Store) UpsertMembership(ctx context.Context, membership *domain.Membership) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memberships (
			id, created_at, updated_at, deleted_at,
			book_id, user_id, permission
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (book_id, user_id) DO UPDATE SET
			permission = excluded.permission,
			updated_at = excluded.updated_at`,
		membership.ID,
		formatTime(membership.CreatedAt),
		formatTime(membership.UpdatedAt),
		nullTimeString(membership.DeletedAt),
		membership.BookID,
		membership.UserID,
		membership.Permission.String(),
	)
	return err
}

// DeleteMembership revokes a user's access to a book. The operation is
// idempotent; removing a non-member is not an error.
func (s *Store) DeleteMembership(ctx context.Context, bookID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE book_id = ? AND user_id = ?`,
		bookID, userID)
	return err
}

func collectMemberships(rows *sql.Rows) ([]*domain.Membership, error) {
	var memberships []*domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return memberships, nil
}
