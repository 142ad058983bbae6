package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ender778/recipe-management-app/internal/domain"
	"github.com/Ender778/recipe-management-app/internal/id"
	"github.com/Ender778/recipe-management-app/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, deleted_at,
	owner_id, name, description`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.RecipeBook.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.RecipeBook, error) {
	var b domain.RecipeBook

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&b.OwnerID,
		&b.Name,
		&b.Description,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	b.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBook inserts a new recipe book and the owner's write membership in
// a single transaction. A book is never visible without its owner membership.
func (s *Store) CreateBook(ctx context.Context, book *domain.RecipeBook) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipe_books (
			id, created_at, updated_at, deleted_at,
			owner_id, name, description
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		nullTimeString(book.DeletedAt),
		book.OwnerID,
		book.Name,
		book.Description,
	)
	if err != nil {
		return err
	}

	membershipID, err := id.Generate("mem")
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO memberships (
			id, created_at, updated_at, deleted_at,
			book_id, user_id, permission
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		membershipID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		nil,
		book.ID,
		book.OwnerID,
		domain.PermissionWrite.String(),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetBook retrieves a recipe book by ID, excluding soft-deleted records.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.RecipeBook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM recipe_books WHERE id = ? AND deleted_at IS NULL`, id)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBook performs a full update on an existing recipe book.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, book *domain.RecipeBook) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE recipe_books SET
			updated_at = ?,
			name = ?,
			description = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(book.UpdatedAt),
		book.Name,
		book.Description,
		book.ID,
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

// DeleteBook removes a recipe book. Recipes, memberships, and invitations
// attached to the book go with it via foreign key cascades.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipe_books WHERE id = ?`, id)
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

// ListBooksForUser returns every book the user holds a membership on,
// ordered by name. The owner's implicit membership means owned books are
// always included.
func (s *Store) ListBooksForUser(ctx context.Context, userID string) ([]*domain.RecipeBook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.created_at, b.updated_at, b.deleted_at,
			b.owner_id, b.name, b.description
		FROM recipe_books b
		JOIN memberships m ON m.book_id = b.id
		WHERE m.user_id = ? AND b.deleted_at IS NULL
		ORDER BY b.name COLLATE NOCASE`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.RecipeBook
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}
