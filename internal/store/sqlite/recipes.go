package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"

	"github.com/Ender778/recipe-management-app/internal/domain"
	"github.com/Ender778/recipe-management-app/internal/store"
)

// recipeColumns is the ordered list of columns selected in recipe queries.
// Must match the scan order in scanRecipe.
const recipeColumns = `id, created_at, updated_at, deleted_at,
	book_id, title, description, ingredients, instructions, servings, image_path`

// scanRecipe scans a sql.Row (or sql.Rows via its Scan method) into a domain.Recipe.
// The ingredients and instructions columns hold JSON arrays.
func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var r domain.Recipe

	var (
		createdAt    string
		updatedAt    string
		deletedAt    sql.NullString
		ingredients  string
		instructions string
	)

	err := scanner.Scan(
		&r.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&r.BookID,
		&r.Title,
		&r.Description,
		&ingredients,
		&instructions,
		&r.Servings,
		&r.ImagePath,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	r.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(ingredients), &r.Ingredients); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(instructions), &r.Instructions); err != nil {
		return nil, err
	}

	return &r, nil
}

// marshalRecipeLists serializes the ingredients and instructions of a recipe
// for storage. Nil slices are stored as empty JSON arrays so scans round-trip.
func marshalRecipeLists(recipe *domain.Recipe) (string, string, error) {
	ingredients := recipe.Ingredients
	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}
	instructions := recipe.Instructions
	if instructions == nil {
		instructions = []string{}
	}

	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return "", "", err
	}
	instructionsJSON, err := json.Marshal(instructions)
	if err != nil {
		return "", "", err
	}
	return string(ingredientsJSON), string(instructionsJSON), nil
}

// CreateRecipe inserts a new recipe into the database.
func (s *Store) CreateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	ingredients, instructions, err := marshalRecipeLists(recipe)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (
			id, created_at, updated_at, deleted_at,
			book_id, title, description, ingredients, instructions, servings, image_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID,
		formatTime(recipe.CreatedAt),
		formatTime(recipe.UpdatedAt),
		nullTimeString(recipe.DeletedAt),
		recipe.BookID,
		recipe.Title,
		recipe.Description,
		ingredients,
		instructions,
		recipe.Servings,
		recipe.ImagePath,
	)
	return err
}

// GetRecipe retrieves a recipe by ID, excluding soft-deleted records.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND deleted_at IS NULL`, id)

	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetRecipeBookID returns the owning book's ID for a recipe without loading
// the full row. Access checks resolve a recipe to its book through this.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) GetRecipeBookID(ctx context.Context, recipeID string) (string, error) {
	var bookID string
	err := s.db.QueryRowContext(ctx,
		`SELECT book_id FROM recipes WHERE id = ? AND deleted_at IS NULL`, recipeID).
		Scan(&bookID)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return bookID, nil
}

// UpdateRecipe performs a full update on an existing recipe.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	ingredients, instructions, err := marshalRecipeLists(recipe)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET
			updated_at = ?,
			title = ?,
			description = ?,
			ingredients = ?,
			instructions = ?,
			servings = ?,
			image_path = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(recipe.UpdatedAt),
		recipe.Title,
		recipe.Description,
		ingredients,
		instructions,
		recipe.Servings,
		recipe.ImagePath,
		recipe.ID,
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

// DeleteRecipe removes a recipe.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
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

// ListRecipesByBook returns all recipes in a book ordered by title.
func (s *Store) ListRecipesByBook(ctx context.Context, bookID string) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		WHERE book_id = ? AND deleted_at IS NULL
		ORDER BY title COLLATE NOCASE`,
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecipes(rows)
}

// ListRecipesForUser returns every recipe in every book the user holds a
// membership on, ordered by book then title.
func (s *Store) ListRecipesForUser(ctx context.Context, userID string) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.updated_at, r.deleted_at,
			r.book_id, r.title, r.description, r.ingredients, r.instructions,
			r.servings, r.image_path
		FROM recipes r
		JOIN memberships m ON m.book_id = r.book_id
		WHERE m.user_id = ? AND r.deleted_at IS NULL
		ORDER BY r.book_id, r.title COLLATE NOCASE`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecipes(rows)
}

func collectRecipes(rows *sql.Rows) ([]*domain.Recipe, error) {
	var recipes []*domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recipes, nil
}
