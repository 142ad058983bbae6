package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Ender778/recipe-management-app/internal/domain"
	"github.com/Ender778/recipe-management-app/internal/id"
	"github.com/Ender778/recipe-management-app/internal/store"
)

// RecipeService manages recipes. Every operation passes through the access
// guard first: who may touch a recipe is decided entirely by the caller's
// membership on the owning book.
type RecipeService struct {
	store  store.Store
	access *AccessService
	logger *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(store store.Store, access *AccessService, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:  store,
		access: access,
		logger: logger,
	}
}

// CreateRecipeRequest contains the data for a new recipe.
type CreateRecipeRequest struct {
	Title        string              `json:"title" validate:"required,max=300"`
	Description  string              `json:"description" validate:"max=5000"`
	Ingredients  []domain.Ingredient `json:"ingredients" validate:"dive"`
	Instructions []string            `json:"instructions"`
	Servings     int                 `json:"servings" validate:"min=0"`
	ImagePath    string              `json:"image_path"`
}

// UpdateRecipeRequest contains the updatable fields of a recipe. Nil fields
// are left unchanged.
type UpdateRecipeRequest struct {
	Title        *string              `json:"title" validate:"omitempty,min=1,max=300"`
	Description  *string              `json:"description" validate:"omitempty,max=5000"`
	Ingredients  *[]domain.Ingredient `json:"ingredients"`
	Instructions *[]string            `json:"instructions"`
	Servings     *int                 `json:"servings" validate:"omitempty,min=0"`
	ImagePath    *string              `json:"image_path"`
}

// AnnotatedRecipe is a recipe together with the caller's effective access
// to its owning book.
type AnnotatedRecipe struct {
	*domain.Recipe
	Permission string `json:"permission"`
	IsOwner    bool   `json:"is_owner"`
}

// Create adds a recipe to a book. Requires write access on the book.
func (s *RecipeService) Create(ctx context.Context, userID, bookID string, req CreateRecipeRequest) (*domain.Recipe, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	decision, err := s.access.AuthorizeBook(ctx, bookID, userID, domain.PermissionWrite)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if err := DecisionError(decision, "add recipes to this book"); err != nil {
		return nil, err
	}

	recipeID, err := id.Generate("rcp")
	if err != nil {
		return nil, fmt.Errorf("generate recipe ID: %w", err)
	}

	recipe := &domain.Recipe{
		Syncable: domain.Syncable{
			ID: recipeID,
		},
		BookID:       bookID,
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Servings:     req.Servings,
		ImagePath:    req.ImagePath,
	}
	recipe.InitTimestamps()

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.logger.Info("recipe created",
		"recipe_id", recipe.ID,
		"book_id", bookID,
		"user_id", userID,
	)

	return recipe, nil
}

// Get returns a recipe the user can read, annotated with their access to
// the owning book.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID string) (*AnnotatedRecipe, error) {
	decision, _, err := s.access.AuthorizeRecipe(ctx, recipeID, userID, domain.PermissionRead)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if err := DecisionError(decision, "view this recipe"); err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	return &AnnotatedRecipe{
		Recipe:     recipe,
		Permission: decision.Permission.String(),
		IsOwner:    decision.IsOwner,
	}, nil
}

// Update changes a recipe. Requires write access on the owning book.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID string, req UpdateRecipeRequest) (*domain.Recipe, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	decision, _, err := s.access.AuthorizeRecipe(ctx, recipeID, userID, domain.PermissionWrite)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if err := DecisionError(decision, "change this recipe"); err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Ingredients != nil {
		recipe.Ingredients = *req.Ingredients
	}
	if req.Instructions != nil {
		recipe.Instructions = *req.Instructions
	}
	if req.Servings != nil {
		recipe.Servings = *req.Servings
	}
	if req.ImagePath != nil {
		recipe.ImagePath = *req.ImagePath
	}
	recipe.Touch()

	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	return recipe, nil
}

// Delete removes a recipe. Requires write access on the owning book.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID string) error {
	decision, _, err := s.access.AuthorizeRecipe(ctx, recipeID, userID, domain.PermissionWrite)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	if err := DecisionError(decision, "delete this recipe"); err != nil {
		return err
	}

	if err := s.store.DeleteRecipe(ctx, recipeID); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	s.logger.Info("recipe deleted",
		"recipe_id", recipeID,
		"user_id", userID,
	)

	return nil
}

// ListForBook returns all recipes in a book the user can read.
func (s *RecipeService) ListForBook(ctx context.Context, userID, bookID string) ([]*domain.Recipe, error) {
	decision, err := s.access.AuthorizeBook(ctx, bookID, userID, domain.PermissionRead)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if err := DecisionError(decision, "view this book"); err != nil {
		return nil, err
	}

	recipes, err := s.store.ListRecipesByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// ListAccessible returns every recipe in every book the user holds a
// membership on, each annotated with the effective permission.
func (s *RecipeService) ListAccessible(ctx context.Context, userID string) ([]*AnnotatedRecipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recipes, err := s.store.ListRecipesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	memberships, err := s.store.ListMembershipsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	permByBook := make(map[string]domain.Permission, len(memberships))
	ownerByBook := make(map[string]bool, len(memberships))
	for _, m := range memberships {
		permByBook[m.BookID] = m.Permission
	}

	books, err := s.store.ListBooksForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	for _, b := range books {
		ownerByBook[b.ID] = b.IsOwnedBy(userID)
	}

	annotated := make([]*AnnotatedRecipe, 0, len(recipes))
	for _, recipe := range recipes {
		annotated = append(annotated, &AnnotatedRecipe{
			Recipe:     recipe,
			Permission: permByBook[recipe.BookID].String(),
			IsOwner:    ownerByBook[recipe.BookID],
		})
	}
	return annotated, nil
}
