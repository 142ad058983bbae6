package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/Ender778/recipe-management-app/internal/domain"
	"github.com/Ender778/recipe-management-app/internal/store"
)

func insertTestRecipe(t *testing.T, s *Store, id, bookID string) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{
		Syncable: domain.Syncable{ID: id},
		BookID:   bookID,
		Title:    "Recipe " + id,
		Ingredients: []domain.Ingredient{
			{Name: "flour", Quantity: "500", Unit: "g"},
			{Name: "water", Quantity: "350", Unit: "ml"},
		},
		Instructions: []string{"mix", "rest", "bake"},
		Servings:     4,
	}
	r.InitTimestamps()
	if err := s.CreateRecipe(context.Background(), r); err != nil {
		t.Fatalf("insert test recipe %s: %v", id, err)
	}
	return r
}

func TestCreateAndGetRecipe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "cook-1")
	insertTestBook(t, s, "book-r1", "cook-1")
	insertTestRecipe(t, s, "recipe-1", "book-r1")

	got, err := s.GetRecipe(ctx, "recipe-1")
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.BookID != "book-r1" {
		t.Errorf("BookID: got %q", got.BookID)
	}
	if len(got.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(got.Ingredients))
	}
	if got.Ingredients[0].Name != "flour" || got.Ingredients[0].Unit != "g" {
		t.Errorf("ingredient round-trip broken: %+v", got.Ingredients[0])
	}
	if len(got.Instructions) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(got.Instructions))
	}
	if got.Servings != 4 {
		t.Errorf("Servings: got %d", got.Servings)
	}
}

func TestCreateRecipe_EmptyLists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "cook-2")
	insertTestBook(t, s, "book-r2", "cook-2")

	r := &domain.Recipe{
		Syncable: domain.Syncable{ID: "recipe-bare"},
		BookID:   "book-r2",
		Title:    "Bare",
	}
	r.InitTimestamps()
	if err := s.CreateRecipe(ctx, r); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	got, err := s.GetRecipe(ctx, "recipe-bare")
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.Ingredients == nil || len(got.Ingredients) != 0 {
		t.Errorf("Ingredients: expected empty slice, got %v", got.Ingredients)
	}
	if got.Instructions == nil || len(got.Instructions) != 0 {
		t.Errorf("Instructions: expected empty slice, got %v", got.Instructions)
	}
}

func TestGetRecipeBookID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "cook-3")
	insertTestBook(t, s, "book-r3", "cook-3")
	insertTestRecipe(t, s, "recipe-3", "book-r3")

	bookID, err := s.GetRecipeBookID(ctx, "recipe-3")
	if err != nil {
		t.Fatalf("GetRecipeBookID: %v", err)
	}
	if bookID != "book-r3" {
		t.Errorf("bookID: got %q, want %q", bookID, "book-r3")
	}

	if _, err := s.GetRecipeBookID(ctx, "nonexistent"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRecipe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "cook-4")
	insertTestBook(t, s, "book-r4", "cook-4")
	r := insertTestRecipe(t, s, "recipe-4", "book-r4")

	r.Title = "Improved"
	r.Instructions = append(r.Instructions, "eat")
	r.Touch()
	if err := s.UpdateRecipe(ctx, r); err != nil {
		t.Fatalf("UpdateRecipe: %v", err)
	}

	got, err := s.GetRecipe(ctx, "recipe-4")
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.Title != "Improved" {
		t.Errorf("Title: got %q", got.Title)
	}
	if len(got.Instructions) != 4 {
		t.Errorf("expected 4 instructions, got %d", len(got.Instructions))
	}
}

func TestDeleteRecipe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "cook-5")
	insertTestBook(t, s, "book-r5", "cook-5")
	insertTestRecipe(t, s, "recipe-5", "book-r5")

	if err := s.DeleteRecipe(ctx, "recipe-5"); err != nil {
		t.Fatalf("DeleteRecipe: %v", err)
	}
	if _, err := s.GetRecipe(ctx, "recipe-5"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("recipe should be gone, got %v", err)
	}
	if err := s.DeleteRecipe(ctx, "recipe-5"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestListRecipesForUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "cook-6")
	insertTestUser(t, s, "guest-6")
	insertTestBook(t, s, "book-r6", "cook-6")
	insertTestRecipe(t, s, "recipe-6a", "book-r6")
	insertTestRecipe(t, s, "recipe-6b", "book-r6")

	// Guest sees nothing before gaining a membership.
	recipes, err := s.ListRecipesForUser(ctx, "guest-6")
	if err != nil {
		t.Fatalf("ListRecipesForUser: %v", err)
	}
	if len(recipes) != 0 {
		t.Fatalf("expected 0 recipes for non-member, got %d", len(recipes))
	}

	m := &domain.Membership{
		Syncable:   domain.Syncable{ID: "mem-r6"},
		BookID:     "book-r6",
		UserID:     "guest-6",
		Permission: domain.PermissionRead,
	}
	m.InitTimestamps()
	if err := s.UpsertMembership(ctx, m); err != nil {
		t.Fatalf("UpsertMembership: %v", err)
	}

	recipes, err = s.ListRecipesForUser(ctx, "guest-6")
	if err != nil {
		t.Fatalf("ListRecipesForUser: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes after membership, got %d", len(recipes))
	}
}
