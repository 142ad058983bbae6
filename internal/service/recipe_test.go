package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ender778/recipe-management-app/internal/domain"
	domainerrors "github.com/Ender778/recipe-management-app/internal/errors"
	"github.com/Ender778/recipe-management-app/internal/store"
)

func TestRecipeCreate(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	owner := createTestUser(t, env.store, "alice@example.com")
	reader := createTestUser(t, env.store, "reader@example.com")
	book := createTestBook(t, env.store, owner.ID, "Family Recipes")
	grantMembership(t, env.store, book.ID, reader.ID, domain.PermissionRead)

	recipe, err := env.recipes.Create(ctx, owner.ID, book.ID, CreateRecipeRequest{
		Title: "Lasagna",
		Ingredients: []domain.Ingredient{
			{Name: "pasta sheets", Quantity: "12"},
			{Name: "ragu", Quantity: "500", Unit: "g"},
		},
		Instructions: []string{"layer", "bake"},
		Servings:     6,
	})
	require.NoError(t, err)
	assert.Equal(t, book.ID, recipe.BookID)
	assert.Len(t, recipe.Ingredients, 2)

	// Read access allows viewing, not adding.
	_, err = env.recipes.Create(ctx, reader.ID, book.ID, CreateRecipeRequest{Title: "Soup"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.recipes.Create(ctx, owner.ID, book.ID, CreateRecipeRequest{Title: ""})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestRecipeGet(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	owner := createTestUser(t, env.store, "alice@example.com")
	reader := createTestUser(t, env.store, "reader@example.com")
	stranger := createTestUser(t, env.store, "stranger@example.com")
	book := createTestBook(t, env.store, owner.ID, "Family Recipes")
	grantMembership(t, env.store, book.ID, reader.ID, domain.PermissionRead)

	recipe, err := env.recipes.Create(ctx, owner.ID, book.ID, CreateRecipeRequest{Title: "Lasagna"})
	require.NoError(t, err)

	got, err := env.recipes.Get(ctx, reader.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lasagna", got.Title)
	assert.Equal(t, "read", got.Permission)
	assert.False(t, got.IsOwner)

	// A non-member sees the same not-found a bogus id gets.
	_, err = env.recipes.Get(ctx, stranger.ID, recipe.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = env.recipes.Get(ctx, owner.ID, "rcp-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRecipeUpdate(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	owner := createTestUser(t, env.store, "alice@example.com")
	reader := createTestUser(t, env.store, "reader@example.com")
	writer := createTestUser(t, env.store, "writer@example.com")
	book := createTestBook(t, env.store, owner.ID, "Family Recipes")
	grantMembership(t, env.store, book.ID, reader.ID, domain.PermissionRead)
	grantMembership(t, env.store, book.ID, writer.ID, domain.PermissionWrite)

	recipe, err := env.recipes.Create(ctx, owner.ID, book.ID, CreateRecipeRequest{
		Title:    "Lasagna",
		Servings: 4,
	})
	require.NoError(t, err)

	// Any write member may edit, not just the author or owner.
	title := "Veggie Lasagna"
	servings := 8
	updated, err := env.recipes.Update(ctx, writer.ID, recipe.ID, UpdateRecipeRequest{
		Title:    &title,
		Servings: &servings,
	})
	require.NoError(t, err)
	assert.Equal(t, "Veggie Lasagna", updated.Title)
	assert.Equal(t, 8, updated.Servings)

	_, err = env.recipes.Update(ctx, reader.ID, recipe.ID, UpdateRecipeRequest{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestRecipeDelete(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	owner := createTestUser(t, env.store, "alice@example.com")
	reader := createTestUser(t, env.store, "reader@example.com")
	book := createTestBook(t, env.store, owner.ID, "Family Recipes")
	grantMembership(t, env.store, book.ID, reader.ID, domain.PermissionRead)

	recipe, err := env.recipes.Create(ctx, owner.ID, book.ID, CreateRecipeRequest{Title: "Lasagna"})
	require.NoError(t, err)

	err = env.recipes.Delete(ctx, reader.ID, recipe.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, env.recipes.Delete(ctx, owner.ID, recipe.ID))
	_, err = env.store.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecipeListForBook(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	owner := createTestUser(t, env.store, "alice@example.com")
	stranger := createTestUser(t, env.store, "stranger@example.com")
	book := createTestBook(t, env.store, owner.ID, "Family Recipes")

	for _, title := range []string{"Lasagna", "Soup"} {
		_, err := env.recipes.Create(ctx, owner.ID, book.ID, CreateRecipeRequest{Title: title})
		require.NoError(t, err)
	}

	recipes, err := env.recipes.ListForBook(ctx, owner.ID, book.ID)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)

	_, err = env.recipes.ListForBook(ctx, stranger.ID, book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRecipeListAccessible(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	alice := createTestUser(t, env.store, "alice@example.com")
	bob := createTestUser(t, env.store, "bob@example.com")
	mine := createTestBook(t, env.store, alice.ID, "Mine")
	shared := createTestBook(t, env.store, bob.ID, "Bob's")
	private := createTestBook(t, env.store, bob.ID, "Private")
	grantMembership(t, env.store, shared.ID, alice.ID, domain.PermissionRead)

	_, err := env.recipes.Create(ctx, alice.ID, mine.ID, CreateRecipeRequest{Title: "A"})
	require.NoError(t, err)
	_, err = env.recipes.Create(ctx, bob.ID, shared.ID, CreateRecipeRequest{Title: "B"})
	require.NoError(t, err)
	_, err = env.recipes.Create(ctx, bob.ID, private.ID, CreateRecipeRequest{Title: "C"})
	require.NoError(t, err)

	recipes, err := env.recipes.ListAccessible(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	perms := make(map[string]string, len(recipes))
	for _, r := range recipes {
		perms[r.Title] = r.Permission
	}
	assert.Equal(t, "write", perms["A"])
	assert.Equal(t, "read", perms["B"])
	assert.NotContains(t, perms, "C")
}
