package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ender778/recipe-management-app/internal/domain"
)

func TestEvaluateBookAccess_NoMembership(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	owner := createTestUser(t, env.store, "owner@example.com")
	stranger := createTestUser(t, env.store, "stranger@example.com")
	book := createTestBook(t, env.store, owner.ID, "Dinners")

	access, err := env.access.EvaluateBookAccess(ctx, book.ID, stranger.ID)
	require.NoError(t, err)
	assert.False(t, access.HasAccess)

	// Missing book evaluates the same way.
	access, err = env.access.EvaluateBookAccess(ctx, "book-missing", stranger.ID)
	require.NoError(t, err)
	assert.False(t, access.HasAccess)
}

func TestEvaluateBookAccess_Owner(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	owner := createTestUser(t, env.store, "owner@example.com")
	book := createTestBook(t, env.store, owner.ID, "Dinners")

	access, err := env.access.EvaluateBookAccess(ctx, book.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, access.HasAccess)
	assert.Equal(t, domain.PermissionWrite, access.Permission)
	assert.True(t, access.IsOwner)
}

func TestAuthorizeBook_ReadMembership(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	owner := createTestUser(t, env.store, "owner@example.com")
	reader := createTestUser(t, env.store, "reader@example.com")
	book := createTestBook(t, env.store, owner.ID, "Dinners")
	grantMembership(t, env.store, book.ID, reader.ID, domain.PermissionRead)

	// A read membership satisfies a read requirement.
	decision, err := env.access.AuthorizeBook(ctx, book.ID, reader.ID, domain.PermissionRead)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, domain.PermissionRead, decision.Permission)
	assert.False(t, decision.IsOwner)

	// It does not satisfy a write requirement, and the caller learns why.
	decision, err = env.access.AuthorizeBook(ctx, book.ID, reader.ID, domain.PermissionWrite)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.DenialInsufficientPermission, decision.Reason)
	assert.Equal(t, http.StatusForbidden, decision.HTTPStatus())
}

func TestAuthorizeBook_DenialReasons(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	owner := createTestUser(t, env.store, "owner@example.com")
	stranger := createTestUser(t, env.store, "stranger@example.com")
	book := createTestBook(t, env.store, owner.ID, "Dinners")

	// Missing book: not found.
	decision, err := env.access.AuthorizeBook(ctx, "book-missing", stranger.ID, domain.PermissionRead)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.DenialNotFound, decision.Reason)
	assert.Equal(t, http.StatusNotFound, decision.HTTPStatus())

	// Existing book, no membership: a different reason internally, but the
	// same status as not-found so outsiders cannot probe which ids exist.
	decision, err = env.access.AuthorizeBook(ctx, book.ID, stranger.ID, domain.PermissionRead)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.DenialNoAccess, decision.Reason)
	assert.Equal(t, http.StatusNotFound, decision.HTTPStatus())
}

func TestAuthorizeBook_NoCrossBookInference(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	owner := createTestUser(t, env.store, "owner@example.com")
	other := createTestUser(t, env.store, "other@example.com")
	bookA := createTestBook(t, env.store, owner.ID, "Book A")
	bookB := createTestBook(t, env.store, other.ID, "Book B")

	// Write on A says nothing about B.
	decision, err := env.access.AuthorizeBook(ctx, bookA.ID, owner.ID, domain.PermissionWrite)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = env.access.AuthorizeBook(ctx, bookB.ID, owner.ID, domain.PermissionRead)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.DenialNoAccess, decision.Reason)
}

func TestAuthorizeRecipe(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	owner := createTestUser(t, env.store, "owner@example.com")
	reader := createTestUser(t, env.store, "reader@example.com")
	book := createTestBook(t, env.store, owner.ID, "Dinners")
	grantMembership(t, env.store, book.ID, reader.ID, domain.PermissionRead)

	recipe, err := env.recipes.Create(ctx, owner.ID, book.ID, CreateRecipeRequest{Title: "Stew"})
	require.NoError(t, err)

	// The recipe's effective permission is the book membership's.
	decision, bookID, err := env.access.AuthorizeRecipe(ctx, recipe.ID, reader.ID, domain.PermissionRead)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, book.ID, bookID)

	decision, _, err = env.access.AuthorizeRecipe(ctx, recipe.ID, reader.ID, domain.PermissionWrite)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.DenialInsufficientPermission, decision.Reason)

	// Unresolvable recipe is a plain not-found.
	decision, _, err = env.access.AuthorizeRecipe(ctx, "rcp-missing", reader.ID, domain.PermissionRead)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.DenialNotFound, decision.Reason)
}
