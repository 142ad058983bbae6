package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ender778/recipe-management-app/internal/auth"
	"github.com/Ender778/recipe-management-app/internal/domain"
	"github.com/Ender778/recipe-management-app/internal/id"
	"github.com/Ender778/recipe-management-app/internal/store"
	"github.com/Ender778/recipe-management-app/internal/store/sqlite"
)

// testTokenKey is a fixed 32-byte hex key for the token service under test.
const testTokenKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// testEnv bundles the services under test around one temporary store.
type testEnv struct {
	store       store.Store
	access      *AccessService
	books       *BookService
	recipes     *RecipeService
	invitations *InvitationService
	sessions    *SessionService
	auth        *AuthService
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	logger := slog.New(slog.DiscardHandler)
	access := NewAccessService(s, logger)

	tokens, err := auth.NewTokenService(testTokenKey, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	sessions := NewSessionService(s, tokens, logger)

	return &testEnv{
		store:       s,
		access:      access,
		books:       NewBookService(s, access, logger),
		recipes:     NewRecipeService(s, access, logger),
		invitations: NewInvitationService(s, access, 7*24*time.Hour, "", logger),
		sessions:    sessions,
		auth:        NewAuthService(s, tokens, sessions, logger),
	}
}

// createTestUser creates a user directly in the store.
func createTestUser(t *testing.T, s store.Store, email string) *domain.User {
	t.Helper()

	userID, err := id.Generate("user")
	require.NoError(t, err)

	user := &domain.User{
		Syncable: domain.Syncable{
			ID: userID,
		},
		Email:        email,
		PasswordHash: "$argon2id$fake",
		DisplayName:  email,
	}
	user.InitTimestamps()

	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

// createTestBook creates a book owned by the user, with the implicit owner
// membership the store writes alongside it.
func createTestBook(t *testing.T, s store.Store, ownerID, name string) *domain.RecipeBook {
	t.Helper()

	bookID, err := id.Generate("book")
	require.NoError(t, err)

	book := &domain.RecipeBook{
		Syncable: domain.Syncable{
			ID: bookID,
		},
		OwnerID: ownerID,
		Name:    name,
	}
	book.InitTimestamps()

	require.NoError(t, s.CreateBook(context.Background(), book))
	return book
}

// grantMembership writes a membership directly, bypassing the invitation flow.
func grantMembership(t *testing.T, s store.Store, bookID, userID string, perm domain.Permission) {
	t.Helper()

	m := &domain.Membership{
		Syncable:   domain.Syncable{ID: id.MustGenerate("mem")},
		BookID:     bookID,
		UserID:     userID,
		Permission: perm,
	}
	m.InitTimestamps()
	require.NoError(t, s.UpsertMembership(context.Background(), m))
}
