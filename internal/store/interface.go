// Package store defines the persistence interface for the recipe server.
package store

import (
	"context"
	"time"

	"github.com/Ender778/recipe-management-app/internal/domain"
)

// Store defines the interface for all persistence operations.
// Implementations own their concurrency discipline; callers treat every
// returned error as fail-closed (a storage error never grants access).
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Recipe books. CreateBook also writes the owner's implicit write
	// membership in the same transaction; DeleteBook cascades memberships,
	// invitations, and recipes.
	CreateBook(ctx context.Context, book *domain.RecipeBook) error
	GetBook(ctx context.Context, id string) (*domain.RecipeBook, error)
	UpdateBook(ctx context.Context, book *domain.RecipeBook) error
	DeleteBook(ctx context.Context, id string) error
	ListBooksForUser(ctx context.Context, userID string) ([]*domain.RecipeBook, error)

	// Recipes
	CreateRecipe(ctx context.Context, recipe *domain.Recipe) error
	GetRecipe(ctx context.Context, id string) (*domain.Recipe, error)
	GetRecipeBookID(ctx context.Context, recipeID string) (string, error)
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
	ListRecipesByBook(ctx context.Context, bookID string) ([]*domain.Recipe, error)
	ListRecipesForUser(ctx context.Context, userID string) ([]*domain.Recipe, error)

	// Memberships. UpsertMembership is idempotent: a second call for the
	// same (book, user) overwrites the permission instead of duplicating.
	GetMembership(ctx context.Context, bookID, userID string) (*domain.Membership, error)
	ListMembershipsForUser(ctx context.Context, userID string) ([]*domain.Membership, error)
	ListMembershipsForBook(ctx context.Context, bookID string) ([]*domain.Membership, error)
	UpsertMembership(ctx context.Context, membership *domain.Membership) error
	DeleteMembership(ctx context.Context, bookID, userID string) error

	// Invitations. CreateInvitation returns ErrAlreadyExists when a pending
	// invitation for the same (book, email) exists; the check-then-insert is
	// backed by a partial unique index so concurrent creates serialize.
	CreateInvitation(ctx context.Context, invitation *domain.Invitation) error
	GetInvitation(ctx context.Context, id string) (*domain.Invitation, error)
	GetPendingInvitation(ctx context.Context, bookID, email string) (*domain.Invitation, error)
	ListInvitationsByBook(ctx context.Context, bookID string) ([]*domain.Invitation, error)
	ListInvitationsForEmail(ctx context.Context, email string) ([]*domain.Invitation, error)
	ListInvitationsByInviter(ctx context.Context, inviterID string) ([]*domain.Invitation, error)

	// TransitionInvitation conditionally moves a pending, unexpired
	// invitation to the given terminal status. Returns ErrNotPending when the
	// row was not pending anymore (or had lapsed) at write time, so exactly
	// one of several racing callers wins.
	TransitionInvitation(ctx context.Context, id string, to domain.InvitationStatus) error

	// AcceptInvitation performs the pending->accepted transition and the
	// membership upsert as one transaction: either both writes commit or
	// neither does, so an accepted invitation without a membership cannot be
	// persisted.
	AcceptInvitation(ctx context.Context, id, userID string) (*domain.Invitation, error)

	DeleteInvitation(ctx context.Context, id string) error

	// MarkExpiredInvitations moves pending invitations past their deadline to
	// the stored expired status. Returns the number of rows transitioned.
	MarkExpiredInvitations(ctx context.Context, now time.Time) (int, error)
}
