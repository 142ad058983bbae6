// Package service provides the business logic layer for recipe books,
// recipes, memberships, and invitations.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Ender778/recipe-management-app/internal/domain"
	domainerrors "github.com/Ender778/recipe-management-app/internal/errors"
	"github.com/Ender778/recipe-management-app/internal/store"
)

// AccessService decides who may act on recipe books and recipes. Decisions
// come back as domain.AccessDecision values; an error return always means
// the store failed, and a storage failure never grants access.
type AccessService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAccessService creates a new access service.
func NewAccessService(store store.Store, logger *slog.Logger) *AccessService {
	return &AccessService{
		store:  store,
		logger: logger,
	}
}

// EvaluateBookAccess reports whether, and at what level, a user may act on a
// book. A user with no membership has no access; membership on one book
// never implies anything about another.
func (s *AccessService) EvaluateBookAccess(ctx context.Context, bookID, userID string) (domain.BookAccess, error) {
	if err := ctx.Err(); err != nil {
		return domain.BookAccess{}, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domain.BookAccess{}, nil
		}
		return domain.BookAccess{}, fmt.Errorf("get book: %w", err)
	}

	membership, err := s.store.GetMembership(ctx, bookID, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domain.BookAccess{}, nil
		}
		return domain.BookAccess{}, fmt.Errorf("get membership: %w", err)
	}

	return domain.BookAccess{
		HasAccess:  true,
		Permission: membership.Permission,
		IsOwner:    book.IsOwnedBy(userID),
	}, nil
}

// AuthorizeBook checks a user against a required permission on a book.
// The decision distinguishes a missing book, a missing membership, and a
// membership below the required level; the first two both present as
// not-found to the caller.
func (s *AccessService) AuthorizeBook(ctx context.Context, bookID, userID string, required domain.Permission) (domain.AccessDecision, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccessDecision{}, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domain.Deny(domain.DenialNotFound), nil
		}
		return domain.AccessDecision{}, fmt.Errorf("get book: %w", err)
	}

	membership, err := s.store.GetMembership(ctx, bookID, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domain.Deny(domain.DenialNoAccess), nil
		}
		return domain.AccessDecision{}, fmt.Errorf("get membership: %w", err)
	}

	if !membership.Permission.Satisfies(required) {
		return domain.Deny(domain.DenialInsufficientPermission), nil
	}

	return domain.Allow(membership.Permission, book.IsOwnedBy(userID)), nil
}

// AuthorizeRecipe checks a user against a required permission on a recipe.
// The recipe resolves to its owning book and the decision is the book's; no
// permission state lives on the recipe itself. An unresolvable recipe is a
// plain not-found, whether or not the id ever existed.
func (s *AccessService) AuthorizeRecipe(ctx context.Context, recipeID, userID string, required domain.Permission) (domain.AccessDecision, string, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccessDecision{}, "", err
	}

	bookID, err := s.store.GetRecipeBookID(ctx, recipeID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domain.Deny(domain.DenialNotFound), "", nil
		}
		return domain.AccessDecision{}, "", fmt.Errorf("resolve recipe book: %w", err)
	}

	decision, err := s.AuthorizeBook(ctx, bookID, userID, required)
	if err != nil {
		return domain.AccessDecision{}, "", err
	}
	return decision, bookID, nil
}

// DecisionError converts a denial into the coded error the denied action
// surfaces as. Allowed decisions return nil.
func DecisionError(decision domain.AccessDecision, action string) error {
	if decision.Allowed {
		return nil
	}
	switch decision.Reason {
	case domain.DenialInsufficientPermission:
		return domainerrors.Forbiddenf("you do not have permission to %s", action)
	default:
		// NOT_FOUND and NO_ACCESS are deliberately indistinguishable.
		return domainerrors.NotFoundf("cannot %s: not found", action)
	}
}
