package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Ender778/recipe-management-app/internal/domain"
	domainerrors "github.com/Ender778/recipe-management-app/internal/errors"
	"github.com/Ender778/recipe-management-app/internal/id"
	"github.com/Ender778/recipe-management-app/internal/store"
)

// BookService manages recipe books and their membership-annotated listings.
type BookService struct {
	store  store.Store
	access *AccessService
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store store.Store, access *AccessService, logger *slog.Logger) *BookService {
	return &BookService{
		store:  store,
		access: access,
		logger: logger,
	}
}

// CreateBookRequest contains the data for a new recipe book.
type CreateBookRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateBookRequest contains the updatable fields of a recipe book.
type UpdateBookRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// AnnotatedBook is a recipe book together with the caller's effective
// access to it.
type AnnotatedBook struct {
	*domain.RecipeBook
	Permission string `json:"permission"`
	IsOwner    bool   `json:"is_owner"`
}

// Create makes a new recipe book owned by the user. The owner's write
// membership is written in the same transaction as the book.
func (s *BookService) Create(ctx context.Context, ownerID string, req CreateBookRequest) (*domain.RecipeBook, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.RecipeBook{
		Syncable: domain.Syncable{
			ID: bookID,
		},
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
	}
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("recipe book created",
		"book_id", book.ID,
		"owner_id", ownerID,
	)

	return book, nil
}

// Get returns a book the user can read, annotated with their access.
func (s *BookService) Get(ctx context.Context, userID, bookID string) (*AnnotatedBook, error) {
	decision, err := s.access.AuthorizeBook(ctx, bookID, userID, domain.PermissionRead)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if err := DecisionError(decision, "view this book"); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	return &AnnotatedBook{
		RecipeBook: book,
		Permission: decision.Permission.String(),
		IsOwner:    decision.IsOwner,
	}, nil
}

// Update changes a book's name or description. Requires write access.
func (s *BookService) Update(ctx context.Context, userID, bookID string, req UpdateBookRequest) (*domain.RecipeBook, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	decision, err := s.access.AuthorizeBook(ctx, bookID, userID, domain.PermissionWrite)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if err := DecisionError(decision, "change this book"); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	if req.Name != nil {
		book.Name = *req.Name
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

// Delete removes a book with everything attached to it: recipes,
// memberships, and invitations. Only the owner may delete.
func (s *BookService) Delete(ctx context.Context, userID, bookID string) error {
	decision, err := s.access.AuthorizeBook(ctx, bookID, userID, domain.PermissionWrite)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	if err := DecisionError(decision, "delete this book"); err != nil {
		return err
	}
	if !decision.IsOwner {
		return domainerrors.Forbidden("only the owner can delete a book")
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info("recipe book deleted",
		"book_id", bookID,
		"user_id", userID,
	)

	return nil
}

// ListAccessible returns every book the user holds any membership on, each
// annotated with the effective permission and whether they own it.
func (s *BookService) ListAccessible(ctx context.Context, userID string) ([]*AnnotatedBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	books, err := s.store.ListBooksForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	memberships, err := s.store.ListMembershipsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	permByBook := make(map[string]domain.Permission, len(memberships))
	for _, m := range memberships {
		permByBook[m.BookID] = m.Permission
	}

	annotated := make([]*AnnotatedBook, 0, len(books))
	for _, book := range books {
		annotated = append(annotated, &AnnotatedBook{
			RecipeBook: book,
			Permission: permByBook[book.ID].String(),
			IsOwner:    book.IsOwnedBy(userID),
		})
	}
	return annotated, nil
}

// Members returns who has access to a book. Any member can see the list.
func (s *BookService) Members(ctx context.Context, userID, bookID string) ([]*domain.Membership, error) {
	decision, err := s.access.AuthorizeBook(ctx, bookID, userID, domain.PermissionRead)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if err := DecisionError(decision, "view this book"); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembershipsForBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return members, nil
}

// RemoveMember revokes another user's membership. The owner can remove
// anyone but themselves; members can remove themselves (leave).
func (s *BookService) RemoveMember(ctx context.Context, actorID, bookID, memberUserID string) error {
	decision, err := s.access.AuthorizeBook(ctx, bookID, actorID, domain.PermissionRead)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	if err := DecisionError(decision, "change this book's members"); err != nil {
		return err
	}

	if memberUserID != actorID && !decision.IsOwner {
		return domainerrors.Forbidden("only the owner can remove other members")
	}
	if memberUserID == actorID && decision.IsOwner {
		return domainerrors.Conflict("the owner cannot leave their own book")
	}

	if err := s.store.DeleteMembership(ctx, bookID, memberUserID); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	s.logger.Info("membership removed",
		"book_id", bookID,
		"member_user_id", memberUserID,
		"actor_id", actorID,
	)

	return nil
}
