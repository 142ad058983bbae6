package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ender778/recipe-management-app/internal/domain"
	domainerrors "github.com/Ender778/recipe-management-app/internal/errors"
	"github.com/Ender778/recipe-management-app/internal/id"
	"github.com/Ender778/recipe-management-app/internal/store"
)

// InvitationService manages the invitation lifecycle: creation, acceptance,
// decline, revocation, and deletion. Acceptance is the only transition with
// a side effect (the membership upsert), and the store performs both writes
// in one transaction.
type InvitationService struct {
	store   store.Store
	access  *AccessService
	logger  *slog.Logger
	expiry  time.Duration
	baseURL string
}

// NewInvitationService creates a new invitation service. expiry is how long
// a pending invitation remains acceptable.
func NewInvitationService(store store.Store, access *AccessService, expiry time.Duration, baseURL string, logger *slog.Logger) *InvitationService {
	return &InvitationService{
		store:   store,
		access:  access,
		logger:  logger,
		expiry:  expiry,
		baseURL: baseURL,
	}
}

// CreateInvitationRequest contains the data to invite a user to a book.
type CreateInvitationRequest struct {
	BookID     string `json:"book_id" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Permission string `json:"permission" validate:"required,oneof=read write"`
}

// Create invites an email address to a recipe book. The inviter must hold
// write access on the book; a second pending invitation for the same
// (book, email) is a conflict.
func (s *InvitationService) Create(ctx context.Context, inviter *domain.User, req CreateInvitationRequest) (*domain.Invitation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	permission, ok := domain.ParsePermission(req.Permission)
	if !ok {
		return nil, domainerrors.Validation("permission must be read or write")
	}

	if inviter.EmailMatches(req.Email) {
		return nil, domainerrors.Validation("you already have access to this book")
	}

	decision, err := s.access.AuthorizeBook(ctx, req.BookID, inviter.ID, domain.PermissionWrite)
	if err != nil {
		return nil, fmt.Errorf("authorize inviter: %w", err)
	}
	if err := DecisionError(decision, "invite users to this book"); err != nil {
		return nil, err
	}

	// Duplicate check before insert. The partial unique index on pending
	// rows is the backstop for two creates racing past this read.
	_, err = s.store.GetPendingInvitation(ctx, req.BookID, req.Email)
	if err == nil {
		return nil, domainerrors.Conflict("invitation already sent")
	}
	if !domainerrors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check pending invitation: %w", err)
	}

	invitationID, err := id.Generate("invite")
	if err != nil {
		return nil, fmt.Errorf("generate invitation ID: %w", err)
	}

	now := time.Now()
	invitation := &domain.Invitation{
		Syncable: domain.Syncable{
			ID: invitationID,
		},
		BookID:           req.BookID,
		InvitedByUserID:  inviter.ID,
		InvitedUserEmail: req.Email,
		Permission:       permission,
		Status:           domain.InvitationPending,
		ExpiresAt:        now.Add(s.expiry),
	}
	invitation.InitTimestamps()

	if err := s.store.CreateInvitation(ctx, invitation); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("invitation already sent")
		}
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	// Email delivery is an external side channel; the invitation is valid
	// whether or not anything is ever sent.
	s.logger.Info("invitation created",
		"invitation_id", invitation.ID,
		"book_id", req.BookID,
		"invited_by", inviter.ID,
		"invited_email", req.Email,
		"permission", permission.String(),
		"expires_at", invitation.ExpiresAt,
		"link", s.invitationLink(invitation.ID),
	)

	return invitation, nil
}

// Accept takes the invitation on behalf of the acting user. Identity match
// is by email, not id: the invitee may not have had an account at invite
// time. On success the invitation is accepted and a membership with the
// invitation's permission exists, as one atomic unit.
func (s *InvitationService) Accept(ctx context.Context, actor *domain.User, invitationID string) (*domain.Invitation, error) {
	invitation, err := s.loadForTransition(ctx, actor, invitationID)
	if err != nil {
		return nil, err
	}

	accepted, err := s.store.AcceptInvitation(ctx, invitation.ID, actor.ID)
	if err != nil {
		return nil, s.transitionError(err)
	}

	s.logger.Info("invitation accepted",
		"invitation_id", invitation.ID,
		"book_id", invitation.BookID,
		"user_id", actor.ID,
		"permission", invitation.Permission.String(),
	)

	return accepted, nil
}

// Decline turns the invitation down. Same guards as Accept, no membership
// side effect.
func (s *InvitationService) Decline(ctx context.Context, actor *domain.User, invitationID string) (*domain.Invitation, error) {
	invitation, err := s.loadForTransition(ctx, actor, invitationID)
	if err != nil {
		return nil, err
	}

	if err := s.store.TransitionInvitation(ctx, invitation.ID, domain.InvitationDeclined); err != nil {
		return nil, s.transitionError(err)
	}

	s.logger.Info("invitation declined",
		"invitation_id", invitation.ID,
		"book_id", invitation.BookID,
		"user_id", actor.ID,
	)

	invitation.Status = domain.InvitationDeclined
	return invitation, nil
}

// Revoke withdraws a pending invitation. Only the original inviter may
// revoke; an invitee attempting it is refused and the invitation stays
// pending.
func (s *InvitationService) Revoke(ctx context.Context, actor *domain.User, invitationID string) (*domain.Invitation, error) {
	invitation, err := s.loadVisible(ctx, actor, invitationID)
	if err != nil {
		return nil, err
	}

	if invitation.InvitedByUserID != actor.ID {
		return nil, domainerrors.Forbidden("only the inviter can revoke an invitation")
	}
	if invitation.IsExpired() {
		return nil, domainerrors.Expired("invitation has expired")
	}

	if err := s.store.TransitionInvitation(ctx, invitation.ID, domain.InvitationRevoked); err != nil {
		return nil, s.transitionError(err)
	}

	s.logger.Info("invitation revoked",
		"invitation_id", invitation.ID,
		"book_id", invitation.BookID,
		"user_id", actor.ID,
	)

	invitation.Status = domain.InvitationRevoked
	return invitation, nil
}

// Delete removes the invitation record entirely. Either party may delete,
// in any status; deletion is not a state transition and never touches
// memberships.
func (s *InvitationService) Delete(ctx context.Context, actor *domain.User, invitationID string) error {
	invitation, err := s.loadVisible(ctx, actor, invitationID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteInvitation(ctx, invitation.ID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			// Lost a delete race; the record is gone either way.
			return nil
		}
		return fmt.Errorf("delete invitation: %w", err)
	}

	s.logger.Info("invitation deleted",
		"invitation_id", invitation.ID,
		"book_id", invitation.BookID,
		"user_id", actor.ID,
	)

	return nil
}

// Get returns an invitation visible to the actor.
func (s *InvitationService) Get(ctx context.Context, actor *domain.User, invitationID string) (*domain.Invitation, error) {
	return s.loadVisible(ctx, actor, invitationID)
}

// ListReceived returns the invitations addressed to the actor's email,
// newest first.
func (s *InvitationService) ListReceived(ctx context.Context, actor *domain.User) ([]*domain.Invitation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	invitations, err := s.store.ListInvitationsForEmail(ctx, actor.Email)
	if err != nil {
		return nil, fmt.Errorf("list invitations for email: %w", err)
	}
	return invitations, nil
}

// ListSent returns the invitations the actor created, newest first.
func (s *InvitationService) ListSent(ctx context.Context, actor *domain.User) ([]*domain.Invitation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	invitations, err := s.store.ListInvitationsByInviter(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list invitations by inviter: %w", err)
	}
	return invitations, nil
}

// ListForBook returns the invitations on a book. The caller needs write
// access, same as for creating them.
func (s *InvitationService) ListForBook(ctx context.Context, actor *domain.User, bookID string) ([]*domain.Invitation, error) {
	decision, err := s.access.AuthorizeBook(ctx, bookID, actor.ID, domain.PermissionWrite)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if err := DecisionError(decision, "list invitations for this book"); err != nil {
		return nil, err
	}

	invitations, err := s.store.ListInvitationsByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list invitations by book: %w", err)
	}
	return invitations, nil
}

// loadVisible fetches an invitation and hides it from anyone who is not a
// party to it. Outsiders get the same not-found a bogus id gets.
func (s *InvitationService) loadVisible(ctx context.Context, actor *domain.User, invitationID string) (*domain.Invitation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	invitation, err := s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("invitation not found")
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}

	if !invitation.IsParty(actor.ID, actor.Email) {
		return nil, domainerrors.NotFound("invitation not found")
	}
	return invitation, nil
}

// loadForTransition is the shared guard for accept and decline: the
// invitation must be visible, addressed to the actor, still pending, and
// not past its deadline. Expiry gets its own reason so the caller can tell
// "too late" from "not yours".
func (s *InvitationService) loadForTransition(ctx context.Context, actor *domain.User, invitationID string) (*domain.Invitation, error) {
	invitation, err := s.loadVisible(ctx, actor, invitationID)
	if err != nil {
		return nil, err
	}

	if !invitation.IsAddressedTo(actor.Email) {
		return nil, domainerrors.Forbidden("this invitation is not addressed to you")
	}
	if invitation.IsExpired() {
		return nil, domainerrors.Expired("invitation has expired")
	}
	if !invitation.IsPending() {
		return nil, domainerrors.Conflict("invitation is no longer pending")
	}
	return invitation, nil
}

// transitionError maps store-level transition failures. The conditional
// write re-checks status and deadline, so a caller that passed the read-time
// guard can still lose here to a concurrent winner.
func (s *InvitationService) transitionError(err error) error {
	switch {
	case domainerrors.Is(err, store.ErrNotPending):
		return domainerrors.Conflict("invitation is no longer pending")
	case domainerrors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("invitation not found")
	default:
		return fmt.Errorf("transition invitation: %w", err)
	}
}

// invitationLink builds the URL an invitee would follow. Empty when no
// public base URL is configured.
func (s *InvitationService) invitationLink(invitationID string) string {
	if s.baseURL == "" {
		return ""
	}
	return s.baseURL + "/invitations/" + invitationID
}
