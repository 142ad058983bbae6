package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ender778/recipe-management-app/internal/http/response"
	"github.com/Ender778/recipe-management-app/internal/service"
)

// handleCreateInvitation invites an email address to a book.
// POST /api/v1/invitations.
func (s *Server) handleCreateInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)

	var req service.CreateInvitationRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	invitation, err := s.invitationService.Create(ctx, user, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, invitation, s.logger)
}

// handleListReceivedInvitations returns invitations addressed to the caller.
// GET /api/v1/invitations.
func (s *Server) handleListReceivedInvitations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)

	invitations, err := s.invitationService.ListReceived(ctx, user)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, invitations, s.logger)
}

// handleListSentInvitations returns invitations the caller created.
// GET /api/v1/invitations/sent.
func (s *Server) handleListSentInvitations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)

	invitations, err := s.invitationService.ListSent(ctx, user)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, invitations, s.logger)
}

// handleGetInvitation returns one invitation visible to the caller.
// GET /api/v1/invitations/{id}.
func (s *Server) handleGetInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	invitation, err := s.invitationService.Get(ctx, user, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, invitation, s.logger)
}

// handleAcceptInvitation accepts an invitation addressed to the caller.
// POST /api/v1/invitations/{id}/accept.
func (s *Server) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	invitation, err := s.invitationService.Accept(ctx, user, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, invitation, s.logger)
}

// handleDeclineInvitation declines an invitation addressed to the caller.
// POST /api/v1/invitations/{id}/decline.
func (s *Server) handleDeclineInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	invitation, err := s.invitationService.Decline(ctx, user, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, invitation, s.logger)
}

// handleRevokeInvitation withdraws a pending invitation the caller sent.
// POST /api/v1/invitations/{id}/revoke.
func (s *Server) handleRevokeInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	invitation, err := s.invitationService.Revoke(ctx, user, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, invitation, s.logger)
}

// handleDeleteInvitation removes an invitation record.
// DELETE /api/v1/invitations/{id}.
func (s *Server) handleDeleteInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	if err := s.invitationService.Delete(ctx, user, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
