package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ender778/recipe-management-app/internal/http/response"
	"github.com/Ender778/recipe-management-app/internal/service"
)

// handleCreateBook creates a recipe book owned by the caller.
// POST /api/v1/books.
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)

	var req service.CreateBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.bookService.Create(ctx, user.ID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, book, s.logger)
}

// handleListBooks returns every book the caller has access to.
// GET /api/v1/books.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)

	books, err := s.bookService.ListAccessible(ctx, user.ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleGetBook returns a single book with the caller's access annotation.
// GET /api/v1/books/{id}.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	book, err := s.bookService.Get(ctx, user.ID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleUpdateBook changes a book's name or description.
// PATCH /api/v1/books/{id}.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	var req service.UpdateBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.bookService.Update(ctx, user.ID, id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleDeleteBook deletes a book and everything in it.
// DELETE /api/v1/books/{id}.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	if err := s.bookService.Delete(ctx, user.ID, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleListMembers returns who has access to a book.
// GET /api/v1/books/{id}/members.
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	members, err := s.bookService.Members(ctx, user.ID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, members, s.logger)
}

// handleRemoveMember revokes a membership, or lets a member leave.
// DELETE /api/v1/books/{id}/members/{userID}.
func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")
	memberUserID := chi.URLParam(r, "userID")

	if err := s.bookService.RemoveMember(ctx, user.ID, id, memberUserID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleListBookInvitations returns the invitations on a book.
// GET /api/v1/books/{id}/invitations.
func (s *Server) handleListBookInvitations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	invitations, err := s.invitationService.ListForBook(ctx, user, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, invitations, s.logger)
}
