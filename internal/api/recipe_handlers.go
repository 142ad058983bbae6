package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ender778/recipe-management-app/internal/http/response"
	"github.com/Ender778/recipe-management-app/internal/service"
)

// handleCreateRecipe adds a recipe to a book.
// POST /api/v1/books/{id}/recipes.
func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	bookID := chi.URLParam(r, "id")

	var req service.CreateRecipeRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	recipe, err := s.recipeService.Create(ctx, user.ID, bookID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, recipe, s.logger)
}

// handleListBookRecipes returns all recipes in a book.
// GET /api/v1/books/{id}/recipes.
func (s *Server) handleListBookRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	bookID := chi.URLParam(r, "id")

	recipes, err := s.recipeService.ListForBook(ctx, user.ID, bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, recipes, s.logger)
}

// handleListRecipes returns every recipe across the caller's books.
// GET /api/v1/recipes.
func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)

	recipes, err := s.recipeService.ListAccessible(ctx, user.ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, recipes, s.logger)
}

// handleGetRecipe returns a single recipe with the caller's access annotation.
// GET /api/v1/recipes/{id}.
func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	recipe, err := s.recipeService.Get(ctx, user.ID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, recipe, s.logger)
}

// handleUpdateRecipe changes a recipe.
// PATCH /api/v1/recipes/{id}.
func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	var req service.UpdateRecipeRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	recipe, err := s.recipeService.Update(ctx, user.ID, id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, recipe, s.logger)
}

// handleDeleteRecipe removes a recipe.
// DELETE /api/v1/recipes/{id}.
func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := currentUser(ctx)
	id := chi.URLParam(r, "id")

	if err := s.recipeService.Delete(ctx, user.ID, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
