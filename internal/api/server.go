// Package api provides the HTTP API server and handlers for the recipe application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Ender778/recipe-management-app/internal/http/response"
	"github.com/Ender778/recipe-management-app/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService       *service.AuthService
	sessionService    *service.SessionService
	bookService       *service.BookService
	recipeService     *service.RecipeService
	invitationService *service.InvitationService
	authLimiter       *RateLimiter
	router            *chi.Mux
	logger            *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	sessionService *service.SessionService,
	bookService *service.BookService,
	recipeService *service.RecipeService,
	invitationService *service.InvitationService,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:       authService,
		sessionService:    sessionService,
		bookService:       bookService,
		recipeService:     recipeService,
		invitationService: invitationService,
		// 20 auth attempts per minute per IP, small burst
		authLimiter: NewRateLimiter(20, time.Minute, 5),
		router:      chi.NewRouter(),
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, rate limited by IP).
		r.Route("/auth", func(r chi.Router) {
			r.Use(RateLimitMiddleware(s.authLimiter, s.logger))
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
		})

		// Protected user endpoints.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
		})

		// Recipe books.
		r.Route("/books", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateBook)
			r.Get("/", s.handleListBooks)
			r.Get("/{id}", s.handleGetBook)
			r.Patch("/{id}", s.handleUpdateBook)
			r.Delete("/{id}", s.handleDeleteBook)
			r.Get("/{id}/recipes", s.handleListBookRecipes)
			r.Post("/{id}/recipes", s.handleCreateRecipe)
			r.Get("/{id}/members", s.handleListMembers)
			r.Delete("/{id}/members/{userID}", s.handleRemoveMember)
			r.Get("/{id}/invitations", s.handleListBookInvitations)
		})

		// Recipes across all accessible books.
		r.Route("/recipes", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListRecipes)
			r.Get("/{id}", s.handleGetRecipe)
			r.Patch("/{id}", s.handleUpdateRecipe)
			r.Delete("/{id}", s.handleDeleteRecipe)
		})

		// Invitations.
		r.Route("/invitations", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateInvitation)
			r.Get("/", s.handleListReceivedInvitations)
			r.Get("/sent", s.handleListSentInvitations)
			r.Get("/{id}", s.handleGetInvitation)
			r.Post("/{id}/accept", s.handleAcceptInvitation)
			r.Post("/{id}/decline", s.handleDeclineInvitation)
			r.Post("/{id}/revoke", s.handleRevokeInvitation)
			r.Delete("/{id}", s.handleDeleteInvitation)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
