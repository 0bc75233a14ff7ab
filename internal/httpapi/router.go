// Package httpapi exposes the generation pipeline and stores over REST.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"IdeaSpark/internal/ports"
	"IdeaSpark/internal/usecase"
)

// Server bundles the handlers and their collaborators.
type Server struct {
	pipeline *usecase.Pipeline
	ideas    ports.IdeaRepository
	recipes  ports.RecipeRepository
	images   ports.ImageStore // nil when image storage is unconfigured
	logger   *slog.Logger
	validate *validator.Validate
}

// NewServer wires the REST surface.
func NewServer(pipeline *usecase.Pipeline, ideas ports.IdeaRepository, recipes ports.RecipeRepository, images ports.ImageStore, logger *slog.Logger) *Server {
	return &Server{
		pipeline: pipeline,
		ideas:    ideas,
		recipes:  recipes,
		images:   images,
		logger:   logger,
		validate: validator.New(),
	}
}

// Routes builds the router with standard middleware and CORS.
func (s *Server) Routes(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/fetch-ideas", s.fetchIdeas)
		r.Post("/generate", s.generate)

		r.Get("/ideas", s.listIdeas)
		r.Post("/ideas/{id}/refresh", s.refreshIdea)
		r.Delete("/ideas/{date}", s.deleteIdeasByDate)
		r.Get("/dates", s.listDates)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", s.listRecipes)
			r.Post("/", s.createRecipe)
			r.Get("/{id}", s.getRecipe)
			r.Put("/{id}", s.updateRecipe)
			r.Patch("/{id}", s.updateRecipe)
			r.Delete("/{id}", s.deleteRecipe)
		})

		r.Post("/upload", s.uploadImage)
		r.Get("/image", s.serveImage)
		r.Get("/hero-images", s.listHeroImages)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
