package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/domain"
)

// recipeJSON is the wire shape of one recipe.
type recipeJSON struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	PromptStyle string   `json:"prompt_style,omitempty"`
	Exclusions  []string `json:"exclusions"`
	Source      string   `json:"source,omitempty"`
	IsDefault   bool     `json:"is_default"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func toRecipeJSON(r domain.Recipe) recipeJSON {
	return recipeJSON{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		PromptStyle: r.PromptStyle,
		Exclusions:  r.Exclusions,
		Source:      string(r.Source),
		IsDefault:   r.IsDefault,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// listRecipes returns all recipes, default first.
// GET /api/recipes
func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.All(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	out := make([]recipeJSON, 0, len(recipes))
	for _, recipe := range recipes {
		out = append(out, toRecipeJSON(recipe))
	}
	respondJSON(w, http.StatusOK, map[string]any{"recipes": out})
}

// getRecipe returns one recipe.
// GET /api/recipes/{id}
func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, s.logger, apperr.Validation("invalid recipe id"))
		return
	}

	recipe, err := s.recipes.ByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecipeJSON(recipe))
}

// createRecipeRequest is the body of POST /api/recipes.
type createRecipeRequest struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=500"`
	PromptStyle string   `json:"prompt_style,omitempty" validate:"omitempty,max=2000"`
	Exclusions  []string `json:"exclusions,omitempty" validate:"omitempty,max=20,dive,max=200"`
	Source      string   `json:"source,omitempty" validate:"omitempty,oneof=launches url prompt image"`
}

// createRecipe stores a new non-default recipe.
func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	var req createRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.logger, apperr.Validation("invalid request body: %v", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, s.logger, apperr.Validation("validation failed: %v", err))
		return
	}

	recipe := domain.Recipe{
		Name:        req.Name,
		Description: req.Description,
		PromptStyle: req.PromptStyle,
		Exclusions:  req.Exclusions,
		Source:      domain.SourceKind(req.Source),
	}
	if err := s.recipes.Create(r.Context(), &recipe); err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toRecipeJSON(recipe))
}

// updateRecipeRequest is the body of PUT/PATCH /api/recipes/{id}; absent
// fields stay untouched.
type updateRecipeRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,max=120"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
	PromptStyle *string   `json:"prompt_style,omitempty" validate:"omitempty,max=2000"`
	Exclusions  *[]string `json:"exclusions,omitempty" validate:"omitempty,max=20,dive,max=200"`
	Source      *string   `json:"source,omitempty" validate:"omitempty,oneof=launches url prompt image"`
}

// updateRecipe applies a partial update.
func (s *Server) updateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, s.logger, apperr.Validation("invalid recipe id"))
		return
	}

	var req updateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.logger, apperr.Validation("invalid request body: %v", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, s.logger, apperr.Validation("validation failed: %v", err))
		return
	}

	patch := domain.RecipePatch{
		Name:        req.Name,
		Description: req.Description,
		PromptStyle: req.PromptStyle,
		Exclusions:  req.Exclusions,
	}
	if req.Source != nil {
		kind := domain.SourceKind(*req.Source)
		patch.Source = &kind
	}

	recipe, err := s.recipes.Update(r.Context(), id, patch)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toRecipeJSON(recipe))
}

// deleteRecipe removes a non-default recipe.
// DELETE /api/recipes/{id}
func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, s.logger, apperr.Validation("invalid recipe id"))
		return
	}

	if err := s.recipes.Delete(r.Context(), id); err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
