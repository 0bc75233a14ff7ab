package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/domain"
	"IdeaSpark/internal/usecase"
)

const defaultPageSize = 30

// ideaJSON is the wire shape of one stored record.
type ideaJSON struct {
	ID             int64    `json:"id"`
	Date           string   `json:"date"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	URL            string   `json:"url"`
	Upvotes        int      `json:"upvotes"`
	Image          string   `json:"image,omitempty"`
	MiniIdeas      []string `json:"mini_ideas"`
	TitleSummaries []string `json:"title_summaries"`
	CreatedAt      string   `json:"created_at"`
}

func toIdeaJSON(idea domain.Idea) ideaJSON {
	return ideaJSON{
		ID:             idea.ID,
		Date:           idea.Date,
		Name:           idea.Name,
		Description:    idea.Description,
		URL:            idea.URL,
		Upvotes:        idea.Upvotes,
		Image:          idea.Image,
		MiniIdeas:      idea.MiniIdeas,
		TitleSummaries: idea.TitleSummaries,
		CreatedAt:      idea.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// fetchIdeas runs launches-kind generation for one day.
// POST /api/fetch-ideas?date=YYYY-MM-DD
func (s *Server) fetchIdeas(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			respondError(w, s.logger, apperr.Validation("invalid date %q, expected YYYY-MM-DD", date))
			return
		}
	}

	res, err := s.pipeline.Generate(r.Context(), usecase.GenerateRequest{
		Kind: domain.SourceLaunches,
		Date: date,
	})
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"date":  res.Date,
		"count": res.Count,
	})
}

// generateRequest is the body of POST /api/generate. Image is raw base64
// or a full data URL.
type generateRequest struct {
	Type     string `json:"type" validate:"required,oneof=url prompt image"`
	URL      string `json:"url,omitempty" validate:"omitempty,url"`
	Prompt   string `json:"prompt,omitempty" validate:"omitempty,max=4000"`
	Image    string `json:"image,omitempty"`
	RecipeID int64  `json:"recipe_id,omitempty" validate:"omitempty,gt=0"`
}

// generate runs one generation for the url, prompt, or image kind.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.logger, apperr.Validation("invalid request body: %v", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, s.logger, apperr.Validation("validation failed: %v", err))
		return
	}

	res, err := s.pipeline.Generate(r.Context(), usecase.GenerateRequest{
		Kind:     domain.SourceKind(req.Type),
		URL:      req.URL,
		Prompt:   req.Prompt,
		Image:    domain.ImageInput{Base64Data: req.Image},
		RecipeID: req.RecipeID,
	})
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"date":  res.Date,
		"count": res.Count,
	})
}

type dateGroup struct {
	Date  string     `json:"date"`
	Ideas []ideaJSON `json:"ideas"`
}

func groupByDate(ideas []domain.Idea) []dateGroup {
	groups := make([]dateGroup, 0)
	for _, idea := range ideas {
		if n := len(groups); n == 0 || groups[n-1].Date != idea.Date {
			groups = append(groups, dateGroup{Date: idea.Date})
		}
		last := &groups[len(groups)-1]
		last.Ideas = append(last.Ideas, toIdeaJSON(idea))
	}
	return groups
}

// listIdeas returns stored records grouped by date, newest date first.
// GET /api/ideas?page=N&limit=M, or ?date=YYYY-MM-DD for one day.
func (s *Server) listIdeas(w http.ResponseWriter, r *http.Request) {
	if date := r.URL.Query().Get("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			respondError(w, s.logger, apperr.Validation("invalid date %q, expected YYYY-MM-DD", date))
			return
		}
		ideas, err := s.ideas.ByDate(r.Context(), date)
		if err != nil {
			respondError(w, s.logger, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"groups":  groupByDate(ideas),
			"hasMore": false,
		})
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPageSize)
	if page < 1 || limit < 1 || limit > 100 {
		respondError(w, s.logger, apperr.Validation("page must be >= 1 and limit in 1..100"))
		return
	}

	ideas, err := s.ideas.Page(r.Context(), limit, (page-1)*limit)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	total, err := s.ideas.Count(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"groups":  groupByDate(ideas),
		"page":    page,
		"total":   total,
		"hasMore": page*limit < total,
	})
}

// refreshIdea regenerates one record's idea lists in place.
// POST /api/ideas/{id}/refresh
func (s *Server) refreshIdea(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, s.logger, apperr.Validation("invalid idea id"))
		return
	}

	var body struct {
		RecipeID int64 `json:"recipe_id,omitempty"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, s.logger, apperr.Validation("invalid request body: %v", err))
			return
		}
	}

	res, err := s.pipeline.Refresh(r.Context(), id, body.RecipeID)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":              res.ID,
		"mini_ideas":      res.MiniIdeas,
		"title_summaries": res.TitleSummaries,
	})
}

// deleteIdeasByDate removes every record for one day.
// DELETE /api/ideas/{date}
func (s *Server) deleteIdeasByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, s.logger, apperr.Validation("invalid date %q, expected YYYY-MM-DD", date))
		return
	}

	deleted, err := s.ideas.DeleteByDate(r.Context(), date)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"date":    date,
		"deleted": deleted,
	})
}

// listDates returns the dates that carry records, newest first.
// GET /api/dates
func (s *Server) listDates(w http.ResponseWriter, r *http.Request) {
	dates, err := s.ideas.Dates(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"dates": dates})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return value
}
