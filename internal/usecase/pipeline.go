// Package usecase orchestrates the generation workflow: source material
// in, prompt out, model response decoded and persisted.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/domain"
	"IdeaSpark/internal/infrastructure/llm"
	"IdeaSpark/internal/ports"
	"IdeaSpark/internal/prompt"
)

// PipelineDeps wires all driven adapters into the generation pipeline.
type PipelineDeps struct {
	Launches ports.LaunchSource
	Scraper  ports.PageScraper
	Chat     ports.ChatClient
	Ideas    ports.IdeaRepository
	Recipes  ports.RecipeRepository
	Prompts  *prompt.Builder
	Logger   *slog.Logger
	Now      func() time.Time
}

// Pipeline implements the idea-generation workflow for all source kinds.
type Pipeline struct {
	launches ports.LaunchSource
	scraper  ports.PageScraper
	chat     ports.ChatClient
	ideas    ports.IdeaRepository
	recipes  ports.RecipeRepository
	prompts  *prompt.Builder
	logger   *slog.Logger
	now      func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prompts := deps.Prompts
	if prompts == nil {
		prompts = prompt.NewBuilder(prompt.Config{})
	}
	return &Pipeline{
		launches: deps.Launches,
		scraper:  deps.Scraper,
		chat:     deps.Chat,
		ideas:    deps.Ideas,
		recipes:  deps.Recipes,
		prompts:  prompts,
		logger:   logger,
		now:      now,
	}
}

// GenerateRequest selects the source material for one generation run.
// Exactly one of Date/URL/Prompt/Image is meaningful depending on Kind.
type GenerateRequest struct {
	Kind     domain.SourceKind
	Date     string // launches: YYYY-MM-DD, empty for "today"
	URL      string
	Prompt   string
	Image    domain.ImageInput
	RecipeID int64 // 0 selects the default recipe
}

// GenerateResult reports what one run produced.
type GenerateResult struct {
	Date  string
	Count int
}

// Generate runs one end-to-end generation for the requested source kind.
func (p *Pipeline) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if !domain.ValidSourceKind(req.Kind) {
		return GenerateResult{}, apperr.Validation("unknown source kind %q", req.Kind)
	}

	date := req.Date
	if date == "" {
		date = p.now().UTC().Format("2006-01-02")
	}

	settings := p.recipeSettings(ctx, req.RecipeID)

	switch req.Kind {
	case domain.SourceLaunches:
		return p.generateLaunches(ctx, date, settings)
	case domain.SourceURL:
		return p.generateURL(ctx, date, req.URL, settings)
	case domain.SourcePrompt:
		return p.generatePrompt(ctx, date, req.Prompt, settings)
	default:
		return p.generateImage(ctx, date, req, settings)
	}
}

// recipeSettings resolves the recipe to apply. Every lookup failure
// degrades to the built-in defaults so a broken recipe table never blocks
// generation.
func (p *Pipeline) recipeSettings(ctx context.Context, recipeID int64) domain.RecipeSettings {
	if p.recipes == nil {
		return domain.RecipeSettings{}
	}

	var (
		recipe domain.Recipe
		err    error
	)
	if recipeID > 0 {
		recipe, err = p.recipes.ByID(ctx, recipeID)
	} else {
		recipe, err = p.recipes.Default(ctx)
	}
	if err != nil {
		p.logger.Warn("recipe lookup failed, using baseline prompt",
			"recipe_id", recipeID, "error", err)
		return domain.RecipeSettings{}
	}
	return recipe.Settings()
}

func (p *Pipeline) generateLaunches(ctx context.Context, date string, settings domain.RecipeSettings) (GenerateResult, error) {
	sources, err := p.launches.TopLaunches(ctx, date)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("fetch launches: %w", err)
	}

	text, err := p.chat.Complete(ctx, p.prompts.Launches(sources, settings))
	if err != nil {
		return GenerateResult{}, fmt.Errorf("complete launches prompt: %w", err)
	}

	payload, err := llm.Decode(text, llm.ShapeBatch)
	if err != nil {
		return GenerateResult{}, err
	}

	count := 0
	for i, src := range sources {
		set := domain.GeneratedIdeaSet{}
		if i < len(payload.Batch) {
			set = payload.Batch[i]
		} else {
			p.logger.Warn("model returned fewer idea sets than launches",
				"launch", src.Name, "index", i, "sets", len(payload.Batch))
		}

		idea := domain.Idea{
			Date:           date,
			Name:           src.Name,
			Description:    src.Description,
			URL:            src.URL,
			Upvotes:        src.Upvotes,
			Image:          src.ImageURL,
			MiniIdeas:      set.MiniIdeas,
			TitleSummaries: set.TitleSummaries,
		}
		if err := p.ideas.Insert(ctx, &idea); err != nil {
			return GenerateResult{Date: date, Count: count}, fmt.Errorf("insert idea for %q: %w", src.Name, err)
		}
		count++
	}

	p.logger.Info("launches generation complete", "date", date, "records", count)
	return GenerateResult{Date: date, Count: count}, nil
}

func (p *Pipeline) generateURL(ctx context.Context, date, pageURL string, settings domain.RecipeSettings) (GenerateResult, error) {
	if strings.TrimSpace(pageURL) == "" {
		return GenerateResult{}, apperr.Validation("url is required for url generation")
	}

	preview := p.scraper.Scrape(ctx, pageURL)
	source := domain.Source{
		Name:        preview.Title,
		Description: preview.Description,
		URL:         pageURL,
		ImageURL:    preview.ImageURL,
	}
	return p.generateSingle(ctx, date, source, settings)
}

func (p *Pipeline) generatePrompt(ctx context.Context, date, userPrompt string, settings domain.RecipeSettings) (GenerateResult, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return GenerateResult{}, apperr.Validation("prompt text is required for prompt generation")
	}

	source := domain.Source{
		Name:        "Custom Prompt",
		Description: userPrompt,
		URL:         "#prompt",
	}
	return p.generateSingle(ctx, date, source, settings)
}

// generateSingle runs the single-source flow shared by the url and prompt
// kinds: one completion, one stored record.
func (p *Pipeline) generateSingle(ctx context.Context, date string, source domain.Source, settings domain.RecipeSettings) (GenerateResult, error) {
	text, err := p.chat.Complete(ctx, p.prompts.Single(source, settings))
	if err != nil {
		return GenerateResult{}, fmt.Errorf("complete single prompt: %w", err)
	}

	payload, err := llm.Decode(text, llm.ShapeSingle)
	if err != nil {
		return GenerateResult{}, err
	}
	set := *payload.Single

	idea := domain.Idea{
		Date:           date,
		Name:           source.Name,
		Description:    source.Description,
		URL:            source.URL,
		Upvotes:        source.Upvotes,
		Image:          source.ImageURL,
		MiniIdeas:      set.MiniIdeas,
		TitleSummaries: set.TitleSummaries,
	}
	if err := p.ideas.Insert(ctx, &idea); err != nil {
		return GenerateResult{}, fmt.Errorf("insert idea: %w", err)
	}

	p.logger.Info("single-source generation complete",
		"date", date, "source", source.Name, "ideas", len(idea.MiniIdeas))
	return GenerateResult{Date: date, Count: len(idea.Normalize().MiniIdeas)}, nil
}

func (p *Pipeline) generateImage(ctx context.Context, date string, req GenerateRequest, settings domain.RecipeSettings) (GenerateResult, error) {
	img, err := normalizeImageInput(req.Image)
	if err != nil {
		return GenerateResult{}, err
	}

	text, err := p.chat.CompleteWithImage(ctx, p.prompts.Image(req.Prompt, settings), img)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("complete image prompt: %w", err)
	}

	payload, err := llm.Decode(text, llm.ShapeSingle)
	if err != nil {
		return GenerateResult{}, err
	}
	set := *payload.Single

	name := strings.TrimSpace(set.SourceName)
	if name == "" {
		name = "Screenshot"
	}
	description := strings.TrimSpace(set.SourceDescription)
	if description == "" {
		description = strings.TrimSpace(req.Prompt)
	}
	if description == "" {
		description = "Inspired by screenshot"
	}

	idea := domain.Idea{
		Date:           date,
		Name:           name,
		Description:    description,
		URL:            "#screenshot",
		MiniIdeas:      set.MiniIdeas,
		TitleSummaries: set.TitleSummaries,
	}
	if err := p.ideas.Insert(ctx, &idea); err != nil {
		return GenerateResult{}, fmt.Errorf("insert idea: %w", err)
	}

	p.logger.Info("image generation complete", "date", date, "source", name)
	return GenerateResult{Date: date, Count: len(idea.Normalize().MiniIdeas)}, nil
}

// RefreshResult carries the regenerated lists for one record.
type RefreshResult struct {
	ID             int64
	MiniIdeas      []string
	TitleSummaries []string
}

// Refresh regenerates the idea lists for one stored record in place,
// keeping its source fields.
func (p *Pipeline) Refresh(ctx context.Context, id int64, recipeID int64) (RefreshResult, error) {
	idea, err := p.ideas.ByID(ctx, id)
	if err != nil {
		return RefreshResult{}, err
	}

	settings := p.recipeSettings(ctx, recipeID)
	source := domain.Source{
		Name:        idea.Name,
		Description: idea.Description,
		URL:         idea.URL,
	}

	text, err := p.chat.Complete(ctx, p.prompts.Single(source, settings))
	if err != nil {
		return RefreshResult{}, fmt.Errorf("complete refresh prompt: %w", err)
	}

	payload, err := llm.Decode(text, llm.ShapeSingle)
	if err != nil {
		return RefreshResult{}, err
	}
	set := *payload.Single

	if err := p.ideas.UpdateIdeaLists(ctx, id, set.MiniIdeas, set.TitleSummaries); err != nil {
		return RefreshResult{}, err
	}

	refreshed := domain.Idea{MiniIdeas: set.MiniIdeas, TitleSummaries: set.TitleSummaries}.Normalize()
	p.logger.Info("record refreshed", "id", id, "ideas", len(refreshed.MiniIdeas))
	return RefreshResult{
		ID:             id,
		MiniIdeas:      refreshed.MiniIdeas,
		TitleSummaries: refreshed.TitleSummaries,
	}, nil
}
