// Package prompt renders the instruction templates that drive idea
// generation. The baseline style and exclusion list are configuration
// supplied at construction time; recipe settings override them per call.
package prompt

import (
	"fmt"
	"strings"

	"IdeaSpark/internal/domain"
)

const baselineStyle = "Focus on web apps or Chrome extensions that are buildable in a weekend. " +
	"AI agent ideas are encouraged - automations, bots, or AI-powered tools."

var baselineExclusions = []string{
	"embedding external content (TikTok, YouTube, etc.)",
	"video generation tools",
	"A/B testing tools",
}

// Config overrides the compiled-in baseline. Zero fields keep the baseline.
type Config struct {
	Style      string
	Exclusions []string
}

// Builder renders launch-batch, single-source, and image instruction
// templates.
type Builder struct {
	style      string
	exclusions []string
}

// NewBuilder constructs a Builder with the baseline defaults, overridden by
// cfg where set.
func NewBuilder(cfg Config) *Builder {
	b := &Builder{style: baselineStyle, exclusions: baselineExclusions}
	if strings.TrimSpace(cfg.Style) != "" {
		b.style = cfg.Style
	}
	if len(cfg.Exclusions) > 0 {
		b.exclusions = cfg.Exclusions
	}
	return b
}

func (b *Builder) resolve(settings domain.RecipeSettings) (string, []string) {
	style := b.style
	if strings.TrimSpace(settings.PromptStyle) != "" {
		style = settings.PromptStyle
	}
	exclusions := b.exclusions
	if len(settings.Exclusions) > 0 {
		exclusions = settings.Exclusions
	}
	return style, exclusions
}

func exclusionLines(exclusions []string) string {
	lines := make([]string, 0, len(exclusions))
	for _, topic := range exclusions {
		lines = append(lines, "- NO ideas involving "+topic)
	}
	return strings.Join(lines, "\n")
}

// Launches renders the multi-source template: one idea set is requested per
// launch, in launch order.
func (b *Builder) Launches(sources []domain.Source, settings domain.RecipeSettings) string {
	style, exclusions := b.resolve(settings)

	products := make([]string, 0, len(sources))
	for i, src := range sources {
		products = append(products, fmt.Sprintf("%d. %s - %s", i+1, src.Name, src.Description))
	}

	return fmt.Sprintf(`You are a creative indie hacker looking for weekend project ideas. Analyze these top %d trending launches and use them as INSPIRATION to generate 3 unique project ideas for each.

IMPORTANT GUIDELINES:
- Ideas should be buildable by a solo developer in a weekend
- %s
%s
- Don't just simplify the original product - create something NEW inspired by the core concept
- Each idea should be 1-2 sentences describing what it does and why it's useful
- Be specific and actionable

Products:
%s

Return a JSON array with this structure - one object for each product (%d total):
[
  {
    "mini_ideas": ["first idea", "second idea", "third idea"],
    "title_summaries": ["Short Title 1", "Short Title 2", "Short Title 3"]
  }
]

For title_summaries:
- Create a concise title for each idea (MAXIMUM 6 WORDS)
- The title should capture the essence of the idea
- Make it catchy and descriptive
- Each title should correspond to the idea at the same index in mini_ideas array`,
		len(sources), style, exclusionLines(exclusions), strings.Join(products, "\n"), len(sources))
}

// Single renders the single-source template used for URL and prompt kinds,
// and for refreshing one existing record.
func (b *Builder) Single(source domain.Source, settings domain.RecipeSettings) string {
	style, exclusions := b.resolve(settings)

	urlLine := ""
	if source.URL != "" && !strings.HasPrefix(source.URL, "#") {
		urlLine = "URL: " + source.URL + "\n"
	}

	return fmt.Sprintf(`You are a creative indie hacker looking for weekend project ideas. Analyze this inspiration source and generate 3 unique project ideas.

INSPIRATION SOURCE:
Name: %s
Description: %s
%s
IMPORTANT GUIDELINES:
- Ideas should be buildable by a solo developer in a weekend
- %s
%s
- Don't just simplify the original product - create something NEW inspired by the core concept
- Each idea should be 1-2 sentences describing what it does and why it's useful
- Be specific and actionable

Return a JSON object with this structure:
{
  "mini_ideas": ["first idea", "second idea", "third idea"],
  "title_summaries": ["Short Title 1", "Short Title 2", "Short Title 3"]
}

For title_summaries:
- Create a concise title for each idea (MAXIMUM 6 WORDS)
- The title should capture the essence of the idea
- Make it catchy and descriptive`,
		source.Name, source.Description, urlLine, style, exclusionLines(exclusions))
}

// Image renders the image template. Because no textual source metadata
// exists, the model is additionally asked to describe the image content.
func (b *Builder) Image(auxiliaryText string, settings domain.RecipeSettings) string {
	style, exclusions := b.resolve(settings)

	contextLine := ""
	if strings.TrimSpace(auxiliaryText) != "" {
		contextLine = "Additional context: " + auxiliaryText + "\n"
	}

	return fmt.Sprintf(`Analyze this image/screenshot and generate 3 unique weekend project ideas inspired by what you see.

%s
IMPORTANT GUIDELINES:
- Ideas should be buildable by a solo developer in a weekend
- %s
%s
- Each idea should be 1-2 sentences describing what it does and why it's useful
- Be specific and actionable

Return a JSON object with this structure:
{
  "source_name": "Brief name describing what's in the image",
  "source_description": "One sentence describing the image content",
  "mini_ideas": ["first idea", "second idea", "third idea"],
  "title_summaries": ["Short Title 1", "Short Title 2", "Short Title 3"]
}

For title_summaries:
- Create a concise title for each idea (MAXIMUM 6 WORDS)
- The title should capture the essence of the idea`,
		contextLine, style, exclusionLines(exclusions))
}
