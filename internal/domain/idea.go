package domain

import "time"

// SourceKind selects where inspiration material comes from.
type SourceKind string

const (
	SourceLaunches SourceKind = "launches"
	SourceURL      SourceKind = "url"
	SourcePrompt   SourceKind = "prompt"
	SourceImage    SourceKind = "image"
)

// ValidSourceKind reports whether kind is one of the four known kinds.
func ValidSourceKind(kind SourceKind) bool {
	switch kind {
	case SourceLaunches, SourceURL, SourcePrompt, SourceImage:
		return true
	}
	return false
}

// Source is the normalized inspiration tuple fed into prompt building.
// Upvotes stays 0 for kinds that have no inherent vote count.
type Source struct {
	Name        string
	Description string
	URL         string
	Upvotes     int
	ImageURL    string
}

// PagePreview is what the URL scraper recovers from a page. Missing fields
// degrade to empty strings; a failed fetch degrades to {Title: url}.
type PagePreview struct {
	Title       string
	Description string
	ImageURL    string
}

// ImageInput carries inline image data for image-kind generation.
type ImageInput struct {
	MediaType  string
	Base64Data string
}

// GeneratedIdeaSet is the model output for one source, pre-normalization.
// TitleSummaries corresponds index-for-index with MiniIdeas but is never
// trusted to match its length. SourceName/SourceDescription only appear
// for image-kind generation.
type GeneratedIdeaSet struct {
	MiniIdeas         []string `json:"mini_ideas"`
	TitleSummaries    []string `json:"title_summaries"`
	SourceName        string   `json:"source_name,omitempty"`
	SourceDescription string   `json:"source_description,omitempty"`
}

// Idea is one persisted record: a source plus the idea lists generated
// from it on a given date.
type Idea struct {
	ID             int64
	Date           string // YYYY-MM-DD
	Name           string
	Description    string
	URL            string
	Upvotes        int
	Image          string
	MiniIdeas      []string
	TitleSummaries []string
	CreatedAt      time.Time
}

// Recipe is a storable prompt configuration. Source records which kind the
// recipe was written for; it is advisory only and never enforced.
type Recipe struct {
	ID          int64
	Name        string
	Description string
	PromptStyle string
	Exclusions  []string
	Source      SourceKind // empty when unset
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeSettings is the slice of a recipe that shapes prompt rendering.
// The zero value means "use the built-in defaults".
type RecipeSettings struct {
	PromptStyle string
	Exclusions  []string
}

// Settings extracts the prompt-shaping fields from a recipe.
func (r Recipe) Settings() RecipeSettings {
	return RecipeSettings{PromptStyle: r.PromptStyle, Exclusions: r.Exclusions}
}

// RecipePatch describes a partial recipe update; nil fields are untouched.
type RecipePatch struct {
	Name        *string
	Description *string
	PromptStyle *string
	Exclusions  *[]string
	Source      *SourceKind
}
