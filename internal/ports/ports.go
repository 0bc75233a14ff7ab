package ports

import (
	"context"
	"io"
	"time"

	"IdeaSpark/internal/domain"
)

// LaunchSource pulls the top trending launches, optionally constrained to
// one calendar day (YYYY-MM-DD, empty for no constraint).
type LaunchSource interface {
	TopLaunches(ctx context.Context, date string) ([]domain.Source, error)
}

// PageScraper resolves a URL to preview metadata. It never fails outright:
// a total fetch failure degrades to {Title: url}.
type PageScraper interface {
	Scrape(ctx context.Context, pageURL string) domain.PagePreview
}

// ChatClient performs a single LLM completion, text-only or text+image.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithImage(ctx context.Context, prompt string, img domain.ImageInput) (string, error)
}

// IdeaRepository persists and reads generated idea records.
type IdeaRepository interface {
	Insert(ctx context.Context, idea *domain.Idea) error
	ByID(ctx context.Context, id int64) (domain.Idea, error)
	ByDate(ctx context.Context, date string) ([]domain.Idea, error)
	Page(ctx context.Context, limit, offset int) ([]domain.Idea, error)
	Count(ctx context.Context) (int, error)
	Dates(ctx context.Context) ([]string, error)
	UpdateIdeaLists(ctx context.Context, id int64, miniIdeas, titleSummaries []string) error
	DeleteByDate(ctx context.Context, date string) (int64, error)
}

// RecipeRepository stores prompt recipes.
type RecipeRepository interface {
	All(ctx context.Context) ([]domain.Recipe, error)
	ByID(ctx context.Context, id int64) (domain.Recipe, error)
	Default(ctx context.Context) (domain.Recipe, error)
	Create(ctx context.Context, recipe *domain.Recipe) error
	Update(ctx context.Context, id int64, patch domain.RecipePatch) (domain.Recipe, error)
	Delete(ctx context.Context, id int64) error
}

// BlobInfo describes one stored object.
type BlobInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// Blob is a stored object opened for reading.
type Blob struct {
	BlobInfo
	Body io.ReadCloser
}

// ImageStore is opaque object storage for uploaded and curated images.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Get(ctx context.Context, key string) (*Blob, error)
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
}
