// Package app wires configuration, storage, adapters, and the HTTP
// server into a runnable application.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"IdeaSpark/internal/config"
	"IdeaSpark/internal/httpapi"
	"IdeaSpark/internal/infrastructure/blob"
	"IdeaSpark/internal/infrastructure/llm"
	"IdeaSpark/internal/infrastructure/producthunt"
	"IdeaSpark/internal/infrastructure/scrape"
	"IdeaSpark/internal/infrastructure/storage"
	"IdeaSpark/internal/logging"
	"IdeaSpark/internal/ports"
	"IdeaSpark/internal/prompt"
	"IdeaSpark/internal/usecase"
)

// Application holds the wired components and their lifecycle.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sql.DB
	server *http.Server
}

// New builds the application. Image storage stays unwired when no
// endpoint is configured; the image endpoints then report that state.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := storage.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate storage: %w", err)
	}

	ideas := storage.NewIdeaRepository(db)
	recipes := storage.NewRecipeRepository(db)

	var images ports.ImageStore
	if cfg.Images.Endpoint != "" {
		store, err := blob.NewMinioStore(cfg.Images, logging.Component(baseLogger, "images"))
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("wire image storage: %w", err)
		}
		images = store
	} else {
		baseLogger.Info("image storage endpoint not set, image endpoints disabled")
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Launches: producthunt.NewClient(cfg.ProductHunt, logging.Component(baseLogger, "producthunt")),
		Scraper:  scrape.New(nil, logging.Component(baseLogger, "scrape")),
		Chat:     llm.NewClient(cfg.Anthropic),
		Ideas:    ideas,
		Recipes:  recipes,
		Prompts:  prompt.NewBuilder(prompt.Config{}),
		Logger:   logging.Component(baseLogger, "pipeline"),
	})

	api := httpapi.NewServer(pipeline, ideas, recipes, images, logging.Component(baseLogger, "http"))
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           api.Routes(cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Application{cfg: cfg, logger: baseLogger, db: db, server: server}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "address", a.cfg.Server.Address)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.logger.Info("shutting down")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases held resources.
func (a *Application) Close() error {
	return a.db.Close()
}
