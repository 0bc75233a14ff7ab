package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"IdeaSpark/internal/apperr"
)

const (
	maxUploadBytes  = 10 << 20 // 10 MiB
	heroPrefix      = "heroes/"
	recipeKeyPrefix = "recipes/"
)

// uploadImage accepts a multipart image and stores it under a fresh key.
// POST /api/upload
func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	if s.images == nil {
		respondError(w, s.logger, apperr.Configuration("image storage is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, s.logger, apperr.Validation("upload too large or malformed: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, s.logger, apperr.Validation("missing file field: %v", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(w, s.logger, apperr.Validation("unsupported content type %q", contentType))
		return
	}

	ext := strings.ToLower(path.Ext(header.Filename))
	if ext == "" {
		ext = extensionFor(contentType)
	}
	key := recipeKeyPrefix + uuid.NewString() + ext

	if err := s.images.Put(r.Context(), key, contentType, file, header.Size); err != nil {
		respondError(w, s.logger, fmt.Errorf("store upload: %w", err))
		return
	}

	s.logger.Info("image uploaded", "key", key, "size", header.Size)
	respondJSON(w, http.StatusCreated, map[string]any{
		"path": key,
		"url":  "/api/image?path=" + key,
	})
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".png"
	}
}

// serveImage streams one stored object.
// GET /api/image?path=recipes/abc.png
func (s *Server) serveImage(w http.ResponseWriter, r *http.Request) {
	if s.images == nil {
		respondError(w, s.logger, apperr.Configuration("image storage is not configured"))
		return
	}

	key := r.URL.Query().Get("path")
	if key == "" || strings.Contains(key, "..") {
		respondError(w, s.logger, apperr.Validation("invalid image path"))
		return
	}

	blob, err := s.images.Get(r.Context(), key)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	defer blob.Body.Close()

	if blob.ContentType != "" {
		w.Header().Set("Content-Type", blob.ContentType)
	}
	if blob.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	if blob.ETag != "" {
		w.Header().Set("ETag", blob.ETag)
	}

	if _, err := io.Copy(w, blob.Body); err != nil {
		s.logger.Debug("image stream interrupted", "key", key, "error", err)
	}
}

// listHeroImages enumerates the curated hero gallery.
// GET /api/hero-images
func (s *Server) listHeroImages(w http.ResponseWriter, r *http.Request) {
	if s.images == nil {
		respondJSON(w, http.StatusOK, map[string]any{"images": []string{}})
		return
	}

	infos, err := s.images.List(r.Context(), heroPrefix)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}

	type heroImage struct {
		Path string `json:"path"`
		URL  string `json:"url"`
	}
	images := make([]heroImage, 0, len(infos))
	for _, info := range infos {
		images = append(images, heroImage{Path: info.Key, URL: "/api/image?path=" + info.Key})
	}
	respondJSON(w, http.StatusOK, map[string]any{"images": images})
}
