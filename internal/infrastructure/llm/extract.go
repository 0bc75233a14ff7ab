package llm

import (
	"encoding/json"
	"strings"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/domain"
)

// Shape declares the payload layout the caller expects from the model.
type Shape int

const (
	// ShapeSingle expects one object; an array wrapping a single object is
	// also accepted, taking the first object found.
	ShapeSingle Shape = iota
	// ShapeBatch expects an array of objects, index-aligned with the
	// source list.
	ShapeBatch
)

// Payload is the decoded model output, either a single idea set or a
// batch. Exactly one side is populated.
type Payload struct {
	Single *domain.GeneratedIdeaSet
	Batch  []domain.GeneratedIdeaSet
}

// ExtractJSON locates the first balanced top-level JSON value embedded in
// free-form model text using a greedy bracket scan: the slice from the
// first opening bracket to the last closing one. Models routinely wrap
// JSON in prose or fenced code blocks, so surrounding text is tolerated.
func ExtractJSON(text string, open, close byte) (string, error) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", apperr.ModelResponse("model response carries no %q-delimited JSON", string(open))
	}
	end := strings.LastIndexByte(text, close)
	if end < start {
		return "", apperr.ModelResponse("model response carries no closing %q", string(close))
	}
	return text[start : end+1], nil
}

// Decode extracts and parses the idea payload from raw model text
// according to the expected shape. This is the single shape-detection
// step: callers never branch on payload layout themselves. Extraction
// either succeeds completely or the generation attempt fails with a
// model-response error.
func Decode(text string, shape Shape) (Payload, error) {
	switch shape {
	case ShapeBatch:
		raw, err := ExtractJSON(text, '[', ']')
		if err != nil {
			return Payload{}, err
		}
		var sets []domain.GeneratedIdeaSet
		if err := json.Unmarshal([]byte(raw), &sets); err != nil {
			return Payload{}, apperr.Wrap(apperr.KindModelResponse, err, "model response is not a JSON array of idea sets")
		}
		return Payload{Batch: sets}, nil
	default:
		// The object scan runs from the first '{' to the last '}', so a
		// model answering with an array of exactly one object yields that
		// object's text and decodes cleanly.
		raw, err := ExtractJSON(text, '{', '}')
		if err != nil {
			return Payload{}, err
		}
		var set domain.GeneratedIdeaSet
		if err := json.Unmarshal([]byte(raw), &set); err != nil {
			return Payload{}, apperr.Wrap(apperr.KindModelResponse, err, "model response is not a JSON idea set")
		}
		return Payload{Single: &set}, nil
	}
}
