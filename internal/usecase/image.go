package usecase

import (
	"strings"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/domain"
)

// normalizeImageInput accepts raw base64 or a full data URL and returns a
// clean payload for the model. The media type defaults to PNG when the
// caller supplies none and the data carries no data-URL header.
func normalizeImageInput(img domain.ImageInput) (domain.ImageInput, error) {
	data := strings.TrimSpace(img.Base64Data)
	if data == "" {
		return domain.ImageInput{}, apperr.Validation("image data is required for image generation")
	}

	mediaType := strings.TrimSpace(img.MediaType)
	if strings.HasPrefix(data, "data:") {
		header, rest, ok := strings.Cut(data, ",")
		if !ok {
			return domain.ImageInput{}, apperr.Validation("malformed image data url")
		}
		data = rest
		if mediaType == "" {
			mediaType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		}
	}
	if mediaType == "" {
		mediaType = "image/png"
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return domain.ImageInput{}, apperr.Validation("unsupported image media type %q", mediaType)
	}

	return domain.ImageInput{MediaType: mediaType, Base64Data: data}, nil
}
