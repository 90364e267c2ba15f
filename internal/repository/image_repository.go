package repository

import (
	"context"
	"image"

	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
	"github.com/anime-shed/image-metrics-go/internal/storage"
	"github.com/anime-shed/image-metrics-go/pkg/validation"
)

// sourceRepository routes each URL to the fetcher registered for its scheme
type sourceRepository struct {
	validator *validation.URLValidator
	fetchers  map[string]storage.ImageFetcher
}

// NewImageRepository creates a repository over fetchers keyed by URL scheme
func NewImageRepository(fetchers map[string]storage.ImageFetcher) ImageRepository {
	schemes := make([]string, 0, len(fetchers))
	registered := make(map[string]storage.ImageFetcher, len(fetchers))
	for scheme, fetcher := range fetchers {
		schemes = append(schemes, scheme)
		registered[scheme] = fetcher
	}

	return &sourceRepository{
		validator: validation.NewURLValidatorWithOptions(schemes, nil),
		fetchers:  registered,
	}
}

// FetchImage retrieves an image from a URL
func (r *sourceRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, string, error) {
	parsed, err := r.validator.ParseImageURL(imageURL)
	if err != nil {
		return nil, "", err
	}

	fetcher := r.fetchers[parsed.Scheme]
	if fetcher == nil {
		return nil, "", apperrors.NewValidationError("no fetcher for scheme "+parsed.Scheme, ErrSourceUnavailable)
	}
	return fetcher.FetchImage(ctx, imageURL)
}

// ValidateImageURL validates if the provided URL is acceptable
func (r *sourceRepository) ValidateImageURL(imageURL string) error {
	return r.validator.ValidateImageURL(imageURL)
}
