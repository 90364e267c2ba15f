package repository

import (
	"context"
	"image"
)

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// FetchImage retrieves and decodes the image at imageURL. The string
	// result is the decoded format.
	FetchImage(ctx context.Context, imageURL string) (image.Image, string, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error
}
