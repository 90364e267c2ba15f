package repository

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
	"github.com/anime-shed/image-metrics-go/internal/storage"
)

type stubFetcher struct {
	format string
	calls  []string
}

func (s *stubFetcher) FetchImage(ctx context.Context, location string) (image.Image, string, error) {
	s.calls = append(s.calls, location)
	return image.NewGray(image.Rect(0, 0, 1, 1)), s.format, nil
}

func TestImageRepository_RoutesByScheme(t *testing.T) {
	web := &stubFetcher{format: "png"}
	blob := &stubFetcher{format: "jpeg"}
	repo := NewImageRepository(map[string]storage.ImageFetcher{
		"https":  web,
		"azblob": blob,
	})

	_, format, err := repo.FetchImage(context.Background(), "https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	_, format, err = repo.FetchImage(context.Background(), "azblob://images/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	assert.Equal(t, []string{"https://example.com/a.png"}, web.calls)
	assert.Equal(t, []string{"azblob://images/a.jpg"}, blob.calls)
}

func TestImageRepository_RejectsUnknownScheme(t *testing.T) {
	repo := NewImageRepository(map[string]storage.ImageFetcher{"https": &stubFetcher{}})

	_, _, err := repo.FetchImage(context.Background(), "http://example.com/a.png")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	assert.Error(t, repo.ValidateImageURL("azblob://images/a.png"))
	assert.NoError(t, repo.ValidateImageURL("https://example.com/a.png"))
}

func TestImageRepository_NilFetcher(t *testing.T) {
	repo := NewImageRepository(map[string]storage.ImageFetcher{"https": nil})

	_, _, err := repo.FetchImage(context.Background(), "https://example.com/a.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
}
