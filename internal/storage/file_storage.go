package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"

	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
)

// FileImageLoader reads images from the local filesystem
type FileImageLoader struct{}

// NewFileImageLoader creates a filesystem image loader
func NewFileImageLoader() *FileImageLoader {
	return &FileImageLoader{}
}

// FetchImage opens path and decodes it. A missing path is reported before
// anything is read.
func (l *FileImageLoader) FetchImage(ctx context.Context, path string) (image.Image, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", apperrors.NewFileNotFoundError(path, err)
		}
		return nil, "", apperrors.NewInternalError(fmt.Sprintf("cannot access %s", path), err)
	}
	if info.IsDir() {
		return nil, "", apperrors.NewFileNotFoundError(path, fmt.Errorf("%s is a directory", path))
	}

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", apperrors.NewInternalError(fmt.Sprintf("cannot open %s", path), err)
	}
	defer f.Close()

	return DecodeImage(f)
}
