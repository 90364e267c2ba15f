package storage

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
)

type azureStorage struct {
	client *azblob.Client
}

// NewAzureStorage creates a fetcher for azblob://<container>/<blob> URLs
// authenticated with a shared key.
func NewAzureStorage(accountName string, accountKey string) (ImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid Azure storage credentials", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create Azure blob client", err)
	}

	return &azureStorage{client: client}, nil
}

// ParseBlobURL splits azblob://<container>/<blob> into its parts
func ParseBlobURL(blobURL string) (container, blob string, err error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return "", "", apperrors.NewValidationError("invalid blob URL", err)
	}
	container = parsedURL.Host
	blob = strings.TrimPrefix(parsedURL.Path, "/")
	if container == "" || blob == "" {
		return "", "", apperrors.NewValidationError(
			fmt.Sprintf("blob URL %q must look like azblob://<container>/<blob>", blobURL), nil)
	}
	return container, blob, nil
}

// FetchImage downloads and decodes the blob named by blobURL
func (s *azureStorage) FetchImage(ctx context.Context, blobURL string) (image.Image, string, error) {
	containerName, blobName, err := ParseBlobURL(blobURL)
	if err != nil {
		return nil, "", err
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, "", apperrors.NewNotFoundError(fmt.Sprintf("blob %s/%s not found", containerName, blobName), err)
		}
		return nil, "", apperrors.NewNetworkError("blob download failed", err)
	}

	body := downloadResponse.Body
	defer body.Close()

	return DecodeImage(io.LimitReader(body, maxImageBytes))
}
