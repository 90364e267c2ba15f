package storage

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
	"github.com/anime-shed/image-metrics-go/internal/logger"
)

const maxFetchAttempts = 3

// HTTPImageFetcher downloads images over http and https with retries on
// transient failures.
type HTTPImageFetcher struct {
	client   *http.Client
	backoff  time.Duration // delay before retry n is n*backoff
	maxBytes int64
}

// NewHTTPImageFetcher creates an HTTP image fetcher
func NewHTTPImageFetcher(timeout time.Duration) *HTTPImageFetcher {
	// Connection pooling tuned for single image downloads
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		backoff:  time.Second,
		maxBytes: maxImageBytes,
	}
}

// FetchImage downloads and decodes imageURL. 5xx responses and transport
// errors are retried; 4xx responses are not.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", apperrors.NewValidationError("invalid URL", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, image/bmp, image/tiff, */*")
	req.Header.Set("User-Agent", "image-metrics/1.0")

	var lastErr error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, "", apperrors.NewTimeoutError("image download interrupted", ctx.Err())
			case <-time.After(time.Duration(attempt) * h.backoff):
			}
		}

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			logger.WithFields(logrus.Fields{
				"url":     imageURL,
				"attempt": attempt + 1,
				"error":   err.Error(),
			}).Warn("Image download failed")
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			defer resp.Body.Close()
			if resp.ContentLength > h.maxBytes {
				return nil, "", apperrors.NewValidationError(
					fmt.Sprintf("image is %d bytes, limit is %d", resp.ContentLength, h.maxBytes), nil)
			}
			return DecodeImage(io.LimitReader(resp.Body, h.maxBytes))

		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			resp.Body.Close()
			if resp.StatusCode == http.StatusNotFound {
				return nil, "", apperrors.NewNotFoundError(
					fmt.Sprintf("client error: status code %d", resp.StatusCode), nil)
			}
			return nil, "", apperrors.NewNetworkError(
				fmt.Sprintf("client error: status code %d", resp.StatusCode), nil)

		default:
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
		}
	}

	return nil, "", apperrors.NewNetworkError(
		fmt.Sprintf("failed to fetch image after %d attempts", maxFetchAttempts), lastErr)
}
