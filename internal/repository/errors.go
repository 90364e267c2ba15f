package repository

import "errors"

var (
	// ErrSourceUnavailable indicates no fetcher is configured for a URL scheme
	ErrSourceUnavailable = errors.New("image source not configured")
)
