package service

import (
	"context"
)

// URLService is the create-or-reuse and redirect logic
type URLService interface {
	// CreateShortLink returns the short code for originalURL, creating the
	// mapping the first time the URL is seen
	CreateShortLink(ctx context.Context, originalURL string) (string, error)

	// Resolve returns the original URL behind shortCode, or domain.ErrURLNotFound
	Resolve(ctx context.Context, shortCode string) (string, error)
}
