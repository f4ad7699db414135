package repository

import (
	"context"

	"shortlink/internal/domain"
)

// URLRepository is the Mapping Store contract.
// Implementations enforce uniqueness on both original_url and short_code;
// those constraints are the only concurrency control the service relies on.
type URLRepository interface {
	// Create inserts a new mapping and fills in ID and CreatedAt.
	// Returns domain.ErrShortCodeTaken or domain.ErrOriginalURLTaken on the matching
	// uniqueness violation.
	Create(ctx context.Context, url *domain.URL) error

	// FindByShortCode returns domain.ErrURLNotFound when no mapping has the code
	FindByShortCode(ctx context.Context, shortCode string) (*domain.URL, error)

	// FindByOriginalURL returns domain.ErrURLNotFound when the URL was never shortened
	FindByOriginalURL(ctx context.Context, originalURL string) (*domain.URL, error)
}
