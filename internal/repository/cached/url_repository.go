// Package cached puts a read-through cache in front of a URLRepository.
// Mappings are immutable, so entries never need invalidation; they only expire.
package cached

import (
	"context"
	"encoding/json"
	"time"

	"shortlink/internal/cache"
	"shortlink/internal/domain"
	"shortlink/internal/repository"
	"shortlink/pkg/logger"
)

type urlRepository struct {
	next   repository.URLRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewURLRepository wraps next. Cache faults are logged and never fail a call.
func NewURLRepository(next repository.URLRepository, c cache.Cache, ttl time.Duration, log *logger.Logger) repository.URLRepository {
	return &urlRepository{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: log.With("component", "url_cache"),
	}
}

func (r *urlRepository) Create(ctx context.Context, url *domain.URL) error {
	if err := r.next.Create(ctx, url); err != nil {
		return err
	}
	r.store(ctx, url)
	return nil
}

func (r *urlRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URL, error) {
	if url, ok := r.load(ctx, shortCode); ok {
		return url, nil
	}

	url, err := r.next.FindByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	r.store(ctx, url)
	return url, nil
}

// FindByOriginalURL always reads the store; the create path must see its
// current state for deduplication.
func (r *urlRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*domain.URL, error) {
	return r.next.FindByOriginalURL(ctx, originalURL)
}

func (r *urlRepository) load(ctx context.Context, shortCode string) (*domain.URL, bool) {
	raw, err := r.cache.Get(ctx, cacheKey(shortCode))
	if err != nil {
		r.logger.Warnw("Cache read failed", "short_code", shortCode, "error", err)
		return nil, false
	}
	if raw == "" {
		return nil, false
	}

	var url domain.URL
	if err := json.Unmarshal([]byte(raw), &url); err != nil || url.ShortCode != shortCode {
		r.logger.Warnw("Discarding malformed cache entry", "short_code", shortCode, "error", err)
		return nil, false
	}

	r.logger.Debugw("Cache hit", "short_code", shortCode)
	return &url, true
}

func (r *urlRepository) store(ctx context.Context, url *domain.URL) {
	raw, err := json.Marshal(url)
	if err != nil {
		r.logger.Warnw("Failed to encode cache entry", "short_code", url.ShortCode, "error", err)
		return
	}
	if err := r.cache.Set(ctx, cacheKey(url.ShortCode), string(raw), r.ttl); err != nil {
		r.logger.Warnw("Failed to cache URL", "short_code", url.ShortCode, "error", err)
	}
}

func cacheKey(shortCode string) string {
	return "code:" + shortCode
}
