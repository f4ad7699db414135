// Package memory is a process-local Mapping Store with the same uniqueness
// rules as the PostgreSQL schema. Contents are lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"shortlink/internal/domain"
	"shortlink/internal/repository"
)

type urlRepository struct {
	mu     sync.RWMutex
	byCode map[string]domain.URL
	byURL  map[string]string // original_url -> short_code
	lastID int64
	now    func() time.Time
}

// NewURLRepository creates an empty in-memory URL repository
func NewURLRepository() repository.URLRepository {
	return &urlRepository{
		byCode: make(map[string]domain.URL),
		byURL:  make(map[string]string),
		now:    time.Now,
	}
}

// Create checks both uniqueness constraints and inserts under one lock.
func (r *urlRepository) Create(ctx context.Context, url *domain.URL) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byURL[url.OriginalURL]; exists {
		return domain.ErrOriginalURLTaken
	}
	if _, exists := r.byCode[url.ShortCode]; exists {
		return domain.ErrShortCodeTaken
	}

	r.lastID++
	url.ID = r.lastID
	url.CreatedAt = r.now().UTC()

	r.byCode[url.ShortCode] = *url
	r.byURL[url.OriginalURL] = url.ShortCode
	return nil
}

func (r *urlRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	url, ok := r.byCode[shortCode]
	if !ok {
		return nil, domain.ErrURLNotFound
	}
	return &url, nil
}

func (r *urlRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*domain.URL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	code, ok := r.byURL[originalURL]
	if !ok {
		return nil, domain.ErrURLNotFound
	}
	url := r.byCode[code]
	return &url, nil
}

// Len reports the number of stored mappings
func (r *urlRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCode)
}
