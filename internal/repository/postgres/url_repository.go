package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"shortlink/internal/domain"
	"shortlink/internal/repository"
)

// Constraint names from migrations/000001_create_urls.up.sql
const (
	originalURLConstraint = "urls_original_url_key"
	shortCodeConstraint   = "urls_short_code_key"
)

// urlRepository implements the URLRepository interface for PostgreSQL
type urlRepository struct {
	db *gorm.DB
}

// NewURLRepository creates a new PostgreSQL URL repository
func NewURLRepository(db *gorm.DB) repository.URLRepository {
	return &urlRepository{db: db}
}

// Create inserts a new URL record. Unique violations are reported by which
// constraint fired so the caller can tell a code collision from a lost race.
func (r *urlRepository) Create(ctx context.Context, url *domain.URL) error {
	result := r.db.WithContext(ctx).Create(url)
	if result.Error != nil {
		if err := uniqueViolation(result.Error); err != nil {
			return err
		}
		return fmt.Errorf("insert url: %w", result.Error)
	}
	return nil
}

// FindByShortCode retrieves a URL by its short code
func (r *urlRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URL, error) {
	var url domain.URL

	result := r.db.WithContext(ctx).
		Where("short_code = ?", shortCode).
		Take(&url)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrURLNotFound
		}
		return nil, fmt.Errorf("find url by short code: %w", result.Error)
	}

	return &url, nil
}

// FindByOriginalURL retrieves the mapping for an already-shortened URL
func (r *urlRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*domain.URL, error) {
	var url domain.URL

	result := r.db.WithContext(ctx).
		Where("original_url = ?", originalURL).
		Take(&url)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrURLNotFound
		}
		return nil, fmt.Errorf("find url by original url: %w", result.Error)
	}

	return &url, nil
}

// uniqueViolation maps a unique_violation on a known constraint to its
// domain error. It returns nil for anything else.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}

	switch pgErr.ConstraintName {
	case originalURLConstraint:
		return domain.ErrOriginalURLTaken
	case shortCodeConstraint:
		return domain.ErrShortCodeTaken
	default:
		return nil
	}
}
