package service

import (
	"context"
	"errors"
	"fmt"

	"shortlink/internal/domain"
	"shortlink/internal/metrics"
	"shortlink/internal/repository"
	"shortlink/internal/shortener"
	"shortlink/pkg/logger"
	"shortlink/pkg/validator"
)

// maxInsertAttempts bounds inserts per create: the first code plus one
// replacement after a short_code collision
const maxInsertAttempts = 2

// urlService implements the URLService interface
type urlService struct {
	repo      repository.URLRepository
	generator shortener.Generator
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewURLService creates a new URL service with dependencies injected
func NewURLService(
	repo repository.URLRepository,
	generator shortener.Generator,
	m *metrics.Metrics,
	logger *logger.Logger,
) URLService {
	return &urlService{
		repo:      repo,
		generator: generator,
		metrics:   m,
		logger:    logger,
	}
}

// CreateShortLink validates the URL, reuses an existing mapping when there
// is one, and otherwise inserts a new one.
func (s *urlService) CreateShortLink(ctx context.Context, originalURL string) (string, error) {
	if err := validator.ValidateURL(originalURL); err != nil {
		s.logger.Debugw("Rejected URL", "url", originalURL, "error", err)
		return "", domain.NewValidationError(err.Error())
	}

	existing, err := s.repo.FindByOriginalURL(ctx, originalURL)
	switch {
	case err == nil:
		s.metrics.LinksReused.Inc()
		s.logger.Debugw("URL already shortened, returning existing", "short_code", existing.ShortCode)
		return existing.ShortCode, nil
	case !errors.Is(err, domain.ErrURLNotFound):
		s.logger.Errorw("Failed to look up URL", "error", err)
		return "", domain.NewStorageError(err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		url := &domain.URL{
			OriginalURL: originalURL,
			ShortCode:   s.generator.Generate(),
		}

		err := s.repo.Create(ctx, url)
		switch {
		case err == nil:
			s.metrics.LinksCreated.Inc()
			s.logger.Infow("URL shortened", "short_code", url.ShortCode, "id", url.ID)
			return url.ShortCode, nil

		case errors.Is(err, domain.ErrOriginalURLTaken):
			return s.reconcile(ctx, originalURL)

		case errors.Is(err, domain.ErrShortCodeTaken):
			s.metrics.CodeCollisions.Inc()
			s.logger.Warnw("Short code collision detected",
				"short_code", url.ShortCode,
				"attempt", attempt,
			)
			lastErr = err

		default:
			s.logger.Errorw("Failed to create URL", "error", err, "short_code", url.ShortCode)
			return "", domain.NewStorageError(err)
		}
	}

	s.logger.Errorw("Giving up after repeated short code collisions", "attempts", maxInsertAttempts)
	return "", domain.NewStorageError(fmt.Errorf("no free short code after %d attempts: %w", maxInsertAttempts, lastErr))
}

// reconcile re-reads the mapping a concurrent caller inserted first
func (s *urlService) reconcile(ctx context.Context, originalURL string) (string, error) {
	s.metrics.Reconciliations.Inc()

	winner, err := s.repo.FindByOriginalURL(ctx, originalURL)
	if err != nil {
		s.logger.Errorw("Failed to read concurrently created URL", "error", err)
		return "", domain.NewStorageError(fmt.Errorf("reconcile after duplicate original_url: %w", err))
	}

	s.logger.Infow("Concurrent create resolved to existing mapping", "short_code", winner.ShortCode)
	return winner.ShortCode, nil
}

// Resolve looks up the original URL for a code. Malformed codes cannot
// exist in the store and are answered without a lookup.
func (s *urlService) Resolve(ctx context.Context, shortCode string) (string, error) {
	if !shortener.IsValid(shortCode) {
		return "", domain.ErrURLNotFound
	}

	url, err := s.repo.FindByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, domain.ErrURLNotFound) {
			return "", domain.ErrURLNotFound
		}
		s.logger.Errorw("Failed to resolve short code", "short_code", shortCode, "error", err)
		return "", domain.NewStorageError(err)
	}

	return url.OriginalURL, nil
}
