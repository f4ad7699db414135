package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink/internal/domain"
)

func TestURLRepository_CreateAndFind(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	url := &domain.URL{OriginalURL: "https://a.test/p", ShortCode: "a1b2c3d4"}
	require.NoError(t, repo.Create(ctx, url))
	assert.Equal(t, int64(1), url.ID)
	assert.False(t, url.CreatedAt.IsZero())

	byCode, err := repo.FindByShortCode(ctx, "a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, *url, *byCode)

	byURL, err := repo.FindByOriginalURL(ctx, "https://a.test/p")
	require.NoError(t, err)
	assert.Equal(t, *url, *byURL)
}

func TestURLRepository_IDsIncrease(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		url := &domain.URL{OriginalURL: fmt.Sprintf("https://a.test/%d", i), ShortCode: fmt.Sprintf("0000000%d", i)}
		require.NoError(t, repo.Create(ctx, url))
		assert.Greater(t, url.ID, last)
		last = url.ID
	}
}

func TestURLRepository_NotFound(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	_, err := repo.FindByShortCode(ctx, "deadbeef")
	assert.ErrorIs(t, err, domain.ErrURLNotFound)

	_, err = repo.FindByOriginalURL(ctx, "https://nowhere.test")
	assert.ErrorIs(t, err, domain.ErrURLNotFound)
}

func TestURLRepository_UniqueShortCode(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.URL{OriginalURL: "https://a.test/1", ShortCode: "a1b2c3d4"}))

	err := repo.Create(ctx, &domain.URL{OriginalURL: "https://a.test/2", ShortCode: "a1b2c3d4"})
	assert.ErrorIs(t, err, domain.ErrShortCodeTaken)

	_, err = repo.FindByOriginalURL(ctx, "https://a.test/2")
	assert.ErrorIs(t, err, domain.ErrURLNotFound)
}

func TestURLRepository_UniqueOriginalURL(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.URL{OriginalURL: "https://a.test/1", ShortCode: "a1b2c3d4"}))

	err := repo.Create(ctx, &domain.URL{OriginalURL: "https://a.test/1", ShortCode: "99999999"})
	assert.ErrorIs(t, err, domain.ErrOriginalURLTaken)

	_, err = repo.FindByShortCode(ctx, "99999999")
	assert.ErrorIs(t, err, domain.ErrURLNotFound)
}

func TestURLRepository_ReturnsCopies(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.URL{OriginalURL: "https://a.test/1", ShortCode: "a1b2c3d4"}))

	got, err := repo.FindByShortCode(ctx, "a1b2c3d4")
	require.NoError(t, err)
	got.OriginalURL = "https://evil.test"

	again, err := repo.FindByShortCode(ctx, "a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, "https://a.test/1", again.OriginalURL)
}

func TestURLRepository_CanceledContext(t *testing.T) {
	repo := NewURLRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Create(ctx, &domain.URL{OriginalURL: "https://a.test", ShortCode: "a1b2c3d4"}), context.Canceled)
	_, err := repo.FindByShortCode(ctx, "a1b2c3d4")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.FindByOriginalURL(ctx, "https://a.test")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestURLRepository_ConcurrentSameURL(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	const workers = 16
	results := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = repo.Create(ctx, &domain.URL{
				OriginalURL: "https://example.com/x",
				ShortCode:   fmt.Sprintf("%08x", i),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrOriginalURLTaken)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, repo.(*urlRepository).Len())
}
