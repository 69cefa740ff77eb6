package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/recipecart/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithCache_PerformsOnce(t *testing.T) {
	fetcher := NewFetcher(NewMemoryStore(), "documents")
	ctx := context.Background()

	calls := 0
	perform := func(ctx context.Context) (string, error) {
		calls++
		return "<html>body</html>", nil
	}

	first, err := fetcher.FetchWithCache(ctx, "https://example.com/recipe/1", perform)
	require.NoError(t, err)
	second, err := fetcher.FetchWithCache(ctx, "https://example.com/recipe/1", perform)
	require.NoError(t, err)

	assert.Equal(t, "<html>body</html>", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestFetchWithCache_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.json")
	ctx := context.Background()

	store, err := OpenFileStore(path)
	require.NoError(t, err)
	_, err = NewFetcher(store, "documents").FetchWithCache(ctx, "id", func(ctx context.Context) (string, error) {
		return "persisted", nil
	})
	require.NoError(t, err)

	restarted, err := OpenFileStore(path)
	require.NoError(t, err)
	body, err := NewFetcher(restarted, "documents").FetchWithCache(ctx, "id", func(ctx context.Context) (string, error) {
		t.Fatal("perform called after restart")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "persisted", body)
}

func TestFetchWithCache_FailureNotCached(t *testing.T) {
	store := NewMemoryStore()
	fetcher := NewFetcher(store, "documents")

	_, err := fetcher.FetchWithCache(context.Background(), "id", func(ctx context.Context) (string, error) {
		return "", errors.New("connection reset")
	})

	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Equal(t, 0, store.Len())
}

func TestFetchWithCache_ClassifiedErrorsPassThrough(t *testing.T) {
	fetcher := NewFetcher(NewMemoryStore(), "products")

	_, err := fetcher.FetchWithCache(context.Background(), "id", func(ctx context.Context) (string, error) {
		return "", domain.ErrAuthExpired
	})

	assert.ErrorIs(t, err, domain.ErrAuthExpired)
	assert.NotErrorIs(t, err, domain.ErrFetchFailed)
}

type failingStore struct{ *MemoryStore }

func (failingStore) Put(ctx context.Context, key, value string) error {
	return errors.New("disk full")
}

func TestFetchWithCache_PersistFailure(t *testing.T) {
	fetcher := NewFetcher(&failingStore{NewMemoryStore()}, "documents")

	_, err := fetcher.FetchWithCache(context.Background(), "id", func(ctx context.Context) (string, error) {
		return "body", nil
	})

	assert.ErrorIs(t, err, domain.ErrStorage)
}
