package cache

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/recipecart/backend/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("recipecart/cache")

// PerformFunc performs the network request for an identity on a cache miss
type PerformFunc func(ctx context.Context) (string, error)

// Fetcher wraps outbound requests with cache-first semantics.
//
// Concurrent calls for the same identity are not deduplicated: each may
// perform the request and the last write wins.
type Fetcher struct {
	store domain.CacheStore
	name  string
	debug bool
}

// NewFetcher creates a fetcher over store. name labels log lines and spans.
func NewFetcher(store domain.CacheStore, name string) *Fetcher {
	return &Fetcher{
		store: store,
		name:  name,
	}
}

// SetDebug enables or disables hit/miss logging
func (f *Fetcher) SetDebug(debug bool) {
	f.debug = debug
}

// FetchWithCache returns the cached body for identity, or performs the request,
// persists the body and returns it.
func (f *Fetcher) FetchWithCache(ctx context.Context, identity string, perform PerformFunc) (string, error) {
	ctx, span := tracer.Start(ctx, "cache.FetchWithCache")
	defer span.End()
	span.SetAttributes(
		attribute.String("cache.name", f.name),
		attribute.String("cache.identity", identity),
	)

	if body, ok := f.store.Get(ctx, identity); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		if f.debug {
			log.Printf("[CACHE] %s hit: %s", f.name, identity)
		}
		return body, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	if f.debug {
		log.Printf("[CACHE] %s miss, fetching: %s", f.name, identity)
	}

	body, err := perform(ctx)
	if err != nil {
		err = classifyFetchError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed on cache miss")
		return "", err
	}

	if err := f.store.Put(ctx, identity, body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist response")
		if !errors.Is(err, domain.ErrStorage) {
			err = fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		return "", err
	}

	return body, nil
}

// classifyFetchError keeps already classified errors as they are and wraps
// everything else as a fetch failure.
func classifyFetchError(err error) error {
	switch {
	case errors.Is(err, domain.ErrFetchFailed),
		errors.Is(err, domain.ErrAuthExpired),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
}
