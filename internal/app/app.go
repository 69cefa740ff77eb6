// Package app builds the use cases and their collaborators from configuration.
// Both the HTTP server and the command line tool start from here.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/recipecart/backend/config"
	"github.com/recipecart/backend/internal/domain"
	"github.com/recipecart/backend/internal/infrastructure/cache"
	"github.com/recipecart/backend/internal/infrastructure/kroger"
	"github.com/recipecart/backend/internal/infrastructure/recipesite"
	"github.com/recipecart/backend/internal/infrastructure/storage"
	"github.com/recipecart/backend/internal/usecase"
)

// Cache file names under the cache directory
const (
	DocumentsCache = "documents.json"
	ProductsCache  = "products.json"
	TokenCache     = "token.json"
)

// App holds the wired application
type App struct {
	Config     *config.Config
	Store      *storage.SQLiteStore
	Recipes    *usecase.RecipeService
	Normalizer *usecase.IngredientNormalizer
	Allergens  *usecase.AllergenProfiler

	// Session and Cart are nil when Kroger credentials are not configured
	Session *kroger.Session
	Cart    *usecase.CartReconciler
}

// New wires every component. codes is asked for an authorization code the
// first time the Kroger session has no stored token.
func New(ctx context.Context, cfg *config.Config, codes domain.AuthCodeProvider) (*App, error) {
	documents, err := openCache(cfg.Cache, DocumentsCache)
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenSQLite(ctx, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	site := recipesite.NewClient(recipesite.ClientOptions{
		UserAgent:         cfg.Site.UserAgent,
		From:              cfg.Site.From,
		RequestsPerSecond: cfg.RateLimit.SiteRPS,
		Burst:             cfg.RateLimit.SiteBurst,
		Timeout:           cfg.Site.Timeout,
	})
	site.SetDebug(cfg.Debug)

	documentFetcher := cache.NewFetcher(documents, "documents")
	documentFetcher.SetDebug(cfg.Debug)

	normalizer := usecase.NewIngredientNormalizer(usecase.NormalizerConfig{
		ExtraStopWords:     cfg.Normalizer.ExtraStopWords,
		EnableDebugLogging: cfg.Debug,
	})

	a := &App{
		Config: cfg,
		Store:  store,
		Recipes: usecase.NewRecipeService(
			documentFetcher,
			site,
			usecase.NewExtractor(cfg.Extraction, cfg.Debug),
			store,
			usecase.RecipeServiceConfig{
				SearchBase:         cfg.Site.SearchBase,
				RecipePrefix:       cfg.Site.RecipePrefix,
				LinkSelector:       cfg.Site.LinkSelector,
				MaxResults:         cfg.Site.MaxResults,
				EnableDebugLogging: cfg.Debug,
			},
		),
		Normalizer: normalizer,
		Allergens:  usecase.NewAllergenProfiler(),
	}

	if !cfg.KrogerConfigured() {
		log.Printf("[APP] Kroger credentials not configured, cart is disabled")
		return a, nil
	}

	tokens, err := openCache(cfg.Cache, TokenCache)
	if err != nil {
		store.Close()
		return nil, err
	}
	products, err := openCache(cfg.Cache, ProductsCache)
	if err != nil {
		store.Close()
		return nil, err
	}

	session, err := kroger.NewSession(kroger.SessionConfig{
		ClientID:     cfg.Kroger.ClientID,
		ClientSecret: cfg.Kroger.ClientSecret,
		RedirectURL:  cfg.Kroger.RedirectURL,
		AuthURL:      cfg.Kroger.AuthURL,
		TokenURL:     cfg.Kroger.TokenURL,
		APIBaseURL:   cfg.Kroger.APIBaseURL,
		Timeout:      cfg.Kroger.Timeout,
	}, kroger.NewTokenStore(tokens), codes)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create Kroger session: %w", err)
	}
	session.SetDebug(cfg.Debug)

	productFetcher := cache.NewFetcher(products, "products")
	productFetcher.SetDebug(cfg.Debug)

	a.Session = session
	a.Cart = usecase.NewCartReconciler(
		kroger.NewClient(session, cfg.Kroger.LocationID),
		productFetcher,
		usecase.NewMatchingService(usecase.MatchConfig{
			EnableFuzzyMatching: cfg.Matching.Fuzzy,
			FuzzyThreshold:      cfg.Matching.FuzzyThreshold,
			EnableDebugLogging:  cfg.Debug,
		}),
		normalizer,
		store,
		usecase.CartConfig{
			ResultLimit:        cfg.Kroger.ResultLimit,
			Concurrency:        cfg.Kroger.Concurrency,
			EnableDebugLogging: cfg.Debug,
		},
	)

	return a, nil
}

// Close releases the record store
func (a *App) Close() error {
	return a.Store.Close()
}

// openCache opens the named cache according to the configured cache type
func openCache(cfg config.CacheConfig, name string) (domain.CacheStore, error) {
	if cfg.Type == "memory" {
		return cache.NewMemoryStore(), nil
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create cache dir %s: %v", domain.ErrStorage, cfg.Dir, err)
	}
	return cache.OpenFileStore(filepath.Join(cfg.Dir, name))
}
