package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/recipecart/backend/internal/domain"
	"github.com/recipecart/backend/internal/infrastructure/cache"
	"github.com/recipecart/backend/internal/infrastructure/recipesite"
)

// RecipeServiceConfig holds configuration for the recipe service
type RecipeServiceConfig struct {
	SearchBase   string
	RecipePrefix string
	LinkSelector string
	// MaxResults caps the recipes extracted per search when the caller gives no limit
	MaxResults         int
	EnableDebugLogging bool
}

// RecipeService searches the recipe site, extracts records and persists them
type RecipeService struct {
	documents          *cache.Fetcher
	source             domain.DocumentSource
	extractor          *Extractor
	store              domain.RecordStore
	searchBase         string
	recipePrefix       string
	linkSelector       string
	maxResults         int
	enableDebugLogging bool
}

// NewRecipeService creates a new recipe service with dependencies.
// store may be nil, in which case nothing is persisted.
func NewRecipeService(
	documents *cache.Fetcher,
	source domain.DocumentSource,
	extractor *Extractor,
	store domain.RecordStore,
	config RecipeServiceConfig,
) *RecipeService {
	if config.SearchBase == "" {
		config.SearchBase = recipesite.DefaultSearchBase
	}
	if config.RecipePrefix == "" {
		config.RecipePrefix = recipesite.DefaultRecipePrefix
	}
	if config.MaxResults <= 0 {
		config.MaxResults = 10
	}

	return &RecipeService{
		documents:          documents,
		source:             source,
		extractor:          extractor,
		store:              store,
		searchBase:         config.SearchBase,
		recipePrefix:       config.RecipePrefix,
		linkSelector:       config.LinkSelector,
		maxResults:         config.MaxResults,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Search looks recipes up for a query.
// Flow: search page (cached) -> recipe links -> each recipe (cached) -> extract -> persist -> return
//
// Records come back in the site's link order. Recipes without a name are
// logged and skipped. A query seen before is not stored again.
func (s *RecipeService) Search(ctx context.Context, query string, limit int) ([]*domain.RecipeRecord, error) {
	label := normalizeQuery(query)
	if label == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidRequest)
	}
	if limit <= 0 || limit > s.maxResults {
		limit = s.maxResults
	}

	searchPage, err := s.fetch(ctx, recipesite.SearchURL(s.searchBase, label))
	if err != nil {
		return nil, err
	}

	links, err := recipesite.RecipeLinks(searchPage, s.linkSelector, s.recipePrefix)
	if err != nil {
		return nil, err
	}
	log.Printf("[RECIPES] %d recipe links for %q", len(links), label)
	if len(links) > limit {
		links = links[:limit]
	}

	records := make([]*domain.RecipeRecord, 0, len(links))
	for _, link := range links {
		record, err := s.Recipe(ctx, link)
		if errors.Is(err, domain.ErrExtractionFailed) {
			log.Printf("[RECIPES] Skipping %s: %v", link, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := s.persist(ctx, label, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Recipe fetches (cache-first) and extracts a single recipe document
func (s *RecipeService) Recipe(ctx context.Context, url string) (*domain.RecipeRecord, error) {
	document, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	record, err := s.extractor.Extract(url, document)
	if err != nil {
		return nil, err
	}

	if s.enableDebugLogging {
		log.Printf("[RECIPES] Extracted %s", record.Info())
	}
	return record, nil
}

// Stored returns the recipes previously stored for a query label
func (s *RecipeService) Stored(ctx context.Context, label string) ([]domain.StoredRecipe, error) {
	label = normalizeQuery(label)
	if label == "" {
		return nil, fmt.Errorf("%w: empty label", domain.ErrInvalidRequest)
	}
	if s.store == nil {
		return nil, nil
	}
	return s.store.QueryByLabel(ctx, label)
}

func (s *RecipeService) fetch(ctx context.Context, url string) (string, error) {
	return s.documents.FetchWithCache(ctx, url, func(ctx context.Context) (string, error) {
		return s.source.Get(ctx, url)
	})
}

// persist stores records under label unless the label was stored before
func (s *RecipeService) persist(ctx context.Context, label string, records []*domain.RecipeRecord) error {
	if s.store == nil || len(records) == 0 {
		return nil
	}

	seen, err := s.store.HasLabel(ctx, label)
	if err != nil {
		return err
	}
	if seen {
		if s.enableDebugLogging {
			log.Printf("[RECIPES] %q already stored, skipping persistence", label)
		}
		return nil
	}

	if err := s.store.StoreRecipes(ctx, label, records); err != nil {
		return err
	}
	log.Printf("[RECIPES] Stored %d recipes for %q", len(records), label)
	return nil
}

// normalizeQuery lower-cases a query and collapses its whitespace
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
