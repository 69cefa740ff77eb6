package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/recipecart/backend/internal/domain"
	"github.com/recipecart/backend/internal/infrastructure/cache"
	"github.com/recipecart/backend/internal/infrastructure/kroger"
	"golang.org/x/sync/errgroup"
)

// CartConfig holds configuration for the cart reconciler
type CartConfig struct {
	// ResultLimit is the number of products requested per term
	ResultLimit int
	// Concurrency bounds how many terms are resolved at once
	Concurrency        int
	EnableDebugLogging bool
}

// CartReconciler resolves normalized ingredient terms to products and fills the cart
type CartReconciler struct {
	catalog            domain.ProductCatalog
	products           *cache.Fetcher
	matcher            *MatchingService
	normalizer         *IngredientNormalizer
	store              domain.RecordStore
	resultLimit        int
	concurrency        int
	enableDebugLogging bool
}

// NewCartReconciler creates a new cart reconciler with dependencies.
// store may be nil, in which case committed items are not recorded.
func NewCartReconciler(
	catalog domain.ProductCatalog,
	products *cache.Fetcher,
	matcher *MatchingService,
	normalizer *IngredientNormalizer,
	store domain.RecordStore,
	config CartConfig,
) *CartReconciler {
	if config.ResultLimit <= 0 {
		config.ResultLimit = 1
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}

	return &CartReconciler{
		catalog:            catalog,
		products:           products,
		matcher:            matcher,
		normalizer:         normalizer,
		store:              store,
		resultLimit:        config.ResultLimit,
		concurrency:        config.Concurrency,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// resolution is the outcome for one term
type resolution struct {
	match domain.ProductMatch
	skip  error
}

// Reconcile resolves every term to a product, cache first, in input order.
//
// A term without products or with a malformed response gets a nil ProductID
// and a skip report; it never stops the other terms. Session and transport
// failures abort the whole pass.
func (r *CartReconciler) Reconcile(ctx context.Context, terms []string) ([]domain.ProductMatch, []domain.SkipReport, error) {
	resolutions := make([]resolution, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, term := range terms {
		i, term := i, term
		g.Go(func() error {
			res, err := r.resolve(gctx, term)
			if err != nil {
				return err
			}
			resolutions[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	matches := make([]domain.ProductMatch, 0, len(terms))
	var skipped []domain.SkipReport
	for i, res := range resolutions {
		matches = append(matches, res.match)
		if res.skip != nil {
			skipped = append(skipped, domain.SkipReport{Term: terms[i], Reason: res.skip})
		}
	}
	return matches, skipped, nil
}

// resolve looks one term up. Only errors that must abort the pass are returned.
func (r *CartReconciler) resolve(ctx context.Context, term string) (resolution, error) {
	unmatched := domain.ProductMatch{QueryTerm: term, ResultLimit: r.resultLimit}
	if term == "" {
		return resolution{match: unmatched, skip: fmt.Errorf("%w: empty term", domain.ErrNoMatch)}, nil
	}

	identity := cache.BuildKey(r.catalog.ProductsEndpoint(), r.catalog.SearchParams(term, r.resultLimit))
	// An identity the cache would refuse is never searched
	if err := cache.ValidateKey(identity); err != nil {
		log.Printf("[CART] Could not add %.40q...: %v", term, err)
		return resolution{match: unmatched, skip: fmt.Errorf("%w: %v", domain.ErrNoMatch, err)}, nil
	}
	body, err := r.products.FetchWithCache(ctx, identity, func(ctx context.Context) (string, error) {
		return r.catalog.SearchProducts(ctx, term, r.resultLimit)
	})
	if err != nil {
		return resolution{}, err
	}

	candidates, err := kroger.ParseProducts(term, r.resultLimit, body)
	if errors.Is(err, domain.ErrNoMatch) || errors.Is(err, domain.ErrMalformedResponse) {
		log.Printf("[CART] Could not add %q: %v", term, err)
		return resolution{match: unmatched, skip: err}, nil
	}
	if err != nil {
		return resolution{}, err
	}

	match, _ := r.matcher.BestProduct(term, candidates)
	match.ResultLimit = r.resultLimit
	if r.enableDebugLogging {
		log.Printf("[CART] %q -> %s (%s)", term, *match.ProductID, match.Description)
	}
	return resolution{match: match}, nil
}

// CommitCart submits one cart update with every matched product, quantity 1
// per match, repeated products merged. Nothing is sent for an empty batch.
// The call is the commit point: it is never retried here.
func (r *CartReconciler) CommitCart(ctx context.Context, matches []domain.ProductMatch) (*domain.CartResult, error) {
	items := BuildCartItems(matches)
	result := &domain.CartResult{Items: items, Skipped: []domain.SkipReport{}}
	if len(items) == 0 {
		log.Printf("[CART] Nothing to add")
		return result, nil
	}

	if err := r.catalog.AddToCart(ctx, items); err != nil {
		return result, err
	}
	result.Committed = true
	log.Printf("[CART] Added %d items", len(items))
	return result, nil
}

// Shop normalizes ingredient phrases, resolves them and commits the cart.
// Committed items are recorded under their term.
func (r *CartReconciler) Shop(ctx context.Context, phrases []string) (*domain.CartResult, error) {
	terms := r.normalizer.Normalize(phrases)

	matches, skipped, err := r.Reconcile(ctx, terms)
	if err != nil {
		return nil, err
	}

	result, err := r.CommitCart(ctx, matches)
	if err != nil {
		return nil, err
	}
	if skipped != nil {
		result.Skipped = skipped
	}

	if r.store != nil {
		for _, match := range matches {
			if !match.Matched() {
				continue
			}
			item := domain.CartItem{ProductID: *match.ProductID, Quantity: 1}
			if err := r.store.UpsertCartItem(ctx, item, match.QueryTerm); err != nil {
				return result, err
			}
		}
	}
	return result, nil
}

// BuildCartItems turns matches into cart lines in first-seen order, summing
// quantities of repeated products and dropping unmatched terms
func BuildCartItems(matches []domain.ProductMatch) []domain.CartItem {
	items := []domain.CartItem{}
	index := make(map[string]int)
	for _, match := range matches {
		if !match.Matched() {
			continue
		}
		id := *match.ProductID
		if i, ok := index[id]; ok {
			items[i].Quantity++
			continue
		}
		index[id] = len(items)
		items = append(items, domain.CartItem{ProductID: id, Quantity: 1})
	}
	return items
}
