package domain

import (
	"context"

	"golang.org/x/oauth2"
)

// CacheStore defines a persistent identity -> raw body mapping
type CacheStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key, value string) error
}

// RecordStore defines the record storage collaborator
type RecordStore interface {
	Upsert(ctx context.Context, record *RecipeRecord, queryLabel string) error
	UpsertIngredients(ctx context.Context, record *RecipeRecord) error
	UpsertReviews(ctx context.Context, record *RecipeRecord) error
	UpsertCartItem(ctx context.Context, item CartItem, termLabel string) error
	// StoreRecipes stores every record with its details under queryLabel, all or nothing
	StoreRecipes(ctx context.Context, queryLabel string, records []*RecipeRecord) error
	QueryByLabel(ctx context.Context, label string) ([]StoredRecipe, error)
	HasLabel(ctx context.Context, label string) (bool, error)
}

// DocumentSource fetches raw documents by URL
type DocumentSource interface {
	Get(ctx context.Context, url string) (string, error)
}

// AuthCodeProvider obtains a user-authorized code for an authorization URL.
// It blocks until the user completes the out-of-process authorization step.
type AuthCodeProvider interface {
	ObtainCode(ctx context.Context, authURL, state string) (string, error)
}

// TokenRepository persists the single OAuth2 token of a session
type TokenRepository interface {
	Load(ctx context.Context) (*oauth2.Token, bool, error)
	Save(ctx context.Context, token *oauth2.Token) error
}

// ProductCatalog defines the commerce API calls the cart reconciler depends on
type ProductCatalog interface {
	SearchProducts(ctx context.Context, term string, limit int) (string, error)
	ProductsEndpoint() string
	SearchParams(term string, limit int) map[string]string
	AddToCart(ctx context.Context, items []CartItem) error
}
