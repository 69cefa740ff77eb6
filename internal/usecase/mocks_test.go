package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/recipecart/backend/internal/domain"
)

// MockDocumentSource serves canned documents by URL and counts fetches
type MockDocumentSource struct {
	mu        sync.Mutex
	documents map[string]string
	calls     map[string]int
	err       error
}

func NewMockDocumentSource(documents map[string]string) *MockDocumentSource {
	return &MockDocumentSource{documents: documents, calls: make(map[string]int)}
}

func (m *MockDocumentSource) Get(ctx context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[url]++
	if m.err != nil {
		return "", m.err
	}
	doc, ok := m.documents[url]
	if !ok {
		return "", fmt.Errorf("%w: no document for %s", domain.ErrFetchFailed, url)
	}
	return doc, nil
}

func (m *MockDocumentSource) Calls(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[url]
}

// MockRecordStore is an in-memory domain.RecordStore
type MockRecordStore struct {
	mu          sync.Mutex
	recipes     map[string][]*domain.RecipeRecord
	ingredients map[string]*domain.RecipeRecord
	reviews     map[string]*domain.RecipeRecord
	cartItems   map[string]domain.CartItem
	upsertError error
}

func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{
		recipes:     make(map[string][]*domain.RecipeRecord),
		ingredients: make(map[string]*domain.RecipeRecord),
		reviews:     make(map[string]*domain.RecipeRecord),
		cartItems:   make(map[string]domain.CartItem),
	}
}

func (m *MockRecordStore) Upsert(ctx context.Context, record *domain.RecipeRecord, queryLabel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertError != nil {
		return m.upsertError
	}
	m.recipes[queryLabel] = append(m.recipes[queryLabel], record)
	return nil
}

func (m *MockRecordStore) UpsertIngredients(ctx context.Context, record *domain.RecipeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingredients[record.SourceURL] = record
	return nil
}

func (m *MockRecordStore) UpsertReviews(ctx context.Context, record *domain.RecipeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[record.SourceURL] = record
	return nil
}

func (m *MockRecordStore) UpsertCartItem(ctx context.Context, item domain.CartItem, termLabel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cartItems[termLabel] = item
	return nil
}

func (m *MockRecordStore) StoreRecipes(ctx context.Context, queryLabel string, records []*domain.RecipeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertError != nil {
		return m.upsertError
	}
	for _, record := range records {
		m.recipes[queryLabel] = append(m.recipes[queryLabel], record)
		m.ingredients[record.SourceURL] = record
		m.reviews[record.SourceURL] = record
	}
	return nil
}

func (m *MockRecordStore) QueryByLabel(ctx context.Context, label string) ([]domain.StoredRecipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StoredRecipe
	for _, r := range m.recipes[label] {
		out = append(out, domain.StoredRecipe{Query: label, SourceURL: r.SourceURL, Name: r.Name, Rating: r.RatingLabel()})
	}
	return out, nil
}

func (m *MockRecordStore) HasLabel(ctx context.Context, label string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recipes[label]) > 0, nil
}

func (m *MockRecordStore) CartTerms() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	terms := make([]string, 0, len(m.cartItems))
	for term := range m.cartItems {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// MockProductCatalog answers product searches with canned bodies and records cart calls
type MockProductCatalog struct {
	mu          sync.Mutex
	bodies      map[string]string
	searchError error
	cartError   error
	searches    map[string]int
	cartCalls   [][]domain.CartItem
}

func NewMockProductCatalog(bodies map[string]string) *MockProductCatalog {
	return &MockProductCatalog{bodies: bodies, searches: make(map[string]int)}
}

func (m *MockProductCatalog) ProductsEndpoint() string {
	return "https://api.example.com/v1/products"
}

func (m *MockProductCatalog) SearchParams(term string, limit int) map[string]string {
	return map[string]string{"filter.term": term, "filter.limit": fmt.Sprint(limit)}
}

func (m *MockProductCatalog) SearchProducts(ctx context.Context, term string, limit int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[term]++
	if m.searchError != nil {
		return "", m.searchError
	}
	body, ok := m.bodies[term]
	if !ok {
		return `{"data":[]}`, nil
	}
	return body, nil
}

func (m *MockProductCatalog) AddToCart(ctx context.Context, items []domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cartCalls = append(m.cartCalls, append([]domain.CartItem(nil), items...))
	return m.cartError
}

func (m *MockProductCatalog) Searches(term string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searches[term]
}

func (m *MockProductCatalog) CartCalls() [][]domain.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cartCalls
}
