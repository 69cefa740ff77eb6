package kroger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/recipecart/backend/internal/domain"
	"github.com/recipecart/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newAuthorizedClient(t *testing.T, handler http.HandlerFunc, locationID string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := NewTokenStore(cache.NewMemoryStore())
	require.NoError(t, tokens.Save(context.Background(), &oauth2.Token{
		AccessToken: "fresh",
		Expiry:      time.Now().Add(time.Hour),
	}))
	session, err := NewSession(SessionConfig{APIBaseURL: server.URL}, tokens, &staticCodes{})
	require.NoError(t, err)
	return NewClient(session, locationID)
}

func TestClient_SearchParams(t *testing.T) {
	client := newAuthorizedClient(t, func(http.ResponseWriter, *http.Request) {}, "")
	assert.Equal(t, map[string]string{
		"filter.term":  "pecans",
		"filter.limit": "1",
	}, client.SearchParams("pecans", 1))

	withStore := newAuthorizedClient(t, func(http.ResponseWriter, *http.Request) {}, "01400943")
	assert.Equal(t, "01400943", withStore.SearchParams("pecans", 1)["filter.locationId"])
}

func TestClient_ProductsEndpoint(t *testing.T) {
	client := newAuthorizedClient(t, func(http.ResponseWriter, *http.Request) {}, "")
	assert.Equal(t, client.baseURL+"/v1/products", client.ProductsEndpoint())
}

func TestClient_SearchProducts(t *testing.T) {
	client := newAuthorizedClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, ProductsPath, r.URL.Path)
		assert.Equal(t, "cream cheese", r.URL.Query().Get("filter.term"))
		assert.Equal(t, "1", r.URL.Query().Get("filter.limit"))
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"productId":"1"}]}`))
	}, "")

	body, err := client.SearchProducts(context.Background(), "cream cheese", 1)

	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[{"productId":"1"}]}`, body)
}

func TestClient_AddToCart(t *testing.T) {
	var received domain.KrogerCartRequest
	client := newAuthorizedClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, CartAddPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}, "")

	err := client.AddToCart(context.Background(), []domain.CartItem{{ProductID: "0001", Quantity: 2}})

	require.NoError(t, err)
	assert.Equal(t, []domain.KrogerCartItem{{UPC: "0001", Quantity: 2}}, received.Items)
}

func TestClient_AddToCartFailure(t *testing.T) {
	client := newAuthorizedClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}, "")

	err := client.AddToCart(context.Background(), []domain.CartItem{{ProductID: "0001", Quantity: 1}})

	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}
