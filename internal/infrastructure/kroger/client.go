package kroger

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/recipecart/backend/internal/domain"
)

// API paths
const (
	ProductsPath = "/v1/products"
	CartAddPath  = "/v1/cart/add"
)

// Client calls the Kroger product and cart APIs through an authenticated session
type Client struct {
	session    *Session
	baseURL    string
	locationID string
}

// NewClient creates a new Kroger API client. locationID scopes product
// searches to one store and may be empty.
func NewClient(session *Session, locationID string) *Client {
	return &Client{
		session:    session,
		baseURL:    strings.TrimRight(session.http.BaseURL, "/"),
		locationID: locationID,
	}
}

// ProductsEndpoint is the base identity of product searches
func (c *Client) ProductsEndpoint() string {
	return c.baseURL + ProductsPath
}

// SearchParams returns the query parameters of a product search
func (c *Client) SearchParams(term string, limit int) map[string]string {
	params := map[string]string{
		"filter.term":  term,
		"filter.limit": strconv.Itoa(limit),
	}
	if c.locationID != "" {
		params["filter.locationId"] = c.locationID
	}
	return params
}

// SearchProducts runs a product search and returns the raw response body
func (c *Client) SearchProducts(ctx context.Context, term string, limit int) (string, error) {
	log.Printf("[KROGER] SearchProducts called with term: %q", term)

	body, err := c.session.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   ProductsPath,
		Query:  c.SearchParams(term, limit),
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// AddToCart submits one cart/add call for the whole batch
func (c *Client) AddToCart(ctx context.Context, items []domain.CartItem) error {
	log.Printf("[KROGER] AddToCart called with %d items", len(items))

	_, err := c.session.Do(ctx, Request{
		Method: http.MethodPut,
		Path:   CartAddPath,
		Body:   MapToCartRequest(items),
	})
	return err
}
