package kroger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/recipecart/backend/internal/domain"
)

// ParseProducts validates a raw product search body and maps it to candidate
// matches for term, in response order.
//
// A body that is not an object with a "data" array of products carrying a
// productId is domain.ErrMalformedResponse. A well-formed body with no
// products is domain.ErrNoMatch.
func ParseProducts(term string, limit int, body string) ([]domain.ProductMatch, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrMalformedResponse, term, err)
	}

	raw := bytes.TrimSpace(envelope.Data)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: %q: missing data array", domain.ErrMalformedResponse, term)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrMalformedResponse, term, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrNoMatch, term)
	}

	matches := make([]domain.ProductMatch, 0, len(entries))
	for i, entry := range entries {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			return nil, fmt.Errorf("%w: %q: data[%d] is not an object", domain.ErrMalformedResponse, term, i)
		}

		var product domain.KrogerProduct
		if err := json.Unmarshal(entry, &product); err != nil {
			return nil, fmt.Errorf("%w: %q: data[%d]: %v", domain.ErrMalformedResponse, term, i, err)
		}
		if product.ProductID == "" {
			return nil, fmt.Errorf("%w: %q: data[%d] has no productId", domain.ErrMalformedResponse, term, i)
		}

		matches = append(matches, MapToProductMatch(term, limit, product))
	}

	return matches, nil
}

// MapToProductMatch converts a Kroger product to our domain ProductMatch
func MapToProductMatch(term string, limit int, product domain.KrogerProduct) domain.ProductMatch {
	id := product.ProductID
	return domain.ProductMatch{
		QueryTerm:   term,
		ProductID:   &id,
		Brand:       product.Brand,
		Categories:  product.Categories,
		Description: product.Description,
		ResultLimit: limit,
	}
}

// MapToCartRequest converts a cart batch to the Kroger cart/add body.
// Kroger identifies cart items by UPC, which equals the product ID.
func MapToCartRequest(items []domain.CartItem) domain.KrogerCartRequest {
	out := domain.KrogerCartRequest{Items: make([]domain.KrogerCartItem, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, domain.KrogerCartItem{
			UPC:      item.ProductID,
			Quantity: item.Quantity,
		})
	}
	return out
}
