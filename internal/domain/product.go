package domain

// ProductMatch is the resolution of one normalized term against the product catalog.
// A nil ProductID means no product was found, which is a normal outcome.
type ProductMatch struct {
	QueryTerm   string   `json:"queryTerm"`
	ProductID   *string  `json:"productId"`
	Brand       string   `json:"brand,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Description string   `json:"description,omitempty"`
	ResultLimit int      `json:"resultLimit"`
	Score       float64  `json:"score,omitempty"`
}

// Matched reports whether the term resolved to a product
func (m ProductMatch) Matched() bool {
	return m.ProductID != nil && *m.ProductID != ""
}

// CartItem is one line of a cart-update batch
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// SkipReport tells the caller a term could not be added to the cart and why
type SkipReport struct {
	Term   string `json:"term"`
	Reason error  `json:"-"`
}

// CartResult is the outcome of one reconciliation pass
type CartResult struct {
	Items     []CartItem   `json:"items"`
	Skipped   []SkipReport `json:"skipped"`
	Committed bool         `json:"committed"`
}

// KrogerProduct is a product entry from the Kroger products API
type KrogerProduct struct {
	ProductID   string   `json:"productId"`
	UPC         string   `json:"upc"`
	Brand       string   `json:"brand"`
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
}

// KrogerProductsResponse represents the response from the Kroger product search API
type KrogerProductsResponse struct {
	Data []KrogerProduct `json:"data"`
	Meta struct {
		Pagination struct {
			Start int `json:"start"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

// KrogerCartItem is one element of a Kroger cart/add request body
type KrogerCartItem struct {
	UPC      string `json:"upc"`
	Quantity int    `json:"quantity"`
}

// KrogerCartRequest is the body of a Kroger cart/add request
type KrogerCartRequest struct {
	Items []KrogerCartItem `json:"items"`
}
