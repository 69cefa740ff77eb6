package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipecart/backend/internal/domain"
	"github.com/recipecart/backend/internal/infrastructure/kroger"
	"github.com/recipecart/backend/internal/usecase"
)

// Services groups the use cases the HTTP layer exposes.
// Cart and Callbacks are nil when Kroger credentials are not configured.
type Services struct {
	Recipes    *usecase.RecipeService
	Normalizer *usecase.IngredientNormalizer
	Allergens  *usecase.AllergenProfiler
	Cart       *usecase.CartReconciler
	Callbacks  *kroger.CallbackCodeProvider
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recipes    *usecase.RecipeService
	normalizer *usecase.IngredientNormalizer
	allergens  *usecase.AllergenProfiler
	cart       *usecase.CartReconciler
	callbacks  *kroger.CallbackCodeProvider
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services) *Handler {
	return &Handler{
		recipes:    services.Recipes,
		normalizer: services.Normalizer,
		allergens:  services.Allergens,
		cart:       services.Cart,
		callbacks:  services.Callbacks,
	}
}

// SearchRequest is the body of POST /api/v1/recipes/search
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

// IngredientsRequest carries either a recipe URL or raw ingredient phrases
type IngredientsRequest struct {
	Recipe      string   `json:"recipe"`
	URL         string   `json:"url"`
	Ingredients []string `json:"ingredients"`
}

// SkippedTerm is the wire form of domain.SkipReport
type SkippedTerm struct {
	Term   string `json:"term"`
	Reason string `json:"reason"`
}

// CartResponse is the body returned by POST /api/v1/cart
type CartResponse struct {
	Items     []domain.CartItem `json:"items"`
	Skipped   []SkippedTerm     `json:"skipped"`
	Committed bool              `json:"committed"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recipecart-backend",
		"version": "1.0.0",
		"cart":    h.cart != nil,
	})
}

// SearchRecipes scrapes, extracts and stores the recipes matching a query
func (h *Handler) SearchRecipes(c *gin.Context) {
	if h.recipes == nil {
		notConfigured(c, "Recipe search")
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	records, err := h.recipes.Search(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": req.Query, "recipes": records})
}

// StoredRecipes returns the rows stored under a query label
func (h *Handler) StoredRecipes(c *gin.Context) {
	if h.recipes == nil {
		notConfigured(c, "Recipe storage")
		return
	}

	rows, err := h.recipes.Stored(c.Request.Context(), c.Query("label"))
	if err != nil {
		writeError(c, err)
		return
	}
	if rows == nil {
		rows = []domain.StoredRecipe{}
	}

	c.JSON(http.StatusOK, gin.H{"label": c.Query("label"), "recipes": rows})
}

// NormalizeIngredients reduces ingredient phrases to product search terms
func (h *Handler) NormalizeIngredients(c *gin.Context) {
	if h.normalizer == nil {
		notConfigured(c, "Ingredient normalizer")
		return
	}

	req, ok := h.bindIngredients(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"terms": nonNil(h.normalizer.Normalize(req.Ingredients))})
}

// ProfileAllergens counts normalized ingredients per allergen group
func (h *Handler) ProfileAllergens(c *gin.Context) {
	if h.allergens == nil || h.normalizer == nil {
		notConfigured(c, "Allergen profiler")
		return
	}

	req, ok := h.bindIngredients(c)
	if !ok {
		return
	}

	terms := h.normalizer.NormalizeEach(req.Ingredients)
	c.JSON(http.StatusOK, h.allergens.Profile(req.Recipe, terms))
}

// AddToCart normalizes the ingredients, matches them to products and commits the cart
func (h *Handler) AddToCart(c *gin.Context) {
	if h.cart == nil {
		notConfigured(c, "Kroger cart")
		return
	}

	req, ok := h.bindIngredients(c)
	if !ok {
		return
	}

	result, err := h.cart.Shop(c.Request.Context(), req.Ingredients)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCartResponse(result))
}

// OAuthCallback hands the authorization code from the provider redirect to the waiting session
func (h *Handler) OAuthCallback(c *gin.Context) {
	if h.callbacks == nil {
		notConfigured(c, "Kroger authorization")
		return
	}

	if reason := c.Query("error"); reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization denied: " + reason})
		return
	}

	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state and code are required"})
		return
	}

	if err := h.callbacks.Deliver(state, code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "authorized"})
}

// bindIngredients decodes an IngredientsRequest. When a URL is given the
// recipe is fetched and its ingredients replace the request's.
func (h *Handler) bindIngredients(c *gin.Context) (IngredientsRequest, bool) {
	var req IngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return req, false
	}

	if req.URL != "" {
		if h.recipes == nil {
			notConfigured(c, "Recipe lookup")
			return req, false
		}
		record, err := h.recipes.Recipe(c.Request.Context(), req.URL)
		if err != nil {
			writeError(c, err)
			return req, false
		}
		req.Ingredients = record.Ingredients
		if req.Recipe == "" {
			req.Recipe = record.Name
		}
	}

	if len(req.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either url or ingredients is required"})
		return req, false
	}

	return req, true
}

func toCartResponse(result *domain.CartResult) CartResponse {
	resp := CartResponse{
		Items:     result.Items,
		Skipped:   make([]SkippedTerm, 0, len(result.Skipped)),
		Committed: result.Committed,
	}
	if resp.Items == nil {
		resp.Items = []domain.CartItem{}
	}
	for _, skip := range result.Skipped {
		reason := ""
		if skip.Reason != nil {
			reason = skip.Reason.Error()
		}
		resp.Skipped = append(resp.Skipped, SkippedTerm{Term: skip.Term, Reason: reason})
	}
	return resp
}

// writeError maps domain errors to HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrExtractionFailed):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAuthExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrFetchFailed):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrStorage):
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": what + " is not configured",
	})
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
