package recipesite

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/recipecart/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Default request headers identifying the scraper to the recipe site
const (
	DefaultUserAgent = "RecipeCart/1.0 (recipe scraping)"
	maxAttempts      = 3
)

// ClientOptions configures a recipe site client
type ClientOptions struct {
	UserAgent string
	// From is sent as the From header so the site operator can reach us
	From string
	// RequestsPerSecond limits outbound requests; burst is Burst
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client fetches recipe site documents
type Client struct {
	http        *resty.Client
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new recipe site client
func NewClient(opts ClientOptions) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetHeader("User-Agent", opts.UserAgent)
	if opts.From != "" {
		client.SetHeader("From", opts.From)
	}
	client.SetTimeout(opts.Timeout)

	return &Client{
		http:        client,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before the next attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Get fetches the document at url. Transient failures (transport errors and
// 5xx responses) are retried; any other non-2xx status fails immediately.
// All failures carry domain.ErrFetchFailed.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		res, err := c.http.R().SetContext(ctx).Get(url)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			log.Printf("[SITE] Request error (attempt %d): %v", attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
			if !c.sleep(ctx, attempt) {
				return "", ctx.Err()
			}
			continue
		}

		if res.IsSuccess() {
			if c.debug {
				log.Printf("[SITE] GET %s -> %d (%d bytes)", url, res.StatusCode(), len(res.Body()))
			}
			return res.String(), nil
		}

		lastErr = fmt.Errorf("%w: GET %s: status %d", domain.ErrFetchFailed, url, res.StatusCode())
		if res.StatusCode() < http.StatusInternalServerError {
			return "", lastErr
		}
		log.Printf("[SITE] Server error (attempt %d) - Status: %d", attempt, res.StatusCode())
		if !c.sleep(ctx, attempt) {
			return "", ctx.Err()
		}
	}

	log.Printf("[SITE] All retries failed for %s", url)
	return "", lastErr
}

// sleep waits out the backoff unless ctx ends first or no attempts remain
func (c *Client) sleep(ctx context.Context, attempt int) bool {
	if attempt == maxAttempts {
		return true
	}
	timer := time.NewTimer(exponentialBackoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
