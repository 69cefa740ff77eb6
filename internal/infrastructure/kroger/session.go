package kroger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/recipecart/backend/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

var (
	tracer = otel.Tracer("recipecart/kroger")
	meter  = otel.Meter("recipecart/kroger")
)

// Kroger public API endpoints
const (
	DefaultAPIBaseURL = "https://api.kroger.com"
	DefaultAuthURL    = "https://api.kroger.com/v1/connect/oauth2/authorize"
	DefaultTokenURL   = "https://api.kroger.com/v1/connect/oauth2/token"
)

// DefaultScopes are the scopes needed to search products and write to the cart
var DefaultScopes = []string{"profile.compact", "product.compact", "cart.basic:write"}

// SessionConfig configures a Kroger session
type SessionConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
	Scopes       []string
	Timeout      time.Duration
}

// Session owns the OAuth2 token lifecycle and issues authenticated calls.
//
// Token states: absent (interactive authorization), valid, expired or
// invalidated (refresh). At most one refresh is in flight at any time.
type Session struct {
	oauth          *oauth2.Config
	tokens         domain.TokenRepository
	codes          domain.AuthCodeProvider
	http           *resty.Client
	flight         singleflight.Group
	now            func() time.Time
	debug          bool
	refreshCounter metric.Int64Counter

	mu          sync.Mutex
	token       *oauth2.Token
	invalidated bool
}

// NewSession creates a session. The stored token is loaded lazily on first use.
func NewSession(cfg SessionConfig, tokens domain.TokenRepository, codes domain.AuthCodeProvider) (*Session, error) {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	refreshCounter, err := meter.Int64Counter(
		"kroger_token_refresh_total",
		metric.WithDescription("The total amount of times the session token has been refreshed."),
	)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(cfg.APIBaseURL)
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(cfg.Timeout)

	return &Session{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		tokens:         tokens,
		codes:          codes,
		http:           client,
		now:            time.Now,
		refreshCounter: refreshCounter,
	}, nil
}

// SetDebug enables or disables debug logging
func (s *Session) SetDebug(debug bool) {
	s.debug = debug
}

// Invalidate forces the next call to refresh the token
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = true
}

// Token returns a usable access token, authorizing or refreshing as needed
func (s *Session) Token(ctx context.Context) (*oauth2.Token, error) {
	current, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	if current == nil {
		if _, err, _ := s.flight.Do("authorize", func() (any, error) {
			return nil, s.authorize(ctx)
		}); err != nil {
			return nil, err
		}
		if current, err = s.current(ctx); err != nil {
			return nil, err
		}
		if current == nil {
			return nil, fmt.Errorf("%w: authorization produced no token", domain.ErrAuthExpired)
		}
	}

	if s.usable(current) {
		return current, nil
	}

	// Everyone who saw the same stale token shares one refresh
	refreshed, err, _ := s.flight.Do("refresh", func() (any, error) {
		return s.refresh(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	return refreshed.(*oauth2.Token), nil
}

// current returns the in-memory token, loading it from the store on first use
func (s *Session) current(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil {
		return s.token, nil
	}

	token, ok, err := s.tokens.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	s.token = token
	return token, nil
}

// usable reports whether token can be sent as is
func (s *Session) usable(token *oauth2.Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.invalidated || token != s.token {
		return false
	}
	return token.AccessToken != "" && s.now().Before(token.Expiry)
}

// authorize runs the interactive flow and stores the exchanged token with its
// expiry forced into the past, so the next use goes through refresh.
func (s *Session) authorize(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "kroger.authorize")
	defer span.End()

	state, err := randomState()
	if err != nil {
		return err
	}
	authURL := s.oauth.AuthCodeURL(state)
	log.Printf("[KROGER] Authorization required")

	code, err := s.codes.ObtainCode(ctx, authURL, state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to obtain authorization code")
		return fmt.Errorf("%w: obtain authorization code: %v", domain.ErrAuthExpired, err)
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to exchange authorization code")
		return tokenError("exchange authorization code", err)
	}
	token.Expiry = s.now().Add(-time.Second)

	if err := s.tokens.Save(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.invalidated = false
	s.mu.Unlock()

	log.Printf("[KROGER] Authorization complete")
	return nil
}

// refresh exchanges the refresh token of stale for a new token and persists
// it before anyone can use it.
func (s *Session) refresh(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error) {
	s.mu.Lock()
	latest := s.token
	s.mu.Unlock()
	// A refresh that finished between our check and this flight already replaced stale
	if latest != stale && s.usable(latest) {
		return latest, nil
	}

	ctx, span := tracer.Start(ctx, "kroger.refresh")
	defer span.End()
	span.SetAttributes(attribute.String("token.expiry", stale.Expiry.Format(time.RFC3339)))

	if stale.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token is not refreshable", domain.ErrAuthExpired)
	}

	source := s.oauth.TokenSource(ctx, &oauth2.Token{
		RefreshToken: stale.RefreshToken,
		Expiry:       s.now().Add(-time.Second),
	})
	token, err := source.Token()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to refresh token")
		log.Printf("[KROGER] Token refresh failed: %v", err)
		return nil, tokenError("refresh token", err)
	}
	s.refreshCounter.Add(ctx, 1)

	if err := s.tokens.Save(ctx, token); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist refreshed token")
		return nil, err
	}

	s.mu.Lock()
	s.token = token
	s.invalidated = false
	s.mu.Unlock()

	if s.debug {
		log.Printf("[KROGER] Token refreshed, expires %s", token.Expiry.Format(time.RFC3339))
	}
	return token, nil
}

// Request describes one authenticated API call
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   any
}

// Do issues an authenticated call and returns the response body.
// A 401 means the provider no longer accepts the token: the session is
// invalidated and domain.ErrAuthExpired returned. Other failures carry
// domain.ErrFetchFailed.
func (s *Session) Do(ctx context.Context, req Request) ([]byte, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}

	r := s.http.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetQueryParams(req.Query)
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	res, err := r.Execute(req.Method, req.Path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrFetchFailed, req.Method, req.Path, err)
	}

	if s.debug {
		log.Printf("[KROGER] %s %s -> %d", req.Method, req.Path, res.StatusCode())
	}

	switch {
	case res.StatusCode() == http.StatusUnauthorized:
		s.Invalidate()
		return nil, fmt.Errorf("%w: %s %s rejected the access token", domain.ErrAuthExpired, req.Method, req.Path)
	case !res.IsSuccess():
		return nil, fmt.Errorf("%w: %s %s: status %d: %s", domain.ErrFetchFailed, req.Method, req.Path, res.StatusCode(), res.String())
	}

	return res.Body(), nil
}

// tokenError classifies a token endpoint failure. Only a 4xx answer such as
// invalid_grant means the grant is gone. Context errors pass through and
// anything else is a fetch failure.
func tokenError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
		retrieveErr.Response.StatusCode >= 400 && retrieveErr.Response.StatusCode < 500 {
		return fmt.Errorf("%w: %s: %v", domain.ErrAuthExpired, op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, op, err)
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
