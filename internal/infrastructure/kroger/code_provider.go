package kroger

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"sync"
)

var (
	// ErrStateMismatch is returned when a callback carries a state we did not issue
	ErrStateMismatch = errors.New("kroger: authorization state mismatch")
	// ErrMissingCode is returned when a callback has no authorization code
	ErrMissingCode = errors.New("kroger: authorization code missing")
)

// StdinCodeProvider prints the authorization URL and reads the redirect
// back from the user: either the full callback URL or the bare code.
type StdinCodeProvider struct {
	in  io.Reader
	out io.Writer
}

// NewStdinCodeProvider creates a provider reading from in and prompting on out
func NewStdinCodeProvider(in io.Reader, out io.Writer) *StdinCodeProvider {
	return &StdinCodeProvider{in: in, out: out}
}

// ObtainCode blocks until the user pastes a line or ctx ends
func (p *StdinCodeProvider) ObtainCode(ctx context.Context, authURL, state string) (string, error) {
	fmt.Fprintf(p.out, "Open this URL in a browser and authorize access:\n\n  %s\n\n", authURL)
	fmt.Fprint(p.out, "Paste the URL you were redirected to (or just the code): ")

	lines := make(chan string, 1)
	errs := make(chan error, 1)
	go func() {
		line, err := bufio.NewReader(p.in).ReadString('\n')
		if err != nil && line == "" {
			errs <- err
			return
		}
		lines <- line
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-errs:
		return "", fmt.Errorf("read authorization code: %w", err)
	case line := <-lines:
		return ParseCallback(strings.TrimSpace(line), state)
	}
}

// ParseCallback extracts the code from a pasted callback URL, checking its
// state. Input that is not a URL with a query is taken as the code itself.
func ParseCallback(input, state string) (string, error) {
	if input == "" {
		return "", ErrMissingCode
	}

	u, err := url.Parse(input)
	if err != nil || u.RawQuery == "" {
		return input, nil
	}

	query := u.Query()
	if errParam := query.Get("error"); errParam != "" {
		return "", fmt.Errorf("authorization denied: %s", errParam)
	}
	if query.Get("state") != state {
		return "", ErrStateMismatch
	}
	code := query.Get("code")
	if code == "" {
		return "", ErrMissingCode
	}
	return code, nil
}

// CallbackCodeProvider hands authorization codes from an HTTP redirect
// handler to the session waiting for them.
type CallbackCodeProvider struct {
	mu      sync.Mutex
	pending map[string]chan string
}

// NewCallbackCodeProvider creates an empty callback provider
func NewCallbackCodeProvider() *CallbackCodeProvider {
	return &CallbackCodeProvider{pending: make(map[string]chan string)}
}

// ObtainCode logs the authorization URL and blocks until Deliver is called
// with the same state or ctx ends
func (p *CallbackCodeProvider) ObtainCode(ctx context.Context, authURL, state string) (string, error) {
	ch := make(chan string, 1)

	p.mu.Lock()
	p.pending[state] = ch
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.pending, state)
		p.mu.Unlock()
	}()

	log.Printf("[KROGER] Visit %s to authorize", authURL)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case code := <-ch:
		return code, nil
	}
}

// Deliver passes a code received on the redirect URL to the waiting session
func (p *CallbackCodeProvider) Deliver(state, code string) error {
	if code == "" {
		return ErrMissingCode
	}

	p.mu.Lock()
	ch, ok := p.pending[state]
	if ok {
		delete(p.pending, state)
	}
	p.mu.Unlock()

	if !ok {
		return ErrStateMismatch
	}
	ch <- code
	return nil
}

// Pending reports how many authorizations are waiting for a callback
func (p *CallbackCodeProvider) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}
