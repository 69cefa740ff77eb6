package domain

import "errors"

var (
	// ErrExtractionFailed is returned when a document has no recipe name and cannot be identified
	ErrExtractionFailed = errors.New("recipe extraction failed")

	// ErrFetchFailed is returned when a network or transport failure happens on a cache miss
	ErrFetchFailed = errors.New("fetch failed")

	// ErrAuthExpired is returned when the refresh token is no longer accepted by the provider
	ErrAuthExpired = errors.New("authorization expired")

	// ErrNoMatch is reported when a search term resolved to zero products
	ErrNoMatch = errors.New("no matching product")

	// ErrMalformedResponse is reported when a product search response does not have the expected shape
	ErrMalformedResponse = errors.New("malformed product search response")

	// ErrStorage wraps failures surfaced by a storage collaborator
	ErrStorage = errors.New("storage error")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
