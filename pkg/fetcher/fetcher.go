// Package fetcher defines the interface for retrieving feeds and pages.
// Implement the Fetcher interface to swap in custom transports, for example
// in tests or behind an authenticating proxy.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher abstracts page fetching.
type Fetcher interface {
	// Fetch retrieves the body of a URL.
	Fetch(ctx context.Context, url string) (Content, error)
}

// Content represents a fetched response.
type Content struct {
	URL         string
	Body        []byte
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// Document parses the body as HTML.
func (c Content) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(c.Body))
}

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, fetcher.ErrTooLarge).
var (
	// ErrTooLarge indicates the response reached the configured size limit.
	ErrTooLarge = errors.New("response exceeds size limit")
	// ErrEmptyBody indicates the server answered without content.
	ErrEmptyBody = errors.New("empty response body")
)
