package source

import (
	"context"

	"github.com/jmylchreest/dailyfeed/pkg/digest"
	"github.com/jmylchreest/dailyfeed/pkg/fetcher"
	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

// RSS is a plain RSS, Atom or JSON Feed source.
type RSS struct {
	name        string
	url         string
	description string
	limit       int
	fetcher     fetcher.Fetcher
}

// NewRSS creates an RSS source. A non-empty description replaces the one
// published by the feed; limit <= 0 keeps every item.
func NewRSS(name, url, description string, limit int, f fetcher.Fetcher) *RSS {
	return &RSS{
		name:        name,
		url:         url,
		description: description,
		limit:       limit,
		fetcher:     f,
	}
}

func (s *RSS) Name() string {
	return s.name
}

func (s *RSS) Fetch(ctx context.Context) (*ir.Feed, error) {
	parsed, err := fetchParsed(ctx, s.fetcher, s.url)
	if err != nil {
		return nil, err
	}

	feed := digest.FeedFromParsed(s.name, parsed, s.limit)
	if s.description != "" {
		feed.Description = s.description
	}
	if feed.URL == "" {
		feed.URL = s.url
	}
	return &feed, nil
}
