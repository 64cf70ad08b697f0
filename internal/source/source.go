// Package source fetches the configured feeds and turns them into ir.Feed
// values ready for the digest builder.
package source

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/dailyfeed/internal/comments"
	"github.com/jmylchreest/dailyfeed/internal/config"
	"github.com/jmylchreest/dailyfeed/internal/logger"
	"github.com/jmylchreest/dailyfeed/pkg/fetcher"
	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

// Source produces one feed of articles.
type Source interface {
	// Name returns the display name of the feed.
	Name() string

	// Fetch retrieves and converts the feed.
	Fetch(ctx context.Context) (*ir.Feed, error)
}

// FromConfig builds the Source described by cfg. Pages are retrieved with
// f; comment threads with cs when the source supports them.
func FromConfig(cfg config.SourceConfig, f fetcher.Fetcher, cs *comments.Scraper) (Source, error) {
	switch cfg.Type {
	case config.SourceRSS:
		return NewRSS(cfg.Name, cfg.URL, cfg.Description, cfg.MaxArticles, f), nil
	case config.SourceArsTechnica:
		return NewArsTechnica(ArsTechnicaOptions{
			Name:        cfg.Name,
			FeedURL:     cfg.URL,
			APIToken:    cfg.APIToken,
			MaxArticles: cfg.MaxArticles,
			MaxComments: cfg.MaxComments,
		}, f, cs), nil
	case config.SourceHackerNews:
		return NewHackerNews(cfg.Name, cfg.URL, cfg.MaxArticles, f), nil
	default:
		return nil, fmt.Errorf("unknown source type: %q", cfg.Type)
	}
}

// FetchAll fetches every source with at most concurrency requests in
// flight. A failing source is logged and left out; the returned feeds keep
// the order of sources.
func FetchAll(ctx context.Context, sources []Source, concurrency int) []ir.Feed {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*ir.Feed, len(sources))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, src := range sources {
		g.Go(func() error {
			log := logger.Source(src.Name())
			start := time.Now()

			feed, err := src.Fetch(ctx)
			if err != nil {
				log.Warn("source failed, skipping", "error", err)
				return nil
			}

			log.Info("source fetched",
				"articles", len(feed.Articles),
				"duration", time.Since(start).Round(time.Millisecond))
			results[i] = feed
			return nil
		})
	}
	_ = g.Wait()

	feeds := make([]ir.Feed, 0, len(sources))
	for _, feed := range results {
		if feed != nil {
			feeds = append(feeds, *feed)
		}
	}
	return feeds
}

// fetchParsed retrieves url and parses it as RSS, Atom or JSON Feed.
func fetchParsed(ctx context.Context, f fetcher.Fetcher, url string) (*gofeed.Feed, error) {
	content, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(content.Body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}
	return parsed, nil
}
