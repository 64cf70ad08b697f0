package source

import (
	"context"
	"net/url"

	"github.com/jmylchreest/dailyfeed/internal/comments"
	"github.com/jmylchreest/dailyfeed/internal/logger"
	"github.com/jmylchreest/dailyfeed/pkg/fetcher"
	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

const (
	// ArsTechnicaFeedURL is the public Ars Technica feed.
	ArsTechnicaFeedURL = "https://arstechnica.com/feed/"

	arsTechnicaDescription = "Technology news and insights"
)

// ArsTechnicaOptions configures an ArsTechnica source.
type ArsTechnicaOptions struct {
	Name        string
	FeedURL     string
	APIToken    string
	MaxArticles int
	MaxComments int
}

// ArsTechnica reads the Ars Technica feed and attaches the top reader
// comments to each article.
type ArsTechnica struct {
	rss         *RSS
	comments    *comments.Scraper
	maxComments int
}

// NewArsTechnica creates an Ars Technica source. The API token, when set,
// is passed as the t query parameter to unlock the full-text feed.
func NewArsTechnica(opts ArsTechnicaOptions, f fetcher.Fetcher, cs *comments.Scraper) *ArsTechnica {
	feedURL := opts.FeedURL
	if feedURL == "" {
		feedURL = ArsTechnicaFeedURL
	}
	if opts.APIToken != "" {
		if u, err := url.Parse(feedURL); err == nil {
			q := u.Query()
			q.Set("t", opts.APIToken)
			u.RawQuery = q.Encode()
			feedURL = u.String()
		}
	}

	maxComments := opts.MaxComments
	if maxComments <= 0 {
		maxComments = comments.DefaultLimit
	}

	return &ArsTechnica{
		rss:         NewRSS(opts.Name, feedURL, arsTechnicaDescription, opts.MaxArticles, f),
		comments:    cs,
		maxComments: maxComments,
	}
}

func (s *ArsTechnica) Name() string {
	return s.rss.Name()
}

func (s *ArsTechnica) Fetch(ctx context.Context) (*ir.Feed, error) {
	feed, err := s.rss.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if s.comments == nil {
		return feed, nil
	}

	log := logger.Source(s.Name())
	for i := range feed.Articles {
		article := &feed.Articles[i]
		if article.Metadata.URL == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		top, err := s.comments.TopComments(ctx, article.Metadata.URL, s.maxComments)
		if err != nil {
			log.Warn("failed to fetch comments", "article", article.Title, "error", err)
			continue
		}
		article.Comments = append(article.Comments, top...)
	}

	return feed, nil
}
