// Package digest assembles parsed feeds into an ir.Document and computes the
// derived fields (reading times, article counts) the renderers display.
package digest

import (
	"time"

	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

// DefaultDescription is used when no document description is configured.
const DefaultDescription = "Aggregated RSS feeds"

// Builder accumulates feeds and produces a Document.
type Builder struct {
	title       string
	author      string
	description string
	now         func() time.Time
	feeds       []ir.Feed
	frontPage   []ir.Block
}

// Option configures a Builder.
type Option func(*Builder)

// WithDescription sets the document description.
func WithDescription(description string) Option {
	return func(b *Builder) {
		b.description = description
	}
}

// WithClock overrides the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a Builder for a document with the given title and author.
func NewBuilder(title, author string, opts ...Option) *Builder {
	b := &Builder{
		title:       title,
		author:      author,
		description: DefaultDescription,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddFeed appends a feed, filling in article and feed reading times.
func (b *Builder) AddFeed(feed ir.Feed) {
	b.feeds = append(b.feeds, WithReadingTime(feed))
}

// SetFrontPage attaches front page blocks. Nil or empty clears it.
func (b *Builder) SetFrontPage(blocks []ir.Block) {
	b.frontPage = blocks
}

// Build returns the assembled document. The builder may be reused.
func (b *Builder) Build() *ir.Document {
	feeds := make([]ir.Feed, len(b.feeds))
	copy(feeds, b.feeds)

	total := 0
	for _, f := range feeds {
		total += f.TotalReadingTimeMinutes
	}

	doc := &ir.Document{
		Metadata: ir.DocumentMetadata{
			Title:       b.title,
			Author:      b.author,
			Description: b.description,
			GeneratedAt: b.now().UTC().Format(time.RFC3339),
		},
		Feeds:                   feeds,
		TotalReadingTimeMinutes: total,
	}
	if len(b.frontPage) > 0 {
		doc.FrontPage = b.frontPage
	}
	return doc
}

// WithReadingTime returns feed with every article's reading time and the
// feed total computed from content blocks.
func WithReadingTime(feed ir.Feed) ir.Feed {
	total := 0
	articles := make([]ir.Article, len(feed.Articles))
	for i, a := range feed.Articles {
		a.ReadingTimeMinutes = ir.ReadingTime(a.Content)
		total += a.ReadingTimeMinutes
		articles[i] = a
	}
	if len(feed.Articles) > 0 {
		feed.Articles = articles
	}
	feed.TotalReadingTimeMinutes = total
	return feed
}
