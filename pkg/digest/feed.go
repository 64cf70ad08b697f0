package digest

import (
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/jmylchreest/dailyfeed/internal/logger"
	"github.com/jmylchreest/dailyfeed/pkg/ir"
	"github.com/jmylchreest/dailyfeed/pkg/parser"
)

// UntitledArticle is used for items without a title.
const UntitledArticle = "Untitled"

// FeedFromParsed converts a parsed feed into an ir.Feed named name. At most
// limit items are kept; limit <= 0 keeps all.
func FeedFromParsed(name string, parsed *gofeed.Feed, limit int) ir.Feed {
	feed := ir.Feed{
		Name:        name,
		Description: strings.TrimSpace(parsed.Description),
		URL:         parsed.Link,
	}

	items := parsed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		feed.Articles = append(feed.Articles, ArticleFromItem(name, item))
	}

	return feed
}

// ArticleFromItem converts one feed item. The body is taken from the item
// content, falling back to its description.
func ArticleFromItem(feedName string, item *gofeed.Item) ir.Article {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = UntitledArticle
	}

	article := ir.Article{
		Title: title,
		Metadata: ir.ArticleMetadata{
			PublishedDate: item.Published,
			URL:           item.Link,
			FeedName:      feedName,
		},
	}
	if article.Metadata.PublishedDate == "" {
		article.Metadata.PublishedDate = item.Updated
	}
	if item.Author != nil {
		article.Metadata.Author = item.Author.Name
	}
	if article.Metadata.Author == "" && len(item.Authors) > 0 && item.Authors[0] != nil {
		article.Metadata.Author = item.Authors[0].Name
	}

	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}

	result := parser.ParseWithResult(body)
	for _, w := range result.Warnings {
		logger.Debug("content degraded", "feed", feedName, "article", title, "warning", w.String())
	}
	article.Content = result.Blocks

	return article
}
