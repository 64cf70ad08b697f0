package source

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/jmylchreest/dailyfeed/internal/comments"
	"github.com/jmylchreest/dailyfeed/pkg/fetcher"
	"github.com/jmylchreest/dailyfeed/pkg/ir"
	"github.com/jmylchreest/dailyfeed/pkg/parser"
)

const (
	// HackerNewsFeedURL lists the best recent Hacker News comments.
	HackerNewsFeedURL = "https://hnrss.org/bestcomments.jsonfeed"

	hackerNewsDescription = "Hacker News best comments and parent articles"
)

// HackerNews turns the best-comments feed into one article per discussed
// story, each carrying its comments and no body.
type HackerNews struct {
	name    string
	url     string
	limit   int
	fetcher fetcher.Fetcher
}

// NewHackerNews creates a Hacker News source. An empty url uses
// HackerNewsFeedURL.
func NewHackerNews(name, url string, limit int, f fetcher.Fetcher) *HackerNews {
	if url == "" {
		url = HackerNewsFeedURL
	}
	return &HackerNews{name: name, url: url, limit: limit, fetcher: f}
}

func (s *HackerNews) Name() string {
	return s.name
}

func (s *HackerNews) Fetch(ctx context.Context) (*ir.Feed, error) {
	parsed, err := fetchParsed(ctx, s.fetcher, s.url)
	if err != nil {
		return nil, err
	}

	articles := groupComments(s.name, parsed.Items)
	if s.limit > 0 && len(articles) > s.limit {
		articles = articles[:s.limit]
	}

	return &ir.Feed{
		Name:        s.name,
		Description: hackerNewsDescription,
		URL:         s.url,
		Articles:    articles,
	}, nil
}

// groupComments collects comments under their parent story, in the order
// each story first appears.
func groupComments(feedName string, items []*gofeed.Item) []ir.Article {
	var articles []ir.Article
	index := make(map[string]int)

	for _, item := range items {
		if item == nil {
			continue
		}

		title := ParentTitle(item.Title)
		i, ok := index[title]
		if !ok {
			i = len(articles)
			index[title] = i
			articles = append(articles, ir.Article{
				Title: title,
				Metadata: ir.ArticleMetadata{
					PublishedDate: item.Published,
					URL:           storyURL(item.Link),
					FeedName:      feedName,
				},
			})
		}

		comment := ir.Comment{
			Author:    commentAuthor(item),
			Content:   parser.Parse(item.Content),
			Timestamp: item.Published,
		}
		articles[i].Comments = append(articles[i].Comments, comment)
	}

	return articles
}

// ParentTitle extracts the story title from an item titled
// `New comment by user in "Story"`. Other titles are returned unchanged.
func ParentTitle(title string) string {
	const marker = ` in "`
	start := strings.Index(title, marker)
	end := strings.LastIndex(title, `"`)
	if start >= 0 && end > start+len(marker) {
		return title[start+len(marker) : end]
	}
	return title
}

// storyURL drops the comment fragment from a comment permalink.
func storyURL(link string) string {
	base, _, _ := strings.Cut(link, "#")
	return base
}

func commentAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		return item.Authors[0].Name
	}
	return comments.Anonymous
}
