package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

// DefaultStylesheet styles standalone pages for e-readers.
const DefaultStylesheet = `body { font-family: serif; margin: 2em; line-height: 1.6; }
h1 { color: #333; border-bottom: 2px solid #333; }
h2 { color: #555; margin-top: 2em; }
h3, h4, h5, h6 { color: #666; margin-top: 1.5em; }
.pub-date { color: #666; font-style: italic; margin-bottom: 1em; }
.content { margin-bottom: 2em; }
.link { margin-top: 1em; }
hr { margin: 2em 0; border: 1px solid #ccc; }
p { margin: 1em 0; }
blockquote { margin: 1em 2em; padding-left: 1em; border-left: 3px solid #ccc; font-style: italic; }
ul, ol { margin: 1em 0; padding-left: 2em; }
li { margin: 0.5em 0; }
code { background-color: #f4f4f4; padding: 0.2em 0.4em; font-family: monospace; border-radius: 3px; }
pre { background-color: #f4f4f4; padding: 1em; overflow-x: auto; border-radius: 3px; font-family: monospace; }
a { color: #0066cc; text-decoration: underline; }
img { max-width: 100%; height: auto; margin: 1em 0; }
.toc ul { list-style-type: none; padding-left: 0; }
.toc .feed-section { font-weight: bold; margin-top: 1em; }
.toc .article-item { margin-left: 2em; font-weight: normal; }
.comments-section { margin-top: 3em; border-top: 2px solid #ccc; padding-top: 2em; }
.comment { margin: 1.5em 0; padding: 1em; background-color: #f9f9f9; border-left: 3px solid #0066cc; border-radius: 3px; }
.comment-author { font-weight: bold; color: #333; margin-bottom: 0.5em; }
.comment-score { color: #666; font-size: 0.9em; margin-left: 1em; }
.comment-content { margin-top: 0.5em; line-height: 1.5; }
`

const noDescription = "No description"

// RenderDocument renders doc as a single standalone XHTML page with a title
// section, optional front page, table of contents and one section per feed.
func (r *HTMLRenderer) RenderDocument(doc *ir.Document) string {
	var sb strings.Builder
	title := html.EscapeString(doc.Metadata.Title)

	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\">\n")
	fmt.Fprintf(&sb, "<head>\n<meta charset=\"utf-8\" />\n<title>%s</title>\n", title)
	if r.Stylesheet != "" {
		fmt.Fprintf(&sb, "<style>\n%s</style>\n", r.Stylesheet)
	}
	sb.WriteString("</head>\n<body>\n")

	// Title page.
	sb.WriteString("<section class=\"title-page\">\n")
	fmt.Fprintf(&sb, "<h1>%s</h1>\n", title)
	if doc.Metadata.Description != "" {
		fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(doc.Metadata.Description))
	}
	fmt.Fprintf(&sb, "<p><strong>Author:</strong> %s</p>\n", html.EscapeString(doc.Metadata.Author))
	fmt.Fprintf(&sb, "<p><strong>Generated:</strong> %s</p>\n", html.EscapeString(doc.Metadata.GeneratedAt))
	if doc.TotalReadingTimeMinutes > 0 {
		fmt.Fprintf(&sb, "<p><strong>Reading Time:</strong> %d min</p>\n", doc.TotalReadingTimeMinutes)
	}
	fmt.Fprintf(&sb, "<p><strong>Total Articles:</strong> %d</p>\n", doc.TotalArticles())
	if len(doc.Feeds) > 0 {
		sb.WriteString("<h2>Feeds</h2>\n<ul>\n")
		for _, feed := range doc.Feeds {
			fmt.Fprintf(&sb, "<li><strong>%s:</strong> %s (%d articles)</li>\n",
				html.EscapeString(feed.Name), html.EscapeString(orDefault(feed.Description, noDescription)), len(feed.Articles))
		}
		sb.WriteString("</ul>\n")
	}
	sb.WriteString("</section>\n")

	if doc.HasFrontPage() {
		fmt.Fprintf(&sb, "<section class=\"front-page\" id=\"%s\">\n", ir.Anchor(FrontPageTitle))
		fmt.Fprintf(&sb, "<h1>%s</h1>\n", FrontPageTitle)
		fmt.Fprintf(&sb, "<div class=\"content\">%s</div>\n", r.RenderBlocks(doc.FrontPage))
		sb.WriteString("</section>\n")
	}

	sb.WriteString(r.renderTOC(doc))

	for i := range doc.Feeds {
		sb.WriteString(r.RenderFeed(&doc.Feeds[i]))
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

func (r *HTMLRenderer) renderTOC(doc *ir.Document) string {
	var sb strings.Builder
	sb.WriteString("<nav class=\"toc\">\n<h1>Table of Contents</h1>\n<ul>\n")
	if doc.HasFrontPage() {
		fmt.Fprintf(&sb, "<li class=\"feed-section\"><a href=\"#%s\">%s</a></li>\n", ir.Anchor(FrontPageTitle), FrontPageTitle)
	}
	for _, feed := range doc.Feeds {
		fmt.Fprintf(&sb, "<li class=\"feed-section\"><a href=\"#%s\">%s</a>\n<ul>\n", ir.Anchor(feed.Name), html.EscapeString(feed.Name))
		for _, article := range feed.Articles {
			fmt.Fprintf(&sb, "<li class=\"article-item\"><a href=\"#%s\">%s</a></li>\n", ir.Anchor(article.Title), html.EscapeString(article.Title))
		}
		sb.WriteString("</ul>\n</li>\n")
	}
	sb.WriteString("</ul>\n</nav>\n")
	return sb.String()
}

// RenderFeed renders a feed section with its articles.
func (r *HTMLRenderer) RenderFeed(feed *ir.Feed) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<section class=\"feed\" id=\"%s\">\n", ir.Anchor(feed.Name))
	fmt.Fprintf(&sb, "<h1>%s</h1>\n", html.EscapeString(feed.Name))
	fmt.Fprintf(&sb, "<p><strong>Description:</strong> %s</p>\n", html.EscapeString(orDefault(feed.Description, noDescription)))
	fmt.Fprintf(&sb, "<p><strong>Total Articles:</strong> %d</p>\n<hr />\n", len(feed.Articles))
	for i := range feed.Articles {
		sb.WriteString(r.RenderArticle(&feed.Articles[i]))
	}
	sb.WriteString("</section>\n")
	return sb.String()
}

// RenderArticle renders an article with its metadata line, body, original
// link and comments.
func (r *HTMLRenderer) RenderArticle(article *ir.Article) string {
	var sb strings.Builder
	meta := article.Metadata

	fmt.Fprintf(&sb, "<article id=\"%s\">\n", ir.Anchor(article.Title))
	fmt.Fprintf(&sb, "<h2>%s</h2>\n", html.EscapeString(article.Title))
	fmt.Fprintf(&sb, "<div class=\"pub-date\">%s - <strong>Source:</strong> %s", html.EscapeString(meta.PublishedDate), html.EscapeString(meta.FeedName))
	if meta.Author != "" {
		fmt.Fprintf(&sb, " - <strong>Author:</strong> %s", html.EscapeString(meta.Author))
	}
	if article.ReadingTimeMinutes > 0 {
		fmt.Fprintf(&sb, " - %d min read", article.ReadingTimeMinutes)
	}
	sb.WriteString("</div>\n")
	fmt.Fprintf(&sb, "<div class=\"content\">%s</div>\n", r.RenderBlocks(article.Content))
	if meta.URL != "" {
		fmt.Fprintf(&sb, "<div class=\"link\"><a href=\"%s\">Read original article</a></div>\n", html.EscapeString(meta.URL))
	}

	if len(article.Comments) > 0 {
		sb.WriteString("<div class=\"comments-section\">\n<h3>Top Comments</h3>\n")
		for _, comment := range article.Comments {
			sb.WriteString(r.RenderComment(comment))
		}
		sb.WriteString("</div>\n")
	}

	sb.WriteString("</article>\n")
	return sb.String()
}

// RenderComment renders a single comment box.
func (r *HTMLRenderer) RenderComment(comment ir.Comment) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"comment\">\n")
	fmt.Fprintf(&sb, "<div class=\"comment-author\">%s<span class=\"comment-score\">Score: %d</span></div>\n",
		html.EscapeString(comment.Author), comment.Score())
	if comment.Timestamp != "" {
		fmt.Fprintf(&sb, "<div class=\"pub-date\">%s</div>\n", html.EscapeString(comment.Timestamp))
	}
	fmt.Fprintf(&sb, "<div class=\"comment-content\">%s</div>\n", r.RenderBlocks(comment.Content))
	sb.WriteString("</div>\n")
	return sb.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
