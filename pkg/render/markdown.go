package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

// DefaultHeadingOffset places article-level headings below the document (h1),
// feed (h2) and article (h3) headings.
const DefaultHeadingOffset = 3

// frontPageHeadingOffset nests front page headings under its h2 section title.
const frontPageHeadingOffset = 1

// FrontPageTitle is the section title used for the front page summary.
const FrontPageTitle = "Front Page Summary"

// MarkdownRenderer renders ir values as Markdown.
//
// Plain text is written as-is: Markdown metacharacters in source text are
// not escaped. Heading levels are not clamped, so deep headings may produce
// more than six '#' characters.
type MarkdownRenderer struct {
	HeadingOffset int
}

// NewMarkdown creates a Markdown renderer with the default heading offset.
func NewMarkdown() *MarkdownRenderer {
	return &MarkdownRenderer{HeadingOffset: DefaultHeadingOffset}
}

// Extension implements Renderer.
func (r *MarkdownRenderer) Extension() string {
	return "md"
}

// Render implements Renderer.
func (r *MarkdownRenderer) Render(doc *ir.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("render markdown: nil document")
	}
	return r.RenderDocument(doc), nil
}

// RenderDocument renders the title, metadata, table of contents and one
// section per feed.
func (r *MarkdownRenderer) RenderDocument(doc *ir.Document) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", doc.Metadata.Title)
	if doc.Metadata.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", doc.Metadata.Description)
	}
	fmt.Fprintf(&sb, "**Author:** %s\n", doc.Metadata.Author)
	fmt.Fprintf(&sb, "**Generated:** %s\n", doc.Metadata.GeneratedAt)
	if doc.TotalReadingTimeMinutes > 0 {
		fmt.Fprintf(&sb, "**Reading Time:** %d min\n", doc.TotalReadingTimeMinutes)
	}
	fmt.Fprintf(&sb, "**Total Articles:** %d\n\n", doc.TotalArticles())

	sb.WriteString("## Table of Contents\n\n")
	if doc.HasFrontPage() {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", FrontPageTitle, ir.Anchor(FrontPageTitle))
	}
	for _, feed := range doc.Feeds {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", feed.Name, ir.Anchor(feed.Name))
		for _, article := range feed.Articles {
			fmt.Fprintf(&sb, "  - [%s](#%s)\n", article.Title, ir.Anchor(article.Title))
		}
	}
	sb.WriteString("\n---\n\n")

	if doc.HasFrontPage() {
		fmt.Fprintf(&sb, "## %s\n\n", FrontPageTitle)
		front := &MarkdownRenderer{HeadingOffset: frontPageHeadingOffset}
		for _, block := range doc.FrontPage {
			sb.WriteString(front.RenderBlock(block))
		}
		sb.WriteString("\n---\n\n")
	}

	for i := range doc.Feeds {
		sb.WriteString(r.RenderFeed(&doc.Feeds[i]))
	}

	return sb.String()
}

// RenderFeed renders a feed section with its articles.
func (r *MarkdownRenderer) RenderFeed(feed *ir.Feed) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n\n", feed.Name)
	if feed.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", feed.Description)
	}
	fmt.Fprintf(&sb, "**Total Articles:** %d\n\n", len(feed.Articles))

	for i := range feed.Articles {
		sb.WriteString(r.RenderArticle(&feed.Articles[i]))
		sb.WriteString("\n---\n\n")
	}

	return sb.String()
}

// RenderArticle renders an article subsection including its comments.
func (r *MarkdownRenderer) RenderArticle(article *ir.Article) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s\n\n", article.Title)

	meta := article.Metadata
	if meta.PublishedDate != "" {
		fmt.Fprintf(&sb, "**Published:** %s\n", meta.PublishedDate)
	}
	if meta.Author != "" {
		fmt.Fprintf(&sb, "**Author:** %s\n", meta.Author)
	}
	fmt.Fprintf(&sb, "**Source:** %s\n", meta.FeedName)
	if article.ReadingTimeMinutes > 0 {
		fmt.Fprintf(&sb, "**Reading Time:** %d min\n", article.ReadingTimeMinutes)
	}
	if meta.URL != "" {
		fmt.Fprintf(&sb, "**Link:** [Read original article](%s)\n", meta.URL)
	}
	sb.WriteString("\n")

	for _, block := range article.Content {
		sb.WriteString(r.RenderBlock(block))
	}

	if len(article.Comments) > 0 {
		sb.WriteString("\n#### Top Comments\n\n")
		for _, comment := range article.Comments {
			sb.WriteString(r.RenderComment(comment))
		}
	}

	return sb.String()
}

// RenderComment renders a comment as a blockquote. Every line of every
// nested block is quoted.
func (r *MarkdownRenderer) RenderComment(comment ir.Comment) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "> **%s** (Score: %d)\n", comment.Author, comment.Score())
	if comment.Timestamp != "" {
		fmt.Fprintf(&sb, "> *%s*\n", comment.Timestamp)
	}
	sb.WriteString(">\n")

	for _, block := range comment.Content {
		for _, line := range splitLines(r.RenderBlock(block)) {
			if strings.TrimSpace(line) == "" {
				sb.WriteString(">\n")
			} else {
				sb.WriteString("> ")
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderBlock renders a single block. Empty blocks render as "".
func (r *MarkdownRenderer) RenderBlock(block ir.Block) string {
	if block.IsEmpty() {
		return ""
	}

	switch block.Type {
	case ir.BlockTypeParagraph:
		return r.RenderText(*block.Paragraph) + "\n\n"

	case ir.BlockTypeHeading:
		prefix := strings.Repeat("#", block.Heading.Level+r.HeadingOffset)
		return prefix + " " + r.RenderText(block.Heading.Content) + "\n\n"

	case ir.BlockTypeList:
		var sb strings.Builder
		for i, item := range block.List.Items {
			if block.List.Ordered {
				sb.WriteString(strconv.Itoa(i + 1))
				sb.WriteString(". ")
			} else {
				sb.WriteString("- ")
			}
			sb.WriteString(r.RenderText(item))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		return sb.String()

	case ir.BlockTypeQuote:
		var sb strings.Builder
		for _, line := range splitLines(r.RenderText(*block.Quote)) {
			sb.WriteString("> ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		return sb.String()

	case ir.BlockTypeCode:
		return "```" + block.Code.Language + "\n" + block.Code.Content + "\n```\n\n"

	case ir.BlockTypeLink:
		return "[" + block.Link.Text + "](" + block.Link.URL + ")\n\n"

	case ir.BlockTypeImage:
		return "![" + block.Image.AltText() + "](" + block.Image.URL + ")\n\n"

	case ir.BlockTypeRaw:
		return "```html\n" + *block.Raw + "\n```\n\n"
	}

	return ""
}

// RenderText renders inline spans. Wrapping runs from code (innermost)
// through bold and italic to link (outermost).
func (r *MarkdownRenderer) RenderText(content ir.TextContent) string {
	var sb strings.Builder
	for _, span := range content.Spans {
		text := span.Text
		f := span.Formatting
		if f.Code {
			text = "`" + text + "`"
		}
		if f.Bold {
			text = "**" + text + "**"
		}
		if f.Italic {
			text = "*" + text + "*"
		}
		if f.Link != "" {
			text = "[" + text + "](" + f.Link + ")"
		}
		sb.WriteString(text)
	}
	return sb.String()
}
