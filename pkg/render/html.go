package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

// HTMLRenderer renders ir values into the e-book XHTML dialect.
//
// All span text and attribute values are escaped. Raw blocks are the single
// exception and are emitted verbatim.
type HTMLRenderer struct {
	// Stylesheet is embedded in standalone pages. Empty disables it.
	Stylesheet string
}

// NewHTML creates an HTML renderer using the default stylesheet.
func NewHTML() *HTMLRenderer {
	return &HTMLRenderer{Stylesheet: DefaultStylesheet}
}

// Extension implements Renderer.
func (r *HTMLRenderer) Extension() string {
	return "html"
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(doc *ir.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("render html: nil document")
	}
	return r.RenderDocument(doc), nil
}

// RenderBlock renders a single block as an HTML fragment. Empty blocks
// render as "".
func (r *HTMLRenderer) RenderBlock(block ir.Block) string {
	if block.IsEmpty() {
		return ""
	}

	switch block.Type {
	case ir.BlockTypeParagraph:
		return "<p>" + r.RenderText(*block.Paragraph) + "</p>"

	case ir.BlockTypeHeading:
		return fmt.Sprintf("<h%d>%s</h%d>", block.Heading.Level, r.RenderText(block.Heading.Content), block.Heading.Level)

	case ir.BlockTypeList:
		tag := "ul"
		if block.List.Ordered {
			tag = "ol"
		}
		var sb strings.Builder
		sb.WriteString("<" + tag + ">")
		for _, item := range block.List.Items {
			sb.WriteString("<li>")
			sb.WriteString(r.RenderText(item))
			sb.WriteString("</li>")
		}
		sb.WriteString("</" + tag + ">")
		return sb.String()

	case ir.BlockTypeQuote:
		return "<blockquote>" + r.RenderText(*block.Quote) + "</blockquote>"

	case ir.BlockTypeCode:
		// The language is not represented in HTML output.
		return "<pre><code>" + html.EscapeString(block.Code.Content) + "</code></pre>"

	case ir.BlockTypeLink:
		return `<a href="` + html.EscapeString(block.Link.URL) + `">` + html.EscapeString(block.Link.Text) + "</a>"

	case ir.BlockTypeImage:
		alt := ""
		if block.Image.Alt != nil {
			alt = ` alt="` + html.EscapeString(*block.Image.Alt) + `"`
		}
		return `<img src="` + html.EscapeString(block.Image.URL) + `"` + alt + " />"

	case ir.BlockTypeRaw:
		return *block.Raw
	}

	return ""
}

// RenderBlocks renders blocks in order.
func (r *HTMLRenderer) RenderBlocks(blocks []ir.Block) string {
	var sb strings.Builder
	for _, block := range blocks {
		sb.WriteString(r.RenderBlock(block))
	}
	return sb.String()
}

// RenderText renders inline spans. Tags nest as
// <a><em><strong><code>text</code></strong></em></a>.
func (r *HTMLRenderer) RenderText(content ir.TextContent) string {
	var sb strings.Builder
	for _, span := range content.Spans {
		text := html.EscapeString(span.Text)
		f := span.Formatting
		if f.Code {
			text = "<code>" + text + "</code>"
		}
		if f.Bold {
			text = "<strong>" + text + "</strong>"
		}
		if f.Italic {
			text = "<em>" + text + "</em>"
		}
		if f.Link != "" {
			text = `<a href="` + html.EscapeString(f.Link) + `">` + text + "</a>"
		}
		sb.WriteString(text)
	}
	return sb.String()
}
