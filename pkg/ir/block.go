// Package ir defines the intermediate representation shared by the HTML parser
// and the HTML and Markdown renderers.
//
// A Block is a closed tagged union: Type names the variant and exactly one of
// the payload fields is set. Values are built once per parse pass and treated
// as immutable afterwards.
package ir

import "strings"

// BlockType represents the variant of a content block.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeHeading   BlockType = "heading"
	BlockTypeList      BlockType = "list"
	BlockTypeQuote     BlockType = "quote"
	BlockTypeCode      BlockType = "code"
	BlockTypeLink      BlockType = "link"
	BlockTypeImage     BlockType = "image"
	BlockTypeRaw       BlockType = "raw"
)

// MinHeadingLevel and MaxHeadingLevel bound Heading.Level.
const (
	MinHeadingLevel = 1
	MaxHeadingLevel = 6
)

// Block is a structural unit of content.
type Block struct {
	Type      BlockType    `json:"type" yaml:"type"`
	Paragraph *TextContent `json:"paragraph,omitempty" yaml:"paragraph,omitempty"`
	Heading   *Heading     `json:"heading,omitempty" yaml:"heading,omitempty"`
	List      *List        `json:"list,omitempty" yaml:"list,omitempty"`
	Quote     *TextContent `json:"quote,omitempty" yaml:"quote,omitempty"`
	Code      *Code        `json:"code,omitempty" yaml:"code,omitempty"`
	Link      *Link        `json:"link,omitempty" yaml:"link,omitempty"`
	Image     *Image       `json:"image,omitempty" yaml:"image,omitempty"`
	Raw       *string      `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Heading is a section heading with a level in 1..6.
type Heading struct {
	Level   int         `json:"level" yaml:"level"`
	Content TextContent `json:"content" yaml:"content"`
}

// List is an ordered or unordered list. Items is never empty.
type List struct {
	Ordered bool          `json:"ordered" yaml:"ordered"`
	Items   []TextContent `json:"items" yaml:"items"`
}

// Code is a preformatted block. Content is raw text without inline formatting.
type Code struct {
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Content  string `json:"content" yaml:"content"`
}

// Link is a standalone link appearing at block level.
type Link struct {
	URL  string `json:"url" yaml:"url"`
	Text string `json:"text" yaml:"text"`
}

// Image references an image by URL. Alt is nil when the source gave no alt
// attribute and points at "" for an explicitly empty one.
type Image struct {
	URL string  `json:"url" yaml:"url"`
	Alt *string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// AltText returns the alt text, or "" when there is none.
func (i Image) AltText() string {
	if i.Alt == nil {
		return ""
	}
	return *i.Alt
}

// NewParagraph creates a paragraph block.
func NewParagraph(content TextContent) Block {
	return Block{Type: BlockTypeParagraph, Paragraph: &content}
}

// NewHeading creates a heading block. It reports false when level is outside
// MinHeadingLevel..MaxHeadingLevel.
func NewHeading(level int, content TextContent) (Block, bool) {
	if level < MinHeadingLevel || level > MaxHeadingLevel {
		return Block{}, false
	}
	return Block{Type: BlockTypeHeading, Heading: &Heading{Level: level, Content: content}}, true
}

// NewList creates a list block. It reports false when items is empty.
func NewList(ordered bool, items []TextContent) (Block, bool) {
	if len(items) == 0 {
		return Block{}, false
	}
	return Block{Type: BlockTypeList, List: &List{Ordered: ordered, Items: items}}, true
}

// NewQuote creates a quote block.
func NewQuote(content TextContent) Block {
	return Block{Type: BlockTypeQuote, Quote: &content}
}

// NewCode creates a code block. An empty language means none was given.
func NewCode(language, content string) Block {
	return Block{Type: BlockTypeCode, Code: &Code{Language: language, Content: content}}
}

// NewLink creates a block-level link.
func NewLink(url, text string) Block {
	return Block{Type: BlockTypeLink, Link: &Link{URL: url, Text: text}}
}

// NewImage creates an image block without alt text.
func NewImage(url string) Block {
	return Block{Type: BlockTypeImage, Image: &Image{URL: url}}
}

// NewImageWithAlt creates an image block carrying alt, which may be empty.
func NewImageWithAlt(url, alt string) Block {
	return Block{Type: BlockTypeImage, Image: &Image{URL: url, Alt: &alt}}
}

// NewRaw creates a passthrough block whose markup is emitted verbatim.
func NewRaw(markup string) Block {
	return Block{Type: BlockTypeRaw, Raw: &markup}
}

// IsEmpty reports whether the block carries no renderable content.
// Renderers skip empty blocks.
func (b Block) IsEmpty() bool {
	switch b.Type {
	case BlockTypeParagraph:
		return b.Paragraph == nil || b.Paragraph.IsEmpty()
	case BlockTypeHeading:
		return b.Heading == nil || b.Heading.Content.IsEmpty()
	case BlockTypeList:
		return b.List == nil || len(b.List.Items) == 0
	case BlockTypeQuote:
		return b.Quote == nil || b.Quote.IsEmpty()
	case BlockTypeCode:
		return b.Code == nil
	case BlockTypeLink:
		return b.Link == nil
	case BlockTypeImage:
		return b.Image == nil || b.Image.URL == ""
	case BlockTypeRaw:
		return b.Raw == nil
	default:
		return true
	}
}

// PlainText returns the block's text without any markup.
func (b Block) PlainText() string {
	switch b.Type {
	case BlockTypeParagraph:
		if b.Paragraph != nil {
			return b.Paragraph.PlainText()
		}
	case BlockTypeHeading:
		if b.Heading != nil {
			return b.Heading.Content.PlainText()
		}
	case BlockTypeList:
		if b.List != nil {
			items := make([]string, len(b.List.Items))
			for i, item := range b.List.Items {
				items[i] = item.PlainText()
			}
			return strings.Join(items, "\n")
		}
	case BlockTypeQuote:
		if b.Quote != nil {
			return b.Quote.PlainText()
		}
	case BlockTypeCode:
		if b.Code != nil {
			return b.Code.Content
		}
	case BlockTypeLink:
		if b.Link != nil {
			return b.Link.Text
		}
	case BlockTypeImage:
		if b.Image != nil {
			return b.Image.AltText()
		}
	}
	return ""
}
