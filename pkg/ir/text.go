package ir

import (
	"strings"
	"unicode"
)

// TextFormatting is the formatting captured from a single enclosing tag.
// Formatting is not compositional: nested tags collapse to the outermost one.
type TextFormatting struct {
	Bold   bool   `json:"bold" yaml:"bold"`
	Italic bool   `json:"italic" yaml:"italic"`
	Code   bool   `json:"code" yaml:"code"`
	Link   string `json:"link,omitempty" yaml:"link,omitempty"`
}

// IsPlain reports whether no formatting is set.
func (f TextFormatting) IsPlain() bool {
	return !f.Bold && !f.Italic && !f.Code && f.Link == ""
}

// TextSpan is an inline run of text.
type TextSpan struct {
	Text       string         `json:"text" yaml:"text"`
	Formatting TextFormatting `json:"formatting" yaml:"formatting"`
}

func PlainSpan(text string) TextSpan {
	return TextSpan{Text: text}
}

func BoldSpan(text string) TextSpan {
	return TextSpan{Text: text, Formatting: TextFormatting{Bold: true}}
}

func ItalicSpan(text string) TextSpan {
	return TextSpan{Text: text, Formatting: TextFormatting{Italic: true}}
}

func CodeSpan(text string) TextSpan {
	return TextSpan{Text: text, Formatting: TextFormatting{Code: true}}
}

func LinkSpan(text, url string) TextSpan {
	return TextSpan{Text: text, Formatting: TextFormatting{Link: url}}
}

// TextContent is an ordered sequence of spans in reading order.
type TextContent struct {
	Spans []TextSpan `json:"spans" yaml:"spans"`
}

// Plain wraps text in a single unformatted span.
func Plain(text string) TextContent {
	return TextContent{Spans: []TextSpan{PlainSpan(text)}}
}

// FromSpans builds content from spans.
func FromSpans(spans ...TextSpan) TextContent {
	return TextContent{Spans: spans}
}

// IsEmpty reports whether every span is whitespace only.
func (c TextContent) IsEmpty() bool {
	for _, span := range c.Spans {
		if strings.TrimSpace(span.Text) != "" {
			return false
		}
	}
	return true
}

// PlainText concatenates the text of all spans.
func (c TextContent) PlainText() string {
	var sb strings.Builder
	for _, span := range c.Spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// WordCount counts whitespace separated words across all spans.
func (c TextContent) WordCount() int {
	return countWords(c.PlainText())
}

func countWords(s string) int {
	return len(strings.FieldsFunc(s, unicode.IsSpace))
}
