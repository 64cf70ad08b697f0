package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

// textContent walks the direct children of s. Each child element becomes
// exactly one span carrying the flattened text of its subtree.
func textContent(s *goquery.Selection) ir.TextContent {
	var spans []ir.TextSpan

	s.Contents().Each(func(_ int, child *goquery.Selection) {
		n := child.Get(0)
		switch n.Type {
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				spans = append(spans, ir.PlainSpan(n.Data))
			}
		case html.ElementNode:
			if span, ok := inlineSpan(child); ok {
				spans = append(spans, span)
			}
		}
	})

	if len(spans) == 0 {
		if all := s.Text(); strings.TrimSpace(all) != "" {
			spans = append(spans, ir.PlainSpan(all))
		}
	}

	return ir.TextContent{Spans: spans}
}

func inlineSpan(s *goquery.Selection) (ir.TextSpan, bool) {
	text := s.Text()
	if strings.TrimSpace(text) == "" {
		return ir.TextSpan{}, false
	}

	switch goquery.NodeName(s) {
	case "strong", "b":
		return ir.BoldSpan(text), true
	case "em", "i":
		return ir.ItalicSpan(text), true
	case "code":
		return ir.CodeSpan(text), true
	case "a":
		if href, ok := s.Attr("href"); ok {
			return ir.LinkSpan(text, href), true
		}
	}
	return ir.PlainSpan(text), true
}
