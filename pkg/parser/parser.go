// Package parser converts untrusted HTML fragments into ir blocks.
//
// Parsing never fails. Markup that cannot be classified degrades to a
// paragraph, and a non-blank fragment always yields at least one block.
package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

// maxContextLen bounds the markup quoted in warnings.
const maxContextLen = 80

// Parse converts an HTML fragment into an ordered block sequence.
func Parse(fragment string) []ir.Block {
	return ParseWithResult(fragment).Blocks
}

// ParseWithResult parses fragment and reports every degradation applied.
func ParseWithResult(fragment string) *Result {
	result := &Result{}
	if strings.TrimSpace(fragment) == "" {
		return result
	}

	root, err := parseFragment(fragment)
	if err != nil {
		// x/net/html only fails on reader errors, which a string cannot produce.
		result.AddWarning(PhaseParse, "fragment parse failed: "+err.Error(), truncate(fragment))
	} else {
		root.Contents().Each(func(_ int, s *goquery.Selection) {
			if block, ok := classifyNode(s, result); ok {
				result.Blocks = append(result.Blocks, block)
			}
		})
	}

	if len(result.Blocks) == 0 {
		text := StripTags(fragment)
		if text != "" {
			result.Blocks = append(result.Blocks, ir.NewParagraph(ir.Plain(text)))
			result.AddWarning(PhaseFallback, "no blocks classified, using stripped text", truncate(fragment))
		}
	}

	return result
}

// parseFragment parses markup in a body context and returns a selection
// rooted at a synthetic body element holding the top-level nodes.
func parseFragment(fragment string) (*goquery.Selection, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(body).Selection, nil
}

// classifyNode maps one top-level node to a block.
func classifyNode(s *goquery.Selection, result *Result) (ir.Block, bool) {
	n := s.Get(0)
	switch n.Type {
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return ir.Block{}, false
		}
		return ir.NewParagraph(ir.Plain(text)), true
	case html.ElementNode:
		return classifyElement(s, result)
	default:
		return ir.Block{}, false
	}
}

func classifyElement(s *goquery.Selection, result *Result) (ir.Block, bool) {
	tag := goquery.NodeName(s)

	if level, ok := headingLevel(tag); ok {
		content := textContent(s)
		if content.IsEmpty() {
			return ir.Block{}, false
		}
		block, ok := ir.NewHeading(level, content)
		if !ok {
			result.AddWarning(PhaseClassify, "heading level unusable, using paragraph", tag)
			return ir.NewParagraph(content), true
		}
		return block, true
	}

	switch tag {
	case "p":
		return paragraph(s)

	case "ul", "ol":
		var items []ir.TextContent
		s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			item := textContent(li)
			if !item.IsEmpty() {
				items = append(items, item)
			}
		})
		return ir.NewList(tag == "ol", items)

	case "blockquote":
		content := textContent(s)
		if content.IsEmpty() {
			return ir.Block{}, false
		}
		return ir.NewQuote(content), true

	case "pre", "code":
		code := s.Text()
		if strings.TrimSpace(code) == "" {
			return ir.Block{}, false
		}
		return ir.NewCode(codeLanguage(s), code), true

	case "a":
		text := s.Text()
		if strings.TrimSpace(text) == "" {
			return ir.Block{}, false
		}
		href, ok := s.Attr("href")
		if !ok {
			result.AddWarning(PhaseClassify, "link without href dropped", truncate(text))
			return ir.Block{}, false
		}
		return ir.NewLink(href, text), true

	case "img":
		src, ok := s.Attr("src")
		if !ok {
			result.AddWarning(PhaseClassify, "image without src dropped", "")
			return ir.Block{}, false
		}
		if alt, ok := s.Attr("alt"); ok {
			return ir.NewImageWithAlt(src, alt), true
		}
		return ir.NewImage(src), true

	default:
		// Containers (div, span, section, article) and unknown tags flatten to
		// a paragraph of their inline content.
		return paragraph(s)
	}
}

// headingLevel reports whether tag is h followed by a single digit and
// returns that digit. Levels outside 1..6 are rejected by ir.NewHeading.
func headingLevel(tag string) (int, bool) {
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '0' || tag[1] > '9' {
		return 0, false
	}
	return int(tag[1] - '0'), true
}

func paragraph(s *goquery.Selection) (ir.Block, bool) {
	content := textContent(s)
	if content.IsEmpty() {
		return ir.Block{}, false
	}
	return ir.NewParagraph(content), true
}

// codeLanguage reads a language-X class from the element, falling back to
// its first code child.
func codeLanguage(s *goquery.Selection) string {
	if lang := languageClass(s); lang != "" {
		return lang
	}
	return languageClass(s.ChildrenFiltered("code").First())
}

func languageClass(s *goquery.Selection) string {
	class, ok := s.Attr("class")
	if !ok {
		return ""
	}
	for _, c := range strings.Fields(class) {
		if lang, found := strings.CutPrefix(c, "language-"); found {
			return lang
		}
	}
	return ""
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxContextLen {
		return s
	}
	return s[:maxContextLen] + "..."
}
