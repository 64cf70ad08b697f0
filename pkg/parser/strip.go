package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	tagRegex        = regexp.MustCompile(`<[^>]*>`)
	entityRegex     = regexp.MustCompile(`&(?:[a-zA-Z][a-zA-Z0-9]*|#[0-9]+|#[xX][0-9a-fA-F]+);`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

var namedEntities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&apos;": "'",
}

// StripTags reduces markup to plain text: tags become spaces, the XML
// entities and numeric character references are decoded, any other named
// entity becomes a space, and whitespace is collapsed and trimmed.
func StripTags(markup string) string {
	text := tagRegex.ReplaceAllString(markup, " ")
	text = entityRegex.ReplaceAllStringFunc(text, decodeEntity)
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func decodeEntity(entity string) string {
	if s, ok := namedEntities[entity]; ok {
		return s
	}
	if !strings.HasPrefix(entity, "&#") {
		return " "
	}

	num := strings.TrimSuffix(strings.TrimPrefix(entity, "&#"), ";")
	base := 10
	if strings.HasPrefix(num, "x") || strings.HasPrefix(num, "X") {
		num = num[1:]
		base = 16
	}
	code, err := strconv.ParseInt(num, base, 32)
	if err != nil || code <= 0 || code > 0x10FFFF {
		return entity
	}
	return string(rune(code))
}
