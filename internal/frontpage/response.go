package frontpage

import (
	"encoding/json"
	"strings"
)

// ParseResponse turns a model response into a StructuredFrontPage. JSON is
// preferred; a loosely formatted markdown answer is accepted as a fallback.
func ParseResponse(response string) (*StructuredFrontPage, error) {
	var structured StructuredFrontPage
	if err := json.Unmarshal([]byte(ExtractJSON(response)), &structured); err == nil {
		if structured.Theme != "" || len(structured.Sources) > 0 {
			return &structured, nil
		}
	}
	return parseMarkdown(response)
}

// ExtractJSON returns the JSON object embedded in a response. It looks for
// a ```json fence, then a generic fence holding an object, then the first
// brace-balanced run of lines. The response is returned unchanged when
// nothing matches.
func ExtractJSON(response string) string {
	if _, after, ok := strings.Cut(response, "```json"); ok {
		if body, _, ok := strings.Cut(after, "```"); ok {
			return strings.TrimSpace(body)
		}
	}

	if _, after, ok := strings.Cut(response, "```"); ok {
		if body, _, ok := strings.Cut(after, "```"); ok {
			body = strings.TrimSpace(body)
			if strings.HasPrefix(body, "{") && strings.HasSuffix(body, "}") {
				return body
			}
		}
	}

	lines := strings.Split(response, "\n")
	start, depth := -1, 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if start < 0 {
			if !strings.HasPrefix(trimmed, "{") {
				continue
			}
			start = i
		}
		depth += strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
		if depth == 0 {
			return strings.Join(lines[start:i+1], "\n")
		}
	}

	return response
}

const (
	sectionTheme   = "theme"
	sectionSource  = "source"
	sectionContext = "context"
)

var themeMarkers = []string{
	"**Today's World**:",
	"Today's World:",
}

func stripThemeMarkers(line string) string {
	for _, m := range themeMarkers {
		line = strings.ReplaceAll(line, m, "")
	}
	return strings.TrimSpace(line)
}

func parseMarkdown(response string) (*StructuredFrontPage, error) {
	var (
		theme   []string
		context []string
		sources []SourceSummary
		current *SourceSummary
		section = sectionTheme
	)

	flush := func() {
		if current != nil {
			sources = append(sources, *current)
			current = nil
		}
	}

	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, "Today's World"):
			section = sectionTheme
			if clean := stripThemeMarkers(line); clean != "" {
				theme = []string{clean}
			}
			continue
		case strings.Contains(line, "Looking Ahead"):
			flush()
			section = sectionContext
			continue
		case strings.HasPrefix(line, "##") || strings.Contains(line, "**"):
			flush()
			name := strings.NewReplacer("##", "", "**", "", ":", "").Replace(line)
			current = &SourceSummary{Name: strings.TrimSpace(name)}
			section = sectionSource
			continue
		}

		switch section {
		case sectionTheme:
			if clean := stripThemeMarkers(line); clean != "" {
				theme = append(theme, clean)
			}
		case sectionSource:
			if isBullet(line) {
				story := strings.TrimLeft(line, "•-* ")
				current.KeyStories = append(current.KeyStories, strings.TrimSpace(story))
			} else if current.Summary == "" {
				current.Summary = line
			} else {
				current.Summary += " " + line
			}
		case sectionContext:
			context = append(context, line)
		}
	}
	flush()

	if len(theme) == 0 && len(sources) == 0 {
		return nil, ErrNoStructure
	}

	result := &StructuredFrontPage{
		Theme:   strings.Join(theme, " "),
		Sources: sources,
		Context: strings.Join(context, " "),
	}
	if result.Theme == "" {
		result.Theme = DefaultTheme
	}
	return result, nil
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "• ") || strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ")
}
