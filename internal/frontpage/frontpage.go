// Package frontpage asks an LLM for an editorial overview of a digest and
// converts the answer into document blocks.
package frontpage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/dailyfeed/internal/logger"
	"github.com/jmylchreest/dailyfeed/pkg/ir"
	"github.com/jmylchreest/dailyfeed/pkg/llm"
)

// ErrNoStructure is returned when a response contains neither a theme nor
// any source summaries.
var ErrNoStructure = errors.New("could not parse structured front page from response")

// DefaultTheme is used when a response names sources but no theme.
const DefaultTheme = "Multiple developing stories shape today's landscape"

// StructuredFrontPage is the shape the model is asked to return.
type StructuredFrontPage struct {
	Theme   string          `json:"theme"`
	Sources []SourceSummary `json:"sources"`
	Context string          `json:"context,omitempty"`
}

// SourceSummary summarises the coverage of a single feed.
type SourceSummary struct {
	Name       string   `json:"name"`
	Summary    string   `json:"summary"`
	KeyStories []string `json:"key_stories"`
}

// Generator produces front page blocks using an LLM provider.
type Generator struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxTokens caps the response length.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		g.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *Generator) {
		g.temperature = t
	}
}

// New creates a Generator backed by the given provider.
func New(provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{
		provider:  provider,
		maxTokens: llm.DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate summarises doc and returns the front page as blocks.
func (g *Generator) Generate(ctx context.Context, doc *ir.Document) ([]ir.Block, error) {
	structured, err := g.GenerateStructured(ctx, doc)
	if err != nil {
		return nil, err
	}
	return structured.ToBlocks(), nil
}

// GenerateStructured summarises doc and returns the parsed response.
func (g *Generator) GenerateStructured(ctx context.Context, doc *ir.Document) (*StructuredFrontPage, error) {
	if doc == nil || len(doc.Feeds) == 0 {
		return nil, fmt.Errorf("no feeds to summarise")
	}

	log := logger.With("provider", g.provider.Name(), "model", g.provider.Model())
	log.Debug("requesting front page", "feeds", len(doc.Feeds), "articles", doc.TotalArticles())

	start := time.Now()
	resp, err := g.provider.Execute(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: BuildPrompt(PrepareContent(doc))},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("front page generation failed: %w", err)
	}

	log.Info("front page generated",
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"duration", time.Since(start).Round(time.Millisecond))

	return ParseResponse(resp.Content)
}

// ToBlocks converts the structured front page into document blocks.
func (f *StructuredFrontPage) ToBlocks() []ir.Block {
	blocks := []ir.Block{
		ir.NewParagraph(ir.FromSpans(
			ir.BoldSpan("Today's World: "),
			ir.PlainSpan(f.Theme),
		)),
	}

	for _, source := range f.Sources {
		blocks = append(blocks, heading(2, source.Name))
		blocks = append(blocks, ir.NewParagraph(ir.Plain(source.Summary)))

		if len(source.KeyStories) > 0 {
			blocks = append(blocks, heading(3, "Key Stories"))
			items := make([]ir.TextContent, 0, len(source.KeyStories))
			for _, story := range source.KeyStories {
				items = append(items, ir.Plain(story))
			}
			list, _ := ir.NewList(false, items)
			blocks = append(blocks, list)
		}
	}

	if f.Context != "" {
		blocks = append(blocks, heading(2, "Looking Ahead"))
		blocks = append(blocks, ir.NewParagraph(ir.Plain(f.Context)))
	}

	return blocks
}

func heading(level int, text string) ir.Block {
	b, _ := ir.NewHeading(level, ir.Plain(text))
	return b
}

// PrepareContent lists every feed with its articles for the prompt.
func PrepareContent(doc *ir.Document) string {
	var sb strings.Builder

	for _, feed := range doc.Feeds {
		fmt.Fprintf(&sb, "# Source: %s\n", feed.Name)
		if feed.Description != "" {
			fmt.Fprintf(&sb, "**Description:** %s\n", feed.Description)
		}
		if feed.URL != "" {
			fmt.Fprintf(&sb, "**URL:** %s\n", feed.URL)
		}

		sb.WriteString("\n**Articles:**\n")
		for _, article := range feed.Articles {
			sb.WriteString("- " + article.Title)
			if article.Metadata.PublishedDate != "" {
				fmt.Fprintf(&sb, " (%s)", article.Metadata.PublishedDate)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// BuildPrompt wraps the prepared content in the editor instructions.
func BuildPrompt(content string) string {
	return promptHeader + content + promptFooter
}

const promptHeader = `You are a senior news editor creating a structured "Front Page" summary organized by news sources.

Analyze the provided content and return a JSON response with this exact structure:

{
  "theme": "One sentence capturing the day's most significant theme or development across all sources",
  "sources": [
    {
      "name": "Source name",
      "summary": "2-3 sentences summarizing the main themes and developments from this source",
      "key_stories": ["Key story title 1", "Key story title 2", "Key story title 3"]
    }
  ],
  "context": "Optional sentence connecting stories across sources to broader trends"
}

Guidelines:
- For each source, provide a thematic summary of their coverage
- Include 2-4 most important story titles from each source
- Maintain neutral tone
- Focus on what each source is emphasizing or covering uniquely
- Keep source summaries concise but informative
- The overall theme should reflect patterns across all sources

Daily feed content organized by source:
`

const promptFooter = `
Return only valid JSON with the structure above.`
