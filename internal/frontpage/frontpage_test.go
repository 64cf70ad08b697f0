package frontpage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmylchreest/dailyfeed/pkg/ir"
	"github.com/jmylchreest/dailyfeed/pkg/llm"
)

type stubProvider struct {
	content string
	err     error
	got     llm.Request
}

func (s *stubProvider) Execute(_ context.Context, req llm.Request) (*llm.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Content: s.content}, nil
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-1" }

func sampleDocument() *ir.Document {
	return &ir.Document{
		Feeds: []ir.Feed{
			{
				Name:        "Ars Technica",
				Description: "Technology news and insights",
				URL:         "https://arstechnica.com",
				Articles: []ir.Article{
					{Title: "Chips get smaller", Metadata: ir.ArticleMetadata{PublishedDate: "2026-01-02"}},
					{Title: "Rockets land again"},
				},
			},
		},
	}
}

func TestPrepareContent(t *testing.T) {
	got := PrepareContent(sampleDocument())
	want := "# Source: Ars Technica\n" +
		"**Description:** Technology news and insights\n" +
		"**URL:** https://arstechnica.com\n" +
		"\n**Articles:**\n" +
		"- Chips get smaller (2026-01-02)\n" +
		"- Rockets land again\n" +
		"\n"
	if got != want {
		t.Errorf("PrepareContent() =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("CONTENT")
	if !strings.Contains(prompt, "organized by source:\nCONTENT\nReturn only valid JSON") {
		t.Errorf("content not embedded in prompt: %q", prompt)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "json fence",
			response: "Here you go:\n```json\n{\"theme\": \"x\"}\n```\nthanks",
			want:     `{"theme": "x"}`,
		},
		{
			name:     "generic fence",
			response: "```\n{\"theme\": \"x\"}\n```",
			want:     `{"theme": "x"}`,
		},
		{
			name:     "generic fence without object",
			response: "```\nnot json\n```",
			want:     "```\nnot json\n```",
		},
		{
			name:     "bare object",
			response: "Sure.\n{\n  \"theme\": \"x\",\n  \"sources\": [{\"name\": \"a\"}]\n}\nDone.",
			want:     "{\n  \"theme\": \"x\",\n  \"sources\": [{\"name\": \"a\"}]\n}",
		},
		{
			name:     "single line object",
			response: "{\"theme\": \"x\"}",
			want:     `{"theme": "x"}`,
		},
		{
			name:     "nothing",
			response: "no structure here",
			want:     "no structure here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.response); got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseResponseJSON(t *testing.T) {
	response := "```json\n" + `{
  "theme": "Hardware shrinks",
  "sources": [{"name": "Ars", "summary": "Chips.", "key_stories": ["A", "B"]}],
  "context": "More to come"
}` + "\n```"

	got, err := ParseResponse(response)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if got.Theme != "Hardware shrinks" || got.Context != "More to come" {
		t.Errorf("got %+v", got)
	}
	if len(got.Sources) != 1 || len(got.Sources[0].KeyStories) != 2 {
		t.Errorf("Sources = %+v", got.Sources)
	}
}

func TestParseResponseMarkdown(t *testing.T) {
	response := `**Today's World**: Everything is changing

## Ars Technica
Chips are getting smaller.
Rockets too.
- Chips get smaller
• Rockets land again

## Looking Ahead
Expect more.`

	got, err := ParseResponse(response)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if got.Theme != "Everything is changing" {
		t.Errorf("Theme = %q", got.Theme)
	}
	if len(got.Sources) != 1 {
		t.Fatalf("Sources = %+v", got.Sources)
	}
	src := got.Sources[0]
	if src.Name != "Ars Technica" {
		t.Errorf("Name = %q", src.Name)
	}
	if src.Summary != "Chips are getting smaller. Rockets too." {
		t.Errorf("Summary = %q", src.Summary)
	}
	if strings.Join(src.KeyStories, "|") != "Chips get smaller|Rockets land again" {
		t.Errorf("KeyStories = %q", src.KeyStories)
	}
	if got.Context != "Expect more." {
		t.Errorf("Context = %q", got.Context)
	}
}

func TestParseResponseDefaultTheme(t *testing.T) {
	got, err := ParseResponse("## Source\nsummary")
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if got.Theme != DefaultTheme {
		t.Errorf("Theme = %q, want default", got.Theme)
	}
}

func TestParseResponseNoStructure(t *testing.T) {
	_, err := ParseResponse("")
	if !errors.Is(err, ErrNoStructure) {
		t.Errorf("error = %v, want ErrNoStructure", err)
	}
}

func TestToBlocks(t *testing.T) {
	fp := &StructuredFrontPage{
		Theme: "Theme",
		Sources: []SourceSummary{
			{Name: "A", Summary: "sa", KeyStories: []string{"one"}},
			{Name: "B", Summary: "sb"},
		},
		Context: "ctx",
	}

	blocks := fp.ToBlocks()
	var types []string
	for _, b := range blocks {
		types = append(types, string(b.Type))
	}
	want := "paragraph,heading,paragraph,heading,list,heading,paragraph,heading,paragraph"
	if got := strings.Join(types, ","); got != want {
		t.Fatalf("block types = %s, want %s", got, want)
	}

	lead := blocks[0].Paragraph.Spans
	if len(lead) != 2 || !lead[0].Formatting.Bold || lead[0].Text != "Today's World: " || lead[1].Text != "Theme" {
		t.Errorf("lead spans = %+v", lead)
	}
	if blocks[3].Heading.Level != 3 || blocks[3].Heading.Content.PlainText() != "Key Stories" {
		t.Errorf("key stories heading = %+v", blocks[3].Heading)
	}
	if blocks[7].Heading.Content.PlainText() != "Looking Ahead" {
		t.Errorf("context heading = %+v", blocks[7].Heading)
	}
}

func TestToBlocksWithoutContext(t *testing.T) {
	blocks := (&StructuredFrontPage{Theme: "T"}).ToBlocks()
	if len(blocks) != 1 {
		t.Errorf("len(blocks) = %d, want 1", len(blocks))
	}
}

func TestGenerate(t *testing.T) {
	provider := &stubProvider{content: `{"theme": "T", "sources": [{"name": "Ars", "summary": "S", "key_stories": []}]}`}
	g := New(provider, WithMaxTokens(500), WithTemperature(0.3))

	blocks, err := g.Generate(context.Background(), sampleDocument())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(blocks) != 3 {
		t.Errorf("len(blocks) = %d, want 3", len(blocks))
	}
	if provider.got.MaxTokens != 500 || provider.got.Temperature != 0.3 {
		t.Errorf("request = %+v", provider.got)
	}
	if !strings.Contains(provider.got.Messages[0].Content, "- Chips get smaller (2026-01-02)") {
		t.Error("prompt missing article list")
	}
}

func TestGenerateErrors(t *testing.T) {
	g := New(&stubProvider{err: errors.New("boom")})
	if _, err := g.Generate(context.Background(), sampleDocument()); err == nil {
		t.Error("expected provider error")
	}
	if _, err := g.Generate(context.Background(), &ir.Document{}); err == nil {
		t.Error("expected error for empty document")
	}
	g = New(&stubProvider{content: ""})
	if _, err := g.Generate(context.Background(), sampleDocument()); !errors.Is(err, ErrNoStructure) {
		t.Errorf("error = %v, want ErrNoStructure", err)
	}
}
