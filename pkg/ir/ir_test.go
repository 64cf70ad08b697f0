package ir

import (
	"strings"
	"testing"
)

func TestAnchor(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Complex (Test) [Case]!", "complex-test-case"},
		{"Test & More", "test--more"},
		{"Hello World", "hello-world"},
		{"snake_case title", "snake_case-title"},
		{"Café au lait", "caf-au-lait"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := Anchor(tt.title); got != tt.want {
				t.Errorf("Anchor(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestAnchor_DuplicatesNotDeduplicated(t *testing.T) {
	if Anchor("Same") != Anchor("Same") {
		t.Error("expected identical titles to produce identical anchors")
	}
}

func TestTextContent_IsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content TextContent
		want    bool
	}{
		{"no spans", TextContent{}, true},
		{"whitespace spans", FromSpans(PlainSpan("  "), BoldSpan("\n\t")), true},
		{"text", Plain("hello"), false},
		{"mixed", FromSpans(PlainSpan(" "), ItalicSpan("x")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.content.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextContent_PlainText(t *testing.T) {
	c := FromSpans(PlainSpan("Hello "), BoldSpan("world"), LinkSpan("!", "#"))
	if got := c.PlainText(); got != "Hello world!" {
		t.Errorf("PlainText() = %q", got)
	}
}

func TestNewHeading_LevelRange(t *testing.T) {
	for level := 0; level <= 7; level++ {
		_, ok := NewHeading(level, Plain("x"))
		want := level >= 1 && level <= 6
		if ok != want {
			t.Errorf("NewHeading(%d) ok = %v, want %v", level, ok, want)
		}
	}
}

func TestNewList_RejectsEmpty(t *testing.T) {
	if _, ok := NewList(false, nil); ok {
		t.Error("expected empty list to be rejected")
	}
	b, ok := NewList(true, []TextContent{Plain("a")})
	if !ok || b.Type != BlockTypeList || !b.List.Ordered {
		t.Errorf("unexpected list block: %+v", b)
	}
}

func TestBlock_IsEmpty(t *testing.T) {
	heading, _ := NewHeading(2, Plain(" "))
	tests := []struct {
		name  string
		block Block
		want  bool
	}{
		{"empty paragraph", NewParagraph(Plain("  ")), true},
		{"paragraph", NewParagraph(Plain("x")), false},
		{"empty heading", heading, true},
		{"empty quote", NewQuote(TextContent{}), true},
		{"code", NewCode("", ""), false},
		{"image without url", NewImageWithAlt("", "alt"), true},
		{"raw", NewRaw("<hr>"), false},
		{"unknown type", Block{Type: "table"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDocument_TotalArticlesAndHeadlines(t *testing.T) {
	doc := &Document{
		Feeds: []Feed{
			{Name: "One", Articles: []Article{
				{Title: "A", Metadata: ArticleMetadata{FeedName: "One", URL: "https://a"}},
				{Title: "B", Metadata: ArticleMetadata{FeedName: "One"}},
			}},
			{Name: "Empty"},
			{Name: "Two", Articles: []Article{
				{Title: "C", Metadata: ArticleMetadata{FeedName: "Two", PublishedDate: "today"}},
			}},
		},
	}

	if got := doc.TotalArticles(); got != 3 {
		t.Errorf("TotalArticles() = %d, want 3", got)
	}

	headlines := doc.Headlines()
	if len(headlines) != 3 {
		t.Fatalf("len(Headlines()) = %d, want 3", len(headlines))
	}
	if headlines[0].URL != "https://a" || headlines[2].SourceName != "Two" || headlines[2].PublishedDate != "today" {
		t.Errorf("unexpected headlines: %+v", headlines)
	}
}

func TestComment_Score(t *testing.T) {
	c := Comment{Upvotes: 12, Downvotes: 5}
	if c.Score() != 7 {
		t.Errorf("Score() = %d, want 7", c.Score())
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"none", 0, 0},
		{"one word", 1, 1},
		{"exactly one minute", 200, 1},
		{"just over", 201, 2},
		{"long", 1000, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var blocks []Block
			if tt.words > 0 {
				blocks = []Block{NewParagraph(Plain(strings.TrimSpace(strings.Repeat("word ", tt.words))))}
			}
			if got := ReadingTime(blocks); got != tt.want {
				t.Errorf("ReadingTime(%d words) = %d, want %d", tt.words, got, tt.want)
			}
		})
	}
}

func TestWordCount_CountsListItems(t *testing.T) {
	list, _ := NewList(false, []TextContent{Plain("one two"), Plain("three")})
	blocks := []Block{list, NewCode("go", "x := 1"), NewLink("#", "a link")}
	if got := WordCount(blocks); got != 8 {
		t.Errorf("WordCount() = %d, want 8", got)
	}
}
