package output

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jmylchreest/dailyfeed/pkg/digest"
	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

func mustHeading(level int, text string) ir.Block {
	b, ok := ir.NewHeading(level, ir.Plain(text))
	if !ok {
		panic("invalid heading level")
	}
	return b
}

func mustList(ordered bool, items ...ir.TextContent) ir.Block {
	b, ok := ir.NewList(ordered, items)
	if !ok {
		panic("empty list")
	}
	return b
}

func sampleDocument() *ir.Document {
	return &ir.Document{
		Metadata: ir.DocumentMetadata{
			Title:       "Daily <Digest>",
			Author:      "Bot",
			Description: "Aggregated RSS feeds",
			GeneratedAt: "2024-01-01T00:00:00Z",
		},
		FrontPage: []ir.Block{
			ir.NewParagraph(ir.FromSpans(ir.BoldSpan("Today's World: "), ir.PlainSpan("calm"))),
		},
		Feeds: []ir.Feed{{
			Name:                    "Tech",
			Description:             "Latest",
			URL:                     "https://example.com",
			TotalReadingTimeMinutes: 2,
			Articles: []ir.Article{{
				Title:              "Story",
				ReadingTimeMinutes: 2,
				Metadata: ir.ArticleMetadata{
					PublishedDate: "Mon, 01 Jan 2024",
					Author:        "Jane",
					URL:           "https://example.com/1",
					FeedName:      "Tech",
				},
				Content: []ir.Block{
					mustHeading(2, "Intro"),
					ir.NewParagraph(ir.FromSpans(
						ir.PlainSpan("Hello "),
						ir.BoldSpan("world"),
						ir.ItalicSpan("!"),
						ir.CodeSpan("x"),
						ir.LinkSpan("test", "#"),
					)),
					mustList(true, ir.Plain("one"), ir.Plain("two")),
					ir.NewQuote(ir.Plain("quoted\nlines")),
					ir.NewCode("go", "func main() {}\n"),
					ir.NewCode("", "plain"),
					ir.NewLink("https://example.com", "Example"),
					ir.NewImageWithAlt("a.png", "Alt"),
					ir.NewImageWithAlt("b.png", ""),
					ir.NewImage("c.png"),
					ir.NewRaw("<table><tr><td>x</td></tr></table>"),
				},
				Comments: []ir.Comment{{
					Author:    "alice",
					Upvotes:   4,
					Downvotes: 1,
					Timestamp: "2024-01-01T10:00:00Z",
					Content:   []ir.Block{ir.NewParagraph(ir.Plain("Nice"))},
				}},
			}},
		}},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			doc := sampleDocument()

			var buf bytes.Buffer
			if err := WriteDocument(&buf, doc, format); err != nil {
				t.Fatalf("WriteDocument() error = %v", err)
			}

			got, err := ReadDocument(&buf, format)
			if err != nil {
				t.Fatalf("ReadDocument() error = %v", err)
			}

			if !reflect.DeepEqual(got, doc) {
				t.Errorf("round trip mismatch\ngot:  %+v\nwant: %+v", got, doc)
			}
		})
	}
}

func TestRoundTrip_EmptyCollections(t *testing.T) {
	docs := map[string]*ir.Document{
		"built without feeds": digest.NewBuilder("Empty", "Bot").Build(),
		"empty slices": {
			Metadata:  ir.DocumentMetadata{Title: "t", GeneratedAt: "2024-01-01T00:00:00Z"},
			FrontPage: []ir.Block{},
			Feeds: []ir.Feed{{
				Name: "f",
				Articles: []ir.Article{{
					Title:    "a",
					Metadata: ir.ArticleMetadata{FeedName: "f"},
					Content:  []ir.Block{ir.NewParagraph(ir.TextContent{Spans: []ir.TextSpan{}})},
					Comments: []ir.Comment{{Author: "x", Content: []ir.Block{}}},
				}},
			}, {Name: "g", Articles: []ir.Article{}}},
		},
		"nil slices": {
			Metadata: ir.DocumentMetadata{Title: "t"},
			Feeds: []ir.Feed{{
				Name: "f",
				Articles: []ir.Article{{
					Title:    "a",
					Content:  []ir.Block{ir.NewParagraph(ir.TextContent{})},
					Comments: []ir.Comment{{Author: "x"}},
				}},
			}, {Name: "g"}},
		},
	}

	for name, doc := range docs {
		for _, format := range []Format{FormatJSON, FormatYAML} {
			t.Run(name+"/"+string(format), func(t *testing.T) {
				var buf bytes.Buffer
				if err := WriteDocument(&buf, doc, format); err != nil {
					t.Fatalf("WriteDocument() error = %v", err)
				}
				encoded := buf.String()

				got, err := ReadDocument(&buf, format)
				if err != nil {
					t.Fatalf("ReadDocument() error = %v", err)
				}
				if !reflect.DeepEqual(got, doc) {
					t.Errorf("round trip mismatch\ngot:  %+v\nwant: %+v\nencoded:\n%s", got, doc, encoded)
				}
			})
		}
	}
}

func TestRoundTrip_Compact(t *testing.T) {
	doc := sampleDocument()

	var buf bytes.Buffer
	if err := WriteDocument(&buf, doc, FormatJSON, WithPretty(false)); err != nil {
		t.Fatalf("WriteDocument() error = %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected single-line JSON, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Daily <Digest>") {
		t.Error("expected HTML characters to be left unescaped")
	}

	got, err := UnmarshalDocument(buf.Bytes(), FormatJSON)
	if err != nil {
		t.Fatalf("UnmarshalDocument() error = %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Error("round trip mismatch")
	}
}

func TestReadDocument_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"malformed json", FormatJSON, `{"metadata":`},
		{"unknown field", FormatJSON, `{"metadata":{"title":"t"},"bogus":1}`},
		{"unknown block type", FormatJSON, `{"front_page":[{"type":"table"}]}`},
		{"payload mismatch", FormatJSON, `{"front_page":[{"type":"quote","paragraph":{"spans":[]}}]}`},
		{"two payloads", FormatJSON, `{"front_page":[{"type":"raw","raw":"x","code":{"content":"y"}}]}`},
		{"heading out of range", FormatJSON, `{"front_page":[{"type":"heading","heading":{"level":9,"content":{"spans":[]}}}]}`},
		{"empty list", FormatJSON, `{"front_page":[{"type":"list","list":{"ordered":false,"items":[]}}]}`},
		{"nested comment block", FormatJSON, `{"feeds":[{"name":"f","articles":[{"title":"a","metadata":{"feed_name":"f"},"comments":[{"author":"x","upvotes":0,"downvotes":0,"content":[{"type":"code"}]}]}]}]}`},
		{"malformed yaml", FormatYAML, "metadata: [unclosed"},
		{"empty yaml", FormatYAML, ""},
		{"unknown yaml field", FormatYAML, "metadata:\n  title: t\nextra: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDocument(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsSerializationError(err) {
				t.Errorf("expected SerializationError, got %T: %v", err, err)
			}
			var se *SerializationError
			if errors.As(err, &se) && se.Format != tt.format {
				t.Errorf("Format = %q, want %q", se.Format, tt.format)
			}
		})
	}
}

func TestReadDocument_UnsupportedFormat(t *testing.T) {
	_, err := ReadDocument(strings.NewReader("{}"), Format("toml"))
	if err == nil || IsSerializationError(err) {
		t.Errorf("expected plain unsupported-format error, got %v", err)
	}
}

func TestSerializationError_Message(t *testing.T) {
	err := &SerializationError{Format: FormatJSON, Path: "doc.json", Err: errors.New("boom")}
	if err.Error() != "json document doc.json: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, err.Err) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestNewWriter(t *testing.T) {
	buf := &bytes.Buffer{}

	w, err := NewWriter(buf, FormatJSON)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if _, ok := w.(*JSONWriter); !ok {
		t.Errorf("expected *JSONWriter, got %T", w)
	}

	w, err = NewWriter(buf, FormatYAML)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if _, ok := w.(*YAMLWriter); !ok {
		t.Errorf("expected *YAMLWriter, got %T", w)
	}

	_, err = NewWriter(buf, Format("unsupported"))
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func TestWriter_Blocks(t *testing.T) {
	blocks := []ir.Block{ir.NewParagraph(ir.Plain("x"))}

	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf, 2)
	if err := w.Write(blocks); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "type: paragraph") || !strings.Contains(out, "text: x") {
		t.Errorf("unexpected YAML output:\n%s", out)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" JSON ", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"doc.json":       FormatJSON,
		"doc.YAML":       FormatYAML,
		"dir/doc.yml":    FormatYAML,
		"no-extension":   FormatJSON,
		"archive.tar.gz": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
