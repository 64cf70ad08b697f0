package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

// SerializationError reports interchange data that cannot be loaded back
// into a valid document.
type SerializationError struct {
	Format Format
	Path   string
	Err    error
}

func (e *SerializationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s document %s: %v", e.Format, e.Path, e.Err)
	}
	return fmt.Sprintf("%s document: %v", e.Format, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// IsSerializationError reports whether err wraps a SerializationError.
func IsSerializationError(err error) bool {
	var se *SerializationError
	return errors.As(err, &se)
}

// WriteDocument serializes doc to w.
func WriteDocument(w io.Writer, doc *ir.Document, format Format, opts ...WriterOption) error {
	if doc == nil {
		return errors.New("write document: nil document")
	}
	writer, err := NewWriter(w, format, opts...)
	if err != nil {
		return err
	}
	if err := writer.Write(doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return writer.Flush()
}

// ReadDocument loads a document previously written by WriteDocument.
// Unknown fields and structurally invalid blocks are rejected with a
// *SerializationError.
func ReadDocument(r io.Reader, format Format) (*ir.Document, error) {
	var doc ir.Document

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, &SerializationError{Format: format, Err: err}
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				err = errors.New("empty input")
			}
			return nil, &SerializationError{Format: format, Err: err}
		}
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}

	if err := ValidateDocument(&doc); err != nil {
		return nil, &SerializationError{Format: format, Err: err}
	}
	return &doc, nil
}

// UnmarshalDocument is ReadDocument over a byte slice.
func UnmarshalDocument(data []byte, format Format) (*ir.Document, error) {
	return ReadDocument(bytes.NewReader(data), format)
}

// ValidateDocument checks that every block in doc is a well-formed variant.
func ValidateDocument(doc *ir.Document) error {
	if err := validateBlocks("front_page", doc.FrontPage); err != nil {
		return err
	}
	for fi, feed := range doc.Feeds {
		for ai, article := range feed.Articles {
			where := fmt.Sprintf("feeds[%d].articles[%d]", fi, ai)
			if err := validateBlocks(where+".content", article.Content); err != nil {
				return err
			}
			for ci, comment := range article.Comments {
				if err := validateBlocks(fmt.Sprintf("%s.comments[%d].content", where, ci), comment.Content); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateBlocks(where string, blocks []ir.Block) error {
	for i, b := range blocks {
		if err := validateBlock(b); err != nil {
			return fmt.Errorf("%s[%d]: %w", where, i, err)
		}
	}
	return nil
}

func validateBlock(b ir.Block) error {
	payloads := 0
	for _, set := range []bool{
		b.Paragraph != nil, b.Heading != nil, b.List != nil, b.Quote != nil,
		b.Code != nil, b.Link != nil, b.Image != nil, b.Raw != nil,
	} {
		if set {
			payloads++
		}
	}
	if payloads != 1 {
		return fmt.Errorf("block %q has %d payloads, want 1", b.Type, payloads)
	}

	var ok bool
	switch b.Type {
	case ir.BlockTypeParagraph:
		ok = b.Paragraph != nil
	case ir.BlockTypeHeading:
		ok = b.Heading != nil
		if ok && (b.Heading.Level < ir.MinHeadingLevel || b.Heading.Level > ir.MaxHeadingLevel) {
			return fmt.Errorf("heading level %d out of range", b.Heading.Level)
		}
	case ir.BlockTypeList:
		ok = b.List != nil
		if ok && len(b.List.Items) == 0 {
			return errors.New("list has no items")
		}
	case ir.BlockTypeQuote:
		ok = b.Quote != nil
	case ir.BlockTypeCode:
		ok = b.Code != nil
	case ir.BlockTypeLink:
		ok = b.Link != nil
	case ir.BlockTypeImage:
		ok = b.Image != nil
	case ir.BlockTypeRaw:
		ok = b.Raw != nil
	default:
		return fmt.Errorf("unknown block type %q", b.Type)
	}
	if !ok {
		return fmt.Errorf("block type %q does not match its payload", b.Type)
	}
	return nil
}
