// Package render turns ir documents into output markup.
//
// The HTML and Markdown renderers are independent visitors over the same ir
// values. Both are pure and deterministic: rendering the same value twice
// yields byte-identical output.
package render

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

// Format represents an output markup dialect.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Renderer renders a whole document.
type Renderer interface {
	// Render produces the complete output for doc.
	Render(doc *ir.Document) (string, error)

	// Extension returns the conventional file extension, without the dot.
	Extension() string
}

// New creates a renderer for the specified format.
func New(format Format) (Renderer, error) {
	switch format {
	case FormatHTML:
		return NewHTML(), nil
	case FormatMarkdown, "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported render format: %s", format)
	}
}

// splitLines splits s into lines, dropping the terminator of the final line
// and any carriage returns.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
