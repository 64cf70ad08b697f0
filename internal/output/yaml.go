package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes YAML documents, one per Write.
type YAMLWriter struct {
	w   *bufio.Writer
	enc *yaml.Encoder
}

// NewYAMLWriter creates a YAML writer. Indent below 2 uses 2 spaces.
func NewYAMLWriter(w io.Writer, indent int) *YAMLWriter {
	if indent < 2 {
		indent = 2
	}
	bw := bufio.NewWriter(w)
	enc := yaml.NewEncoder(bw)
	enc.SetIndent(indent)
	return &YAMLWriter{w: bw, enc: enc}
}

// Write encodes data as a YAML document.
func (w *YAMLWriter) Write(data any) error {
	return w.enc.Encode(data)
}

// Flush closes the encoder stream and flushes the buffer.
func (w *YAMLWriter) Flush() error {
	if err := w.enc.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
