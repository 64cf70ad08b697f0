package parser

import (
	"fmt"

	"github.com/jmylchreest/dailyfeed/pkg/ir"
)

// Warning phases.
const (
	PhaseParse    = "parse"
	PhaseClassify = "classify"
	PhaseFallback = "fallback"
)

// Warning represents a degradation applied while parsing untrusted markup.
type Warning struct {
	Phase   string `json:"phase"`
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

// String returns a human-readable representation of the warning.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the parsed blocks together with any degradations.
type Result struct {
	Blocks   []ir.Block `json:"blocks"`
	Warnings []Warning  `json:"warnings,omitempty"`
}

// AddWarning records a degradation.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any degradation was recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
