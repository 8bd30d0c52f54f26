package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/theopenlane/echoaudit/internal/types"
)

// JSONWriter outputs reports as indented JSON. A single report is written as
// an object, several as an array
type JSONWriter struct {
	output io.Writer
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{output: output}
}

// Write encodes the reports
func (w *JSONWriter) Write(reports ...types.Report) error {
	enc := json.NewEncoder(w.output)
	enc.SetIndent("", "  ")

	var v any = reports
	if len(reports) == 1 {
		v = reports[0]
	}

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	return nil
}
