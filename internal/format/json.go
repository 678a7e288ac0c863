package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter writes data as JSON. Money fields keep their exact decimal text.
type JSONFormatter struct {
	w      io.Writer
	pretty bool
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer, pretty bool) *JSONFormatter {
	return &JSONFormatter{w: w, pretty: pretty}
}

// Format encodes data followed by a newline
func (f *JSONFormatter) Format(data interface{}) error {
	enc := json.NewEncoder(f.w)
	// references and descriptions may contain & or <
	enc.SetEscapeHTML(false)
	if f.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
