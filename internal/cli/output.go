package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// writeOutput prints v as indented JSON, or calls text for the text format
func writeOutput(w io.Writer, format string, v any, text func(w io.Writer) error) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return nil
	}
	return text(w)
}
