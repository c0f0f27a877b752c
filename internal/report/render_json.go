package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSONFile writes a report to path with the same encoding as WriteJSON.
func WriteJSONFile(path string, report any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := WriteJSON(f, report); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteJSON writes a report as indented JSON. Escape sequences such as
// "<Esc>E" are kept readable rather than HTML-escaped.
func WriteJSON(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
