package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSON dumps v to path as indented UTF-8 JSON. Used for the raw
// per-image OCR documents so a run can be re-extracted without re-OCRing.
func WriteJSON(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating JSON file %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON to %s: %w", path, err)
	}

	return nil
}
