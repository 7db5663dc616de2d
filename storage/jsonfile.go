// JSONFile writes a single indented JSON document to disk.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFile is a single JSON document at a fixed path.
type JSONFile struct {
	path string
}

// NewJSONFile creates a writer for path. Nothing is touched until Save.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Save writes v as two-space indented JSON, creating missing parent
// directories. Non-ASCII text is written as UTF-8, not escaped.
func (f *JSONFile) Save(v any) error {
	if f.path == "" {
		return fmt.Errorf("json file path is empty")
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}

	if err := os.WriteFile(f.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}
