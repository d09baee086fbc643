package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// writeJSONFile writes v as indented JSON. HTML escaping is off so product
// names and category labels stay readable UTF-8 in the published files.
func writeJSONFile(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
