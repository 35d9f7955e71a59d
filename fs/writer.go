// Package fs provides file-based storage for extraction results and
// question/answer corpora.
package fs

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// Indent is the indentation used for every JSON document written to disk.
const Indent = "    "

// EncodeJSON writes v as indented JSON without HTML escaping, so non-ASCII
// text (Thai, accented names) is written as-is.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	return enc.Encode(v)
}

// WriteJSON writes v to path as indented JSON, creating parent directories.
// The file is written next to path first and renamed into place, so a failed
// write never leaves a truncated document behind.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, v); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
