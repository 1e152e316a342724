package aliases

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/triskis777/ketaverso-bot/interfaces"
)

// ReadFile loads a flat JSON object of alias -> target, preserving the key order of the file.
func ReadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file %s: %w", path, err)
	}
	return decodeTable(raw)
}

func decodeTable(raw []byte) (*Table, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return NewTable(nil), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("failed to parse alias file: expected a JSON object")
	}

	var entries []interfaces.AliasEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse alias key: %w", err)
		}
		key, _ := keyTok.(string)

		var target string
		if err := dec.Decode(&target); err != nil {
			return nil, fmt.Errorf("failed to parse alias %q: %w", key, err)
		}
		entries = append(entries, interfaces.AliasEntry{Alias: key, Target: target})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse alias file: trailing data")
	}

	return NewTable(entries), nil
}

func encodeTable(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")

	for i, e := range t.Entries() {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")
		if err := writeJSONString(&buf, e.Alias); err != nil {
			return nil, err
		}
		buf.WriteString(": ")
		if err := writeJSONString(&buf, e.Target); err != nil {
			return nil, err
		}
	}

	if t.Len() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode %q: %w", s, err)
	}
	// Encode terminates with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// WriteFile rewrites the whole alias file. The content goes to a temporary file in the same
// directory first and is renamed over path, so readers of the file never see half of it.
func WriteFile(path string, t *Table) error {
	content, err := encodeTable(t)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary alias file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary alias file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary alias file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace alias file %s: %w", path, err)
	}
	return nil
}
