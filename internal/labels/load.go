package labels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the syntax of a label index file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// LoadError reports a label index that is missing, unreadable or malformed.
// It is always fatal to a run.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load labels %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FormatFor picks the index syntax from the file extension. Anything that
// is not .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Load reads and parses the whole label index at path. Either the complete
// index is returned or a *LoadError; there are no partial loads.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	idx, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return idx, nil
}

// Parse decodes a label index document. The top-level value must be a
// mapping from path to a list of timestamp strings; a null list is read as
// empty. Duplicate paths are rejected.
func Parse(data []byte, format Format) (*Index, error) {
	if format == FormatYAML {
		return parseYAML(data)
	}
	return parseJSON(data)
}

// --- JSON ---

// parseJSON walks the token stream rather than unmarshaling into a map so
// that the object's key order survives.
func parseJSON(data []byte) (*Index, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("top-level value must be an object, got %v", tok)
	}

	idx := newIndex()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		path, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		var timestamps []string
		if err := dec.Decode(&timestamps); err != nil {
			return nil, fmt.Errorf("entry %q: %w", path, err)
		}
		if !idx.add(path, timestamps) {
			return nil, fmt.Errorf("duplicate entry %q", path)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}
	return idx, nil
}

// --- YAML ---

func parseYAML(data []byte) (*Index, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: top-level value must be a mapping", root.Line)
	}

	idx := newIndex()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: expected a path key", key.Line)
		}
		var timestamps []string
		if err := val.Decode(&timestamps); err != nil {
			return nil, fmt.Errorf("entry %q: %w", key.Value, err)
		}
		if !idx.add(key.Value, timestamps) {
			return nil, fmt.Errorf("line %d: duplicate entry %q", key.Line, key.Value)
		}
	}
	return idx, nil
}
