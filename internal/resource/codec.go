package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the on-disk encoding of a resource file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension, defaulting to JSON
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode serializes the resource. JSON output is indented with four spaces
// and ends with a newline.
func Encode(r *Resource, format Format) ([]byte, error) {
	r.normalize()

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// Decode parses a resource file
func Decode(data []byte, format Format) (*Resource, error) {
	r := New()

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, r); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, r); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
	}

	r.normalize()
	return r, nil
}

// normalize replaces nil collections so they encode as empty lists
func (r *Resource) normalize() {
	if r.Fields == nil {
		r.Fields = []*Field{}
	}
	if r.Relations == nil {
		r.Relations = []*ForeignRelationship{}
	}
	if r.Indexes == nil {
		r.Indexes = []*Index{}
	}
	for _, rel := range r.Relations {
		if rel.Params == nil {
			rel.Params = []string{}
		}
	}
}
