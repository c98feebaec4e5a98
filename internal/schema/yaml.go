package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadYAML parses schema YAML with strict field checking, so a typo like
// "constraint:" for "constraints:" fails instead of silently dropping
// rules.
func LoadYAML(data []byte) (*Schema, error) {
	var s Schema
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	if err := validateLoaded(&s); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &s, nil
}

// Load reads a schema file, choosing the loader by extension: .yaml/.yml
// or .cue.
func Load(path string) (*Schema, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}
		return LoadYAML(data)
	case ".cue":
		return LoadCUE(path)
	default:
		return nil, fmt.Errorf("unsupported schema file extension: %s", path)
	}
}
