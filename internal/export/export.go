// Package export encodes resolved properties as YAML, JSON or TOML.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"property-builder/internal/loader"
	"property-builder/property"
)

// Marshal encodes m in the given format.
//
// YAML and JSON keep key order. TOML has no null and its encoder sorts keys,
// so null values are rejected and key order follows the encoder.
func Marshal(m *property.Map, format loader.Format) ([]byte, error) {
	switch format {
	case loader.FormatYAML:
		return marshalYAML(m)
	case loader.FormatJSON:
		b, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal properties as json: %w", err)
		}

		return append(b, '\n'), nil
	case loader.FormatTOML:
		return marshalTOML(m)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// WriteFile encodes m and writes it to path.
func WriteFile(m *property.Map, format loader.Format, path string) error {
	data, err := Marshal(m, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write properties file %s: %w", path, err)
	}

	return nil
}

func marshalYAML(m *property.Map) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to marshal properties as yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal properties as yaml: %w", err)
	}

	return buf.Bytes(), nil
}

func marshalTOML(m *property.Map) ([]byte, error) {
	for k, v := range m.All() {
		if path, ok := findNull(v, k); ok {
			return nil, fmt.Errorf("failed to marshal properties as toml: '%s' is null", path)
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m.ToAny()); err != nil {
		return nil, fmt.Errorf("failed to marshal properties as toml: %w", err)
	}

	return buf.Bytes(), nil
}

// findNull returns the path of the first null inside v.
func findNull(v property.Value, path string) (string, bool) {
	switch v.Kind() {
	case property.KindNull:
		return path, true
	case property.KindArray:
		for _, e := range v.Entries() {
			if p, ok := findNull(e.Value, path+"["+e.Key+"]"); ok {
				return p, true
			}
		}
	}

	return "", false
}
