package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"property-builder/property"
)

// LoadFile loads a property file, detecting the format from its extension.
func LoadFile(path string) (*property.Map, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties file %s: %w", path, err)
	}

	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Parse decodes data in the given format. The top level must be a mapping.
func Parse(data []byte, format Format) (*property.Map, error) {
	m := property.NewMap()

	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, m)
	case FormatJSON:
		err = json.Unmarshal(data, m)
	case FormatTOML:
		m, err = parseTOML(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse %s properties: %w", format, err)
	}

	return m, nil
}

// ParseAssignment splits a "key=value" override. The value may be empty and
// may contain '='; the key may use index syntax (servers[0][host]=db).
func ParseAssignment(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid assignment %q: missing '='", s)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("invalid assignment %q: empty key", s)
	}

	return key, value, nil
}
