package loader

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a property file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatYAML, FormatJSON, FormatTOML}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want yaml, json or toml)", s)
	}
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot detect format of %s: no file extension", path)
	}

	f, err := ParseFormat(ext)
	if err != nil {
		return "", fmt.Errorf("cannot detect format of %s: %w", path, err)
	}

	return f, nil
}

// FormatForMediaType maps an HTTP Content-Type to a format.
func FormatForMediaType(mediaType string) (Format, bool) {
	mt, _, _ := strings.Cut(mediaType, ";")

	switch strings.ToLower(strings.TrimSpace(mt)) {
	case "application/json", "text/json":
		return FormatJSON, true
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML, true
	case "application/toml", "text/toml":
		return FormatTOML, true
	default:
		return "", false
	}
}
