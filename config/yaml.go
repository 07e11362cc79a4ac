package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors Config with lower_snake_case keys, one per cap.
type yamlConfig struct {
	MaxMethodLen      int   `yaml:"max_method_len"`
	MaxURILen         int   `yaml:"max_uri_len"`
	MaxHeaderNameLen  int   `yaml:"max_header_name_len"`
	MaxHeaderValueLen int   `yaml:"max_header_value_len"`
	MaxHeadersCount   int   `yaml:"max_headers_count"`
	MaxBodySize       int64 `yaml:"max_body_size"`
}

// LoadYAML reads a Config from a YAML document, starting from Default() and
// overriding only the fields present in the document. A field absent from
// the document, or explicitly set to zero, keeps its default value.
func LoadYAML(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseYAML(raw)
}

// ParseYAML behaves like LoadYAML but takes an already-read document.
func ParseYAML(document []byte) (*Config, error) {
	cfg := Default()
	overrides := yamlConfig{}

	if err := yaml.Unmarshal(document, &overrides); err != nil {
		return nil, err
	}

	applyIfSet(&cfg.MaxMethodLen, overrides.MaxMethodLen)
	applyIfSet(&cfg.MaxURILen, overrides.MaxURILen)
	applyIfSet(&cfg.MaxHeaderNameLen, overrides.MaxHeaderNameLen)
	applyIfSet(&cfg.MaxHeaderValueLen, overrides.MaxHeaderValueLen)
	applyIfSet(&cfg.MaxHeadersCount, overrides.MaxHeadersCount)
	applyIfSet(&cfg.MaxBodySize, overrides.MaxBodySize)

	return cfg, nil
}

func applyIfSet[T comparable](dst *T, value T) {
	var zero T
	if value != zero {
		*dst = value
	}
}
