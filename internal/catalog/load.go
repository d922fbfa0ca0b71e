package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Services []Service `yaml:"services"`
}

// Load reads a YAML catalog from path and builds a Table from it.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse builds a Table from YAML bytes.
func Parse(raw []byte) (*Table, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	return New(file.Services)
}
