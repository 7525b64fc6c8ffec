package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSeed []byte

// Loader handles loading and parsing of a seed catalog file
type Loader struct {
	filePath string
}

// NewLoader creates a new seed loader. An empty path selects the built-in
// catalog.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Source describes where Load reads from, for logging.
func (l *Loader) Source() string {
	if l.filePath == "" {
		return "built-in"
	}
	return l.filePath
}

// Load reads and parses the seed file
func (l *Loader) Load() (Config, error) {
	data := defaultSeed
	if l.filePath != "" {
		var err error
		data, err = os.ReadFile(l.filePath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read seed file: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes seed YAML. Unknown fields are rejected so typos surface.
func Parse(data []byte) (Config, error) {
	var config Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	return config, nil
}
