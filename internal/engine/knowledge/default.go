package knowledge

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed diseases.yaml
var defaultTable []byte

// Default returns the built-in tomato disease table that ships with leafcheck.
func Default() (*Base, error) {
	return Parse(defaultTable)
}

// Load reads a disease table from a YAML file. An empty path yields the
// built-in table.
func Load(path string) (*Base, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: %w", err)
	}
	return Parse(data)
}
