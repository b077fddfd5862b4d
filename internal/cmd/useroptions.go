package cmd

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// ReadOptionsFile reads user options from a JSON or YAML document.
// An empty path yields no options.
func ReadOptionsFile(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Error opening file [%s]: %w", path, err)
	}

	opts := map[string]any{}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("Error loading options file [%s]: %w", path, err)
	}
	if opts == nil {
		opts = map[string]any{}
	}
	return opts, nil
}
