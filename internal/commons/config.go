package commons

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"

	"lynra/internal/config"
)

// LoadConfig layers an optional flat YAML file of KEY: value pairs between the
// built-in defaults and the environment. A missing file is not an error.
func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileDefaults map[string]any
	if err := yaml.Unmarshal(data, &fileDefaults); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config.LoadWithDefaults(fileDefaults)
}
