package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// InitConfig loads configuration from a YAML file on top of the defaults, so
// a config file only needs to name the sections it overrides.
func InitConfig(configPath string) (*Config, error) {
	conf := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %v", err)
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, err
	}

	return conf, nil
}
