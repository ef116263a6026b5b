package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// config is the optional uidom.yaml project file: command-line flags
// still win when explicitly set, this only supplies their defaults.
type config struct {
	OutDir  string `yaml:"out_dir"`
	Package string `yaml:"package"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
