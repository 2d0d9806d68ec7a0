package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/danmuck/pipewire/internal/config"
)

const defaultConfigPath = "cmd/wirectl/config.toml"

// loadConfig reads path, falling back to defaults when the default path is
// absent.
func loadConfig(path string) (config.WireConfig, error) {
	if path == "" {
		path = defaultConfigPath
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath {
		return config.DefaultWireConfig(), nil
	}
	return config.LoadWireConfig(path)
}
