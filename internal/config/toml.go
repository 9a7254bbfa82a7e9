// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Display  DisplayConfig  `toml:"display"`
	Map      MapConfig      `toml:"map"`
	Location LocationConfig `toml:"location"`
}

// DisplayConfig maps presentation settings.
type DisplayConfig struct {
	Locale *string `toml:"locale"`
}

// MapConfig maps map-related settings. Durations are Go duration strings.
type MapConfig struct {
	Zoom        *int    `toml:"zoom"`
	TileURL     *string `toml:"tile-url"`
	Attribution *string `toml:"attribution"`
	PanDuration *string `toml:"pan-duration"`
}

// LocationConfig maps geolocation settings.
type LocationConfig struct {
	Provider *string  `toml:"provider"`
	Lat      *float64 `toml:"lat"`
	Lng      *float64 `toml:"lng"`
	URL      *string  `toml:"url"`
	Timeout  *string  `toml:"timeout"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
