package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Display.Locale != nil || cfg.Map.Zoom != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[display]
locale = "ru"

[map]
zoom = 15
pan-duration = "500ms"

[location]
provider = "static"
lat = 55.75
lng = 37.62
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Display.Locale == nil || *cfg.Display.Locale != "ru" {
		t.Fatalf("expected locale ru")
	}
	if cfg.Map.Zoom == nil || *cfg.Map.Zoom != 15 {
		t.Fatalf("expected zoom 15")
	}
	if cfg.Map.PanDuration == nil || *cfg.Map.PanDuration != "500ms" {
		t.Fatalf("expected pan duration")
	}
	if cfg.Map.TileURL != nil {
		t.Fatalf("expected tile url to be unset")
	}
	if cfg.Location.Lat == nil || *cfg.Location.Lat != 55.75 || *cfg.Location.Lng != 37.62 {
		t.Fatalf("unexpected location: %+v", cfg.Location)
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[map]\nzom = 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "map.zom") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "mapty", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "mapty", "mapty.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/tmp/data", "mapty", "mapty.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
