package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/verte-zerg/mapty/internal/activities"
	"github.com/verte-zerg/mapty/internal/config"
	"github.com/verte-zerg/mapty/internal/coordinator"
	"github.com/verte-zerg/mapty/internal/geolocate"
	"github.com/verte-zerg/mapty/internal/model"
	"github.com/verte-zerg/mapty/internal/stats"
	"github.com/verte-zerg/mapty/internal/workout"
)

func testActivities(t *testing.T, ids ...string) []workout.Activity {
	t.Helper()
	next := 0
	f := workout.NewFactory(workout.LocaleEnglish, workout.WithIDs(func() string {
		id := ids[next]
		next++
		return id
	}))
	out := make([]workout.Activity, 0, len(ids))
	for range ids {
		a, err := f.Create(workout.Input{Kind: workout.KindRunning, Distance: 5, Duration: 30, Secondary: 150})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		out = append(out, a)
	}
	return out
}

func TestResolveID(t *testing.T) {
	acts := testActivities(t, "abc123", "abd456", "xyz789")
	if got, err := resolveID(acts, "xy"); err != nil || got != "xyz789" {
		t.Fatalf("expected unique prefix match, got %q, %v", got, err)
	}
	if got, err := resolveID(acts, "abc123"); err != nil || got != "abc123" {
		t.Fatalf("expected exact match, got %q, %v", got, err)
	}
	if _, err := resolveID(acts, "ab"); !errors.Is(err, errAmbiguousID) {
		t.Fatalf("expected ambiguous id error, got %v", err)
	}
	if _, err := resolveID(acts, "zzz"); !errors.Is(err, activities.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := resolveID(acts, " "); !errors.Is(err, activities.ErrNotFound) {
		t.Fatalf("expected not found for blank id, got %v", err)
	}
}

func validConfig() model.Config {
	return model.Config{
		Locale:      defaultLocale,
		Zoom:        coordinator.DefaultZoom,
		TileURL:     coordinator.DefaultTileURL,
		Attribution: coordinator.DefaultAttribution,
		PanDuration: coordinator.DefaultPanDuration,
		Location: model.LocationConfig{
			Provider: defaultProvider,
			At:       workout.Coordinates{Lat: defaultLat, Lng: defaultLng},
			URL:      geolocate.DefaultURL,
			Timeout:  geolocate.DefaultTimeout,
		},
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validConfig()); err != nil {
		t.Fatalf("expected defaults to be valid: %v", err)
	}
	cases := map[string]func(*model.Config){
		"locale":   func(c *model.Config) { c.Locale = "de" },
		"zoom":     func(c *model.Config) { c.Zoom = 99 },
		"pan":      func(c *model.Config) { c.PanDuration = -1 },
		"provider": func(c *model.Config) { c.Location.Provider = "gps" },
		"lat":      func(c *model.Config) { c.Location.At.Lat = 91 },
		"lng":      func(c *model.Config) { c.Location.At.Lng = -181 },
		"timeout":  func(c *model.Config) { c.Location.Timeout = 0 },
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("expected %s to be rejected", name)
		}
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	keyLine := regexp.MustCompile(`^# ([a-z-]+ = )`)
	lines := strings.Split(defaultConfigTemplate(), "\n")
	for i, line := range lines {
		lines[i] = keyLine.ReplaceAllString(line, "$1")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("expected uncommented template to load: %v", err)
	}
	if fc.Map.Zoom == nil || *fc.Map.Zoom != coordinator.DefaultZoom {
		t.Fatalf("expected default zoom, got %v", fc.Map.Zoom)
	}
	if fc.Location.Provider == nil || *fc.Location.Provider != defaultProvider {
		t.Fatalf("expected default provider")
	}
	if fc.Map.Attribution == nil || *fc.Map.Attribution != coordinator.DefaultAttribution {
		t.Fatalf("expected attribution to survive quoting")
	}
}

func TestConfirm(t *testing.T) {
	for input, want := range map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"":      false,
	} {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(input), &out, "sure? ")
		if err != nil {
			t.Fatalf("confirm(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("confirm(%q) = %v, expected %v", input, got, want)
		}
		if out.String() != "sure? " {
			t.Fatalf("expected prompt, got %q", out.String())
		}
	}
}

func TestStatsConfigValidation(t *testing.T) {
	defer func() {
		statsKind, statsSince, statsLast, statsWindow = "", "", 0, defaultStatsWindow
	}()
	statsKind, statsSince, statsLast, statsWindow = "cycling", "2026-01-02", 3, 5
	cfg, err := statsConfig()
	if err != nil {
		t.Fatalf("expected valid stats config: %v", err)
	}
	if cfg.Kind != "cycling" || cfg.Since == nil || cfg.Last != 3 || cfg.Window != 5 {
		t.Fatalf("unexpected stats config: %+v", cfg)
	}
	statsKind, statsSince, statsLast = " Running", "", 0
	cfg, err = statsConfig()
	if err != nil || cfg.Kind != string(workout.KindRunning) {
		t.Fatalf("expected kind to be normalized, got %q (%v)", cfg.Kind, err)
	}
	acts := testActivities(t, "r1")
	if got := stats.Filter(acts, cfg); len(got) != 1 {
		t.Fatalf("expected normalized kind to match the running workout, got %d", len(got))
	}
	for _, bad := range []func(){
		func() { statsKind = "swimming" },
		func() { statsSince = "02/01/2026" },
		func() { statsLast = -1 },
		func() { statsWindow = 0 },
	} {
		statsKind, statsSince, statsLast, statsWindow = "", "", 0, 5
		bad()
		if _, err := statsConfig(); err == nil {
			t.Fatalf("expected invalid stats config to fail: %s", fmt.Sprint(statsKind, statsSince, statsLast, statsWindow))
		}
	}
}
