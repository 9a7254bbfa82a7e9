// Package main provides the CLI entrypoint for mapty.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/mapty/internal/config"
	"github.com/verte-zerg/mapty/internal/coordinator"
	"github.com/verte-zerg/mapty/internal/geolocate"
	"github.com/verte-zerg/mapty/internal/mapview"
	"github.com/verte-zerg/mapty/internal/model"
	"github.com/verte-zerg/mapty/internal/store"
	"github.com/verte-zerg/mapty/internal/tui"
	"github.com/verte-zerg/mapty/internal/workout"
)

const (
	defaultLocale   = "en"
	defaultProvider = geolocate.ProviderHTTP
	defaultLat      = 51.5074
	defaultLng      = -0.1278
)

var (
	dbPath string

	appLocale      string
	mapZoom        int
	mapTileURL     string
	mapAttribution string
	mapPanDuration time.Duration

	locProvider string
	locLat      float64
	locLng      float64
	locURL      string
	locTimeout  time.Duration
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mapty",
		Short:         "Map your running and cycling workouts in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runMapCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the workouts database")
	rootCmd.PersistentFlags().StringVar(&appLocale, "locale", defaultLocale, "workout description language (en, ru)")

	rootCmd.Flags().IntVar(&mapZoom, "zoom", coordinator.DefaultZoom, "map zoom level")
	rootCmd.Flags().StringVar(&mapTileURL, "tile-url", coordinator.DefaultTileURL, "tile layer URL template")
	rootCmd.Flags().StringVar(&mapAttribution, "attribution", coordinator.DefaultAttribution, "tile layer attribution")
	rootCmd.Flags().DurationVar(&mapPanDuration, "pan-duration", coordinator.DefaultPanDuration, "duration of the pan to a focused workout")
	rootCmd.Flags().StringVar(&locProvider, "location", defaultProvider, "location provider (static, http)")
	rootCmd.Flags().Float64Var(&locLat, "lat", defaultLat, "latitude for the static provider")
	rootCmd.Flags().Float64Var(&locLng, "lng", defaultLng, "longitude for the static provider")
	rootCmd.Flags().StringVar(&locURL, "location-url", geolocate.DefaultURL, "IP geolocation endpoint for the http provider")
	rootCmd.Flags().DurationVar(&locTimeout, "location-timeout", geolocate.DefaultTimeout, "geolocation timeout")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runMapCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := openLogFile(config.DefaultLogPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{}))

	app, err := openApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.close()

	locator, err := geolocate.New(cfg.Location.Provider, cfg.Location.At, cfg.Location.URL, cfg.Location.Timeout)
	if err != nil {
		return err
	}

	m := tui.NewModel(app.coord, locator, cfg.Location.Timeout, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// app bundles the store and a coordinator with restored workouts.
type app struct {
	store *store.Store
	coord *coordinator.Coordinator
}

func openApp(cfg model.Config, logger *slog.Logger) (*app, error) {
	locale, err := workout.ParseLocale(cfg.Locale)
	if err != nil {
		return nil, err
	}
	factory := workout.NewFactory(locale)
	st, err := store.Open(dbPath, factory, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	coord := coordinator.New(factory, st, coordinator.Settings{
		Zoom:        cfg.Zoom,
		TileURL:     cfg.TileURL,
		Attribution: cfg.Attribution,
		PanDuration: cfg.PanDuration,
	}, logger)
	if err := coord.RestoreFromPersistence(context.Background()); err != nil {
		if cerr := st.Close(); cerr != nil {
			// Best-effort close when restore fails.
			_ = cerr
		}
		return nil, err
	}
	return &app{store: st, coord: coord}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

// openHeadless opens the app for a one-shot command, logging warnings to
// stderr.
func openHeadless(cmd *cobra.Command) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return openApp(cfg, logger)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// resolveConfig merges the config file under the flags of cmd. Flags that
// cmd does not define keep their defaults.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "locale", &appLocale, fileCfg.Display.Locale)
	applyIntConfig(cmd, "zoom", &mapZoom, fileCfg.Map.Zoom)
	applyStringConfig(cmd, "tile-url", &mapTileURL, fileCfg.Map.TileURL)
	applyStringConfig(cmd, "attribution", &mapAttribution, fileCfg.Map.Attribution)
	if err := applyDurationConfig(cmd, "pan-duration", &mapPanDuration, fileCfg.Map.PanDuration); err != nil {
		return model.Config{}, err
	}
	applyStringConfig(cmd, "location", &locProvider, fileCfg.Location.Provider)
	applyFloatConfig(cmd, "lat", &locLat, fileCfg.Location.Lat)
	applyFloatConfig(cmd, "lng", &locLng, fileCfg.Location.Lng)
	applyStringConfig(cmd, "location-url", &locURL, fileCfg.Location.URL)
	if err := applyDurationConfig(cmd, "location-timeout", &locTimeout, fileCfg.Location.Timeout); err != nil {
		return model.Config{}, err
	}

	cfg := model.Config{
		Locale:      appLocale,
		Zoom:        mapZoom,
		TileURL:     mapTileURL,
		Attribution: mapAttribution,
		PanDuration: mapPanDuration,
		Location: model.LocationConfig{
			Provider: locProvider,
			At:       workout.Coordinates{Lat: locLat, Lng: locLng},
			URL:      locURL,
			Timeout:  locTimeout,
		},
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if flagChanged(cmd, name) {
		return nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mapty configuration
# Uncomment a value to enable it. CLI flags override config values.

[display]
# locale = %q                # Workout description language: en or ru

[map]
# zoom = %d                    # Zoom level when the map opens and on focus
# tile-url = %q
# attribution = %q
# pan-duration = %q           # Pan duration when focusing a workout

[location]
# provider = %q             # static or http
# lat = %.4f                # Used by the static provider
# lng = %.4f
# url = %q
# timeout = %q
`,
		defaultLocale,
		coordinator.DefaultZoom,
		coordinator.DefaultTileURL,
		coordinator.DefaultAttribution,
		coordinator.DefaultPanDuration.String(),
		defaultProvider,
		defaultLat,
		defaultLng,
		geolocate.DefaultURL,
		geolocate.DefaultTimeout.String(),
	)
}

func validateConfig(cfg model.Config) error {
	if _, err := workout.ParseLocale(cfg.Locale); err != nil {
		return fmt.Errorf("--locale: %w", err)
	}
	if cfg.Zoom < mapview.MinZoom || cfg.Zoom > mapview.MaxZoom {
		return fmt.Errorf("--zoom must be between %d and %d", mapview.MinZoom, mapview.MaxZoom)
	}
	if cfg.PanDuration < 0 {
		return fmt.Errorf("--pan-duration must be >= 0")
	}
	switch cfg.Location.Provider {
	case geolocate.ProviderStatic, geolocate.ProviderHTTP:
	default:
		return fmt.Errorf("--location must be %q or %q", geolocate.ProviderStatic, geolocate.ProviderHTTP)
	}
	if cfg.Location.At.Lat < -90 || cfg.Location.At.Lat > 90 {
		return fmt.Errorf("--lat must be between -90 and 90")
	}
	if cfg.Location.At.Lng < -180 || cfg.Location.At.Lng > 180 {
		return fmt.Errorf("--lng must be between -180 and 180")
	}
	if cfg.Location.Timeout <= 0 {
		return fmt.Errorf("--location-timeout must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func writeOut(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		logErrf("failed to write output: %v\n", err)
	}
}
