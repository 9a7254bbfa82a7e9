package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/mapty/internal/activities"
	"github.com/verte-zerg/mapty/internal/export"
	"github.com/verte-zerg/mapty/internal/listview"
	"github.com/verte-zerg/mapty/internal/model"
	"github.com/verte-zerg/mapty/internal/stats"
	"github.com/verte-zerg/mapty/internal/statsui"
	"github.com/verte-zerg/mapty/internal/workout"
)

const (
	defaultStatsWindow  = 5
	terminalWidthBackup = 80
)

var (
	addKind      string
	addLat       float64
	addLng       float64
	addDistance  string
	addDuration  string
	addCadence   string
	addClimbGain string

	resetYes bool

	exportOutput string

	statsKind   string
	statsSince  string
	statsLast   int
	statsWindow int
	statsPlain  bool
)

var errAmbiguousID = errors.New("ambiguous workout id")

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a workout without opening the map",
		Args:  cobra.NoArgs,
		RunE:  runAddCmd,
	}
	cmd.Flags().StringVar(&addKind, "kind", string(workout.KindRunning), "workout type (running, cycling)")
	cmd.Flags().Float64Var(&addLat, "lat", 0, "latitude of the workout")
	cmd.Flags().Float64Var(&addLng, "lng", 0, "longitude of the workout")
	cmd.Flags().StringVar(&addDistance, "distance", "", "distance in km")
	cmd.Flags().StringVar(&addDuration, "duration", "", "duration in minutes")
	cmd.Flags().StringVar(&addCadence, "cadence", "", "cadence in steps per minute (running)")
	cmd.Flags().StringVar(&addClimbGain, "climb", "", "elevation gain in meters (cycling)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}

func runAddCmd(cmd *cobra.Command, _ []string) error {
	a, err := openHeadless(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	secondary := addCadence
	if addKind == string(workout.KindCycling) {
		secondary = addClimbGain
	}
	a.coord.SelectLocation(workout.Coordinates{Lat: addLat, Lng: addLng})
	created, err := a.coord.AddWorkout(context.Background(), workout.Submission{
		Kind:      addKind,
		Distance:  addDistance,
		Duration:  addDuration,
		Secondary: secondary,
	})
	if err != nil {
		return err
	}
	writeOut(cmd.OutOrStdout(), "%s %s (%s)\n", created.Icon(), created.Description(), created.ID())
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded workouts",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	a, err := openHeadless(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	return listview.WriteTable(cmd.OutOrStdout(), a.coord.Activities())
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a workout by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemoveCmd,
	}
}

func runRemoveCmd(cmd *cobra.Command, args []string) error {
	a, err := openHeadless(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	id, err := resolveID(a.coord.Activities(), args[0])
	if err != nil {
		return err
	}
	if err := a.coord.RemoveWorkout(context.Background(), id); err != nil {
		return err
	}
	writeOut(cmd.OutOrStdout(), "removed %s\n", id)
	return nil
}

// resolveID finds the single workout whose id starts with prefix.
func resolveID(acts []workout.Activity, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", activities.ErrNotFound
	}
	match := ""
	for _, a := range acts {
		if a.ID() == prefix {
			return prefix, nil
		}
		if strings.HasPrefix(a.ID(), prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", errAmbiguousID, prefix)
			}
			match = a.ID()
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", activities.ErrNotFound, prefix)
	}
	return match, nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every workout",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete all workouts? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("reset cancelled")
			return nil
		}
	}
	a, err := openHeadless(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.coord.ResetAll(context.Background()); err != nil {
		return err
	}
	writeOut(cmd.OutOrStdout(), "all workouts deleted\n")
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	writeOut(out, "%s", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export workouts as GPX waypoints",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	a, err := openHeadless(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if exportOutput == "" {
		return export.WriteGPX(cmd.OutOrStdout(), a.coord.Activities())
	}
	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.WriteGPX(f, a.coord.Activities()); err != nil {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close after a failed write.
			_ = cerr
		}
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	logErrf("exported %d workouts to %s\n", len(a.coord.Activities()), exportOutput)
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show workout stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsKind, "kind", "", "workout type filter (running, cycling)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N workouts")
	cmd.Flags().IntVar(&statsWindow, "window", defaultStatsWindow, "moving average window for trends")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print stats instead of opening the stats view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}
	a, err := openHeadless(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		acts := stats.Filter(a.coord.Activities(), cfg)
		out := cmd.OutOrStdout()
		if err := stats.RenderSummary(out, acts); err != nil {
			return err
		}
		return stats.RenderTrends(out, acts, cfg.Window, terminalWidth()-14)
	}

	m := statsui.NewModel(a.coord.Activities(), cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	kind := ""
	if statsKind != "" {
		parsed, err := workout.ParseKind(statsKind)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --kind value: %w", err)
		}
		kind = string(parsed)
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--window must be >= 1")
	}
	return model.StatsConfig{
		Kind:   kind,
		Since:  sinceTime,
		Last:   statsLast,
		Window: statsWindow,
	}, nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
