// Package stats contains workout summaries and trend reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/mapty/internal/listview"
	"github.com/verte-zerg/mapty/internal/model"
	"github.com/verte-zerg/mapty/internal/workout"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates every workout of one kind.
type Summary struct {
	Kind      workout.Kind
	Count     int
	Distance  float64
	Duration  float64
	Secondary float64
	// Metric is the overall pace or speed, weighted by distance and time.
	Metric float64
	// Best is the lowest pace for running and the highest speed for cycling.
	Best float64
}

// Summarize groups activities by kind. Kinds with no workouts are omitted.
func Summarize(activities []workout.Activity) []Summary {
	byKind := make(map[workout.Kind]*Summary, len(workout.Kinds))
	for _, a := range activities {
		s, ok := byKind[a.Kind()]
		if !ok {
			s = &Summary{Kind: a.Kind(), Best: a.Metric()}
			byKind[a.Kind()] = s
		}
		s.Count++
		s.Distance += a.Distance()
		s.Duration += a.Duration()
		s.Secondary += a.Secondary()
		if better(a.Kind(), a.Metric(), s.Best) {
			s.Best = a.Metric()
		}
	}
	out := make([]Summary, 0, len(byKind))
	for _, kind := range workout.Kinds {
		s, ok := byKind[kind]
		if !ok {
			continue
		}
		s.Metric = overallMetric(kind, s.Distance, s.Duration)
		out = append(out, *s)
	}
	return out
}

func better(kind workout.Kind, v, best float64) bool {
	if kind == workout.KindCycling {
		return v > best
	}
	return v < best
}

func overallMetric(kind workout.Kind, distance, duration float64) float64 {
	if distance <= 0 || duration <= 0 {
		return 0
	}
	if kind == workout.KindCycling {
		return distance / duration * 60
	}
	return duration / distance
}

// SecondaryAverage returns the mean cadence for running and the total climb
// for cycling, matching how each is usually reported.
func (s Summary) SecondaryAverage() float64 {
	if s.Kind == workout.KindCycling || s.Count == 0 {
		return s.Secondary
	}
	return s.Secondary / float64(s.Count)
}

// Filter keeps the activities matching cfg, in order. Last applies after the
// kind and date filters.
func Filter(activities []workout.Activity, cfg model.StatsConfig) []workout.Activity {
	out := make([]workout.Activity, 0, len(activities))
	for _, a := range activities {
		if cfg.Kind != "" && string(a.Kind()) != cfg.Kind {
			continue
		}
		if cfg.Since != nil && a.CreatedAt().Before(*cfg.Since) {
			continue
		}
		out = append(out, a)
	}
	if cfg.Last > 0 && len(out) > cfg.Last {
		out = out[len(out)-cfg.Last:]
	}
	return out
}

// MetricSeries returns the pace or speed of every workout of kind, in order.
func MetricSeries(activities []workout.Activity, kind workout.Kind) []float64 {
	var out []float64
	for _, a := range activities {
		if a.Kind() == kind {
			out = append(out, a.Metric())
		}
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FooterLine is the one-line summary shown under the TUI.
func FooterLine(activities []workout.Activity) string {
	if len(activities) == 0 {
		return "0 workouts"
	}
	parts := []string{fmt.Sprintf("%d workouts", len(activities))}
	for _, s := range Summarize(activities) {
		parts = append(parts, fmt.Sprintf("%s %s km", workout.Icon(s.Kind), listview.FormatNumber(s.Distance)))
	}
	return strings.Join(parts, "  ")
}

// RenderSummary prints per-kind totals for activities.
func RenderSummary(w io.Writer, activities []workout.Activity) error {
	summaries := Summarize(activities)
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No workouts found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	headers := []string{"Kind", "Workouts", "Distance", "Duration", "Overall", "Best", "Cadence/Climb"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			string(s.Kind),
			fmt.Sprintf("%d", s.Count),
			listview.FormatNumber(s.Distance) + " km",
			listview.FormatNumber(s.Duration) + " min",
			fmt.Sprintf("%.1f %s", s.Metric, workout.MetricUnit(s.Kind)),
			fmt.Sprintf("%.1f %s", s.Best, workout.MetricUnit(s.Kind)),
			listview.FormatNumber(s.SecondaryAverage()) + " " + workout.SecondaryUnit(s.Kind),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range listview.FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderTrends prints a pace and speed sparkline smoothed over window
// workouts. width limits the sparkline to the most recent values; zero means
// no limit.
func RenderTrends(w io.Writer, activities []workout.Activity, window, width int) error {
	for _, kind := range workout.Kinds {
		values := MetricSeries(activities, kind)
		if len(values) == 0 {
			continue
		}
		values = MovingAverage(values, window)
		if width > 0 && len(values) > width {
			values = values[len(values)-width:]
		}
		label := fmt.Sprintf("%s %s", workout.Icon(kind), workout.MetricUnit(kind))
		if _, err := fmt.Fprintf(w, "%-12s %s\n", label, Sparkline(values)); err != nil {
			return err
		}
	}
	return nil
}
