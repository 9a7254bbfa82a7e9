package stats

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/mapty/internal/model"
	"github.com/verte-zerg/mapty/internal/workout"
)

func sampleActivities(t *testing.T) []workout.Activity {
	t.Helper()
	seq := 0
	f := workout.NewFactory(workout.LocaleEnglish, workout.WithIDs(func() string {
		seq++
		return fmt.Sprintf("w%d", seq)
	}))
	inputs := []workout.Input{
		{Kind: workout.KindRunning, Distance: 5, Duration: 30, Secondary: 150},
		{Kind: workout.KindCycling, Distance: 20, Duration: 40, Secondary: 100},
		{Kind: workout.KindRunning, Distance: 10, Duration: 50, Secondary: 170},
		{Kind: workout.KindCycling, Distance: 30, Duration: 80, Secondary: 250},
	}
	out := make([]workout.Activity, 0, len(inputs))
	for _, in := range inputs {
		a, err := f.Create(in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		out = append(out, a)
	}
	return out
}

func TestSummarizeByKind(t *testing.T) {
	summaries := Summarize(sampleActivities(t))
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	run, ride := summaries[0], summaries[1]
	if run.Kind != workout.KindRunning || run.Count != 2 || run.Distance != 15 || run.Duration != 80 {
		t.Fatalf("unexpected running summary: %+v", run)
	}
	if run.Best != 5.0 {
		t.Fatalf("expected best pace 5.0, got %v", run.Best)
	}
	if got := run.SecondaryAverage(); got != 160 {
		t.Fatalf("expected average cadence 160, got %v", got)
	}
	if ride.Metric != 25.0 || ride.Best != 30.0 {
		t.Fatalf("unexpected cycling metrics: %+v", ride)
	}
	if got := ride.SecondaryAverage(); got != 350 {
		t.Fatalf("expected total climb 350, got %v", got)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Fatalf("expected no summaries, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
}

func TestRenderSummaryAndTrends(t *testing.T) {
	var buf bytes.Buffer
	acts := sampleActivities(t)
	if err := RenderSummary(&buf, acts); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Summary", "running", "cycling", "25.0 km/h", "350 m"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderTrends(&buf, acts, 1, 0); err != nil {
		t.Fatalf("render trends: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 trend lines, got:\n%s", buf.String())
	}
}

func TestFooterLine(t *testing.T) {
	if got := FooterLine(nil); got != "0 workouts" {
		t.Fatalf("unexpected footer: %q", got)
	}
	got := FooterLine(sampleActivities(t))
	if !strings.HasPrefix(got, "4 workouts") || !strings.Contains(got, "15 km") || !strings.Contains(got, "50 km") {
		t.Fatalf("unexpected footer: %q", got)
	}
}

func TestFilter(t *testing.T) {
	acts := sampleActivities(t)
	got := Filter(acts, model.StatsConfig{Kind: "running"})
	if len(got) != 2 || got[0].ID() != "w1" || got[1].ID() != "w3" {
		t.Fatalf("unexpected kind filter result: %d", len(got))
	}
	got = Filter(acts, model.StatsConfig{Last: 1})
	if len(got) != 1 || got[0].ID() != "w4" {
		t.Fatalf("expected only the last workout")
	}
	future := time.Now().Add(time.Hour)
	if got := Filter(acts, model.StatsConfig{Since: &future}); len(got) != 0 {
		t.Fatalf("expected no workouts after %v", future)
	}
}
