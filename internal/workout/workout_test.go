package workout

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func testFactory(locale Locale) *Factory {
	now := time.Date(2024, time.April, 14, 9, 30, 0, 0, time.UTC)
	seq := 0
	return NewFactory(locale,
		WithClock(func() time.Time { return now }),
		WithIDs(func() string {
			seq++
			return fmt.Sprintf("w-%d", seq)
		}),
	)
}

func TestCreateRunningPace(t *testing.T) {
	f := testFactory(LocaleEnglish)
	a, err := f.Create(Input{Kind: KindRunning, Coords: Coordinates{Lat: 50, Lng: 30}, Distance: 5, Duration: 30, Secondary: 150})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Metric() != 6.0 || a.Pace() != 6.0 {
		t.Fatalf("expected pace 6.0, got %v", a.Metric())
	}
	if a.Cadence() != 150 || a.ClimbGain() != 0 {
		t.Fatalf("unexpected secondary values: cadence=%v climb=%v", a.Cadence(), a.ClimbGain())
	}
	if a.Description() != "Running on April 14" {
		t.Fatalf("unexpected description: %q", a.Description())
	}
	if a.Interactions() != 0 {
		t.Fatalf("expected zero interactions")
	}
}

func TestCreateCyclingSpeed(t *testing.T) {
	f := testFactory(LocaleEnglish)
	a, err := f.Create(Input{Kind: KindCycling, Coords: Coordinates{Lat: 50, Lng: 30}, Distance: 20, Duration: 40, Secondary: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Metric() != 30.0 || a.Speed() != 30.0 {
		t.Fatalf("expected speed 30.0, got %v", a.Metric())
	}
	if a.ClimbGain() != 100 || a.Cadence() != 0 {
		t.Fatalf("unexpected secondary values")
	}
	if a.Description() != "Cycling on April 14" {
		t.Fatalf("unexpected description: %q", a.Description())
	}
}

func TestDerivedMetricFormulas(t *testing.T) {
	f := testFactory(LocaleEnglish)
	for _, tc := range []struct{ distance, duration float64 }{
		{1, 1}, {3.3, 17.5}, {42.195, 180}, {0.4, 2.25},
	} {
		run, err := f.Create(Input{Kind: KindRunning, Distance: tc.distance, Duration: tc.duration, Secondary: 170})
		if err != nil {
			t.Fatalf("create running: %v", err)
		}
		if run.Metric() != tc.duration/tc.distance {
			t.Fatalf("pace mismatch for %+v: %v", tc, run.Metric())
		}
		ride, err := f.Create(Input{Kind: KindCycling, Distance: tc.distance, Duration: tc.duration, Secondary: 5})
		if err != nil {
			t.Fatalf("create cycling: %v", err)
		}
		if ride.Metric() != (tc.distance/tc.duration)*60 {
			t.Fatalf("speed mismatch for %+v: %v", tc, ride.Metric())
		}
	}
}

func TestCreateReportsEveryInvalidField(t *testing.T) {
	f := testFactory(LocaleEnglish)
	_, err := f.Create(Input{Kind: KindCycling, Distance: -1, Duration: math.Inf(1), Secondary: math.NaN()})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"distance", "duration", "climbGain"} {
		if !verr.Has(field) {
			t.Fatalf("expected %s to be reported: %v", field, verr)
		}
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(verr.Fields))
	}
}

func TestCreateRejectsOverflowingMetric(t *testing.T) {
	f := testFactory(LocaleEnglish)
	for _, in := range []Input{
		{Kind: KindCycling, Distance: 1e308, Duration: 1, Secondary: 100},
		{Kind: KindRunning, Distance: 1e-300, Duration: 1e300, Secondary: 150},
		{Kind: KindRunning, Distance: 1e300, Duration: 1e-300, Secondary: 150},
	} {
		_, err := f.Create(in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for %+v, got %v", in, err)
		}
		if !verr.Has("distance") || !verr.Has("duration") || len(verr.Fields) != 2 {
			t.Fatalf("expected distance and duration errors for %+v: %v", in, verr)
		}
	}
	if _, err := f.Create(Input{Kind: KindCycling, Distance: 1e6, Duration: 1, Secondary: 100}); err != nil {
		t.Fatalf("expected large finite speed to be accepted: %v", err)
	}
}

func TestCreateRejectsZeroAndUnknownKind(t *testing.T) {
	f := testFactory(LocaleEnglish)
	_, err := f.Create(Input{Kind: "swimming", Distance: 0, Duration: 10, Secondary: 1})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !verr.Has("kind") || !verr.Has("distance") {
		t.Fatalf("expected kind and distance errors: %v", verr)
	}
}

func TestCreateGeneratesDistinctIDs(t *testing.T) {
	f := NewFactory(LocaleEnglish)
	seen := map[string]struct{}{}
	for i := 0; i < 1000; i++ {
		a, err := f.Create(Input{Kind: KindRunning, Distance: 1, Duration: 1, Secondary: 1})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, ok := seen[a.ID()]; ok {
			t.Fatalf("duplicate id %s", a.ID())
		}
		seen[a.ID()] = struct{}{}
	}
}

func TestRestoreRecomputesDerivedFields(t *testing.T) {
	f := testFactory(LocaleEnglish)
	orig, err := f.Create(Input{Kind: KindRunning, Coords: Coordinates{Lat: 1, Lng: 2}, Distance: 5, Duration: 30, Secondary: 150})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rec := orig.Record()
	rec.Pace = 999
	rec.Description = "stale"

	restored, err := f.Restore(rec)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !restored.Equal(orig) {
		t.Fatalf("restored activity differs: %+v vs %+v", restored, orig)
	}
}

func TestRestoreRejectsInvalidRecord(t *testing.T) {
	f := testFactory(LocaleEnglish)
	if _, err := f.Restore(Record{ID: "x", Kind: KindRunning, CreatedAt: time.Now(), Distance: 5, Duration: 30}); err == nil {
		t.Fatalf("expected missing cadence to fail")
	}
	if _, err := f.Restore(Record{Kind: KindRunning, CreatedAt: time.Now(), Distance: 5, Duration: 30, Cadence: 1}); err == nil {
		t.Fatalf("expected missing id to fail")
	}
}

func TestTouchedLeavesOriginal(t *testing.T) {
	f := testFactory(LocaleEnglish)
	a, err := f.Create(Input{Kind: KindRunning, Distance: 1, Duration: 1, Secondary: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b := a.Touched().Touched()
	if a.Interactions() != 0 || b.Interactions() != 2 {
		t.Fatalf("unexpected interactions: %d %d", a.Interactions(), b.Interactions())
	}
	if !a.Equal(b) {
		t.Fatalf("interactions should not affect equality")
	}
}

func TestDescribeRussian(t *testing.T) {
	ts := time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)
	if got := Describe(LocaleRussian, KindRunning, ts); got != "Пробежка 8 марта" {
		t.Fatalf("unexpected description: %q", got)
	}
	if got := Describe(LocaleRussian, KindCycling, ts); got != "Велотренировка 8 марта" {
		t.Fatalf("unexpected description: %q", got)
	}
}

func TestParseSubmission(t *testing.T) {
	in := ParseSubmission(Submission{Kind: " Running ", Distance: "5,5", Duration: "30", Secondary: "abc"}, Coordinates{Lat: 1, Lng: 2})
	if in.Kind != KindRunning || in.Distance != 5.5 || in.Duration != 30 {
		t.Fatalf("unexpected input: %+v", in)
	}
	if !math.IsNaN(in.Secondary) {
		t.Fatalf("expected NaN secondary, got %v", in.Secondary)
	}
	_, err := testFactory(LocaleEnglish).Create(in)
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Has("cadence") {
		t.Fatalf("expected cadence validation error, got %v", err)
	}
}
