package markers

import (
	"fmt"
	"testing"

	"github.com/verte-zerg/mapty/internal/mapview"
	"github.com/verte-zerg/mapty/internal/workout"
)

type fakeMarker struct {
	at      workout.Coordinates
	popup   mapview.PopupOptions
	content string
	open    bool
	removed bool
}

func (m *fakeMarker) BindPopup(opts mapview.PopupOptions) { m.popup = opts }
func (m *fakeMarker) SetContent(text string)              { m.content = text }
func (m *fakeMarker) Open()                               { m.open = true }
func (m *fakeMarker) Remove()                             { m.removed = true }

type fakeMap struct {
	placed []*fakeMarker
}

func (f *fakeMap) Initialize(workout.Coordinates, int)                   {}
func (f *fakeMap) AddTileLayer(string, string)                           {}
func (f *fakeMap) OnClick(func(workout.Coordinates))                     {}
func (f *fakeMap) Recenter(workout.Coordinates, int, mapview.PanOptions) {}
func (f *fakeMap) PlaceMarker(at workout.Coordinates) mapview.Marker {
	m := &fakeMarker{at: at}
	f.placed = append(f.placed, m)
	return m
}

func newActivity(t *testing.T, id string, kind workout.Kind) workout.Activity {
	t.Helper()
	f := workout.NewFactory(workout.LocaleEnglish, workout.WithIDs(func() string { return id }))
	a, err := f.Create(workout.Input{Kind: kind, Coords: workout.Coordinates{Lat: 50, Lng: 30}, Distance: 10, Duration: 50, Secondary: 120})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return a
}

func TestPlaceWithoutMapIsSkipped(t *testing.T) {
	r := New()
	if r.Place(newActivity(t, "a", workout.KindRunning)) {
		t.Fatalf("expected place to be skipped without a map")
	}
	if r.Len() != 0 {
		t.Fatalf("expected no markers")
	}
}

func TestPlaceBindsPopup(t *testing.T) {
	fm := &fakeMap{}
	r := New()
	r.Attach(fm)
	a := newActivity(t, "a", workout.KindCycling)
	if !r.Place(a) {
		t.Fatalf("expected place to succeed")
	}
	if len(fm.placed) != 1 {
		t.Fatalf("expected one marker, got %d", len(fm.placed))
	}
	m := fm.placed[0]
	if m.at != a.Coords() || !m.open {
		t.Fatalf("unexpected marker state: %+v", m)
	}
	if m.popup.ClassName != "cycling-popup" || m.popup.MaxWidth != 250 || m.popup.MinWidth != 100 || m.popup.AutoClose || m.popup.CloseOnClick {
		t.Fatalf("unexpected popup options: %+v", m.popup)
	}
	if m.content != "🚴‍♀️ "+a.Description() {
		t.Fatalf("unexpected content: %q", m.content)
	}
}

func TestRemoveAndClear(t *testing.T) {
	fm := &fakeMap{}
	r := New()
	r.Attach(fm)
	for i := 0; i < 3; i++ {
		r.Place(newActivity(t, fmt.Sprintf("a%d", i), workout.KindRunning))
	}
	r.Remove("a1")
	r.Remove("missing")
	if !fm.placed[1].removed || fm.placed[0].removed {
		t.Fatalf("expected only a1 removed")
	}
	if got := r.IDs(); len(got) != 2 || got[0] != "a0" || got[1] != "a2" {
		t.Fatalf("unexpected ids: %v", got)
	}
	r.Clear()
	if r.Len() != 0 || !fm.placed[0].removed || !fm.placed[2].removed {
		t.Fatalf("expected all markers removed")
	}
}

func TestPlaceReplacesExistingMarker(t *testing.T) {
	fm := &fakeMap{}
	r := New()
	r.Attach(fm)
	a := newActivity(t, "a", workout.KindRunning)
	r.Place(a)
	r.Place(a)
	if r.Len() != 1 || !fm.placed[0].removed || fm.placed[1].removed {
		t.Fatalf("expected the first marker to be replaced")
	}
}

func TestDetachForgetsHandles(t *testing.T) {
	r := New()
	r.Attach(&fakeMap{})
	r.Place(newActivity(t, "a", workout.KindRunning))
	r.Detach()
	if r.Attached() || r.Len() != 0 {
		t.Fatalf("expected detached empty registry")
	}
}
