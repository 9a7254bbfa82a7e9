// Package markers keeps one map marker per stored activity.
package markers

import (
	"sort"

	"github.com/verte-zerg/mapty/internal/mapview"
	"github.com/verte-zerg/mapty/internal/workout"
)

const (
	popupMaxWidth = 250
	popupMinWidth = 100
)

// Registry maps activity ids to marker handles on the attached map.
type Registry struct {
	view    mapview.Map
	handles map[string]mapview.Marker
}

// New returns a detached Registry.
func New() *Registry {
	return &Registry{handles: map[string]mapview.Marker{}}
}

// Attach points the registry at a map. Existing handles belong to the old map
// and are dropped without being removed from it.
func (r *Registry) Attach(view mapview.Map) {
	r.view = view
	r.handles = map[string]mapview.Marker{}
}

// Detach forgets the map and every handle on it.
func (r *Registry) Detach() {
	r.view = nil
	r.handles = map[string]mapview.Marker{}
}

// Attached reports whether a map is available.
func (r *Registry) Attached() bool {
	return r.view != nil
}

// Place adds a marker for a. It returns false when no map is attached.
func (r *Registry) Place(a workout.Activity) bool {
	if r.view == nil {
		return false
	}
	r.Remove(a.ID())
	m := r.view.PlaceMarker(a.Coords())
	m.BindPopup(PopupOptionsFor(a.Kind()))
	m.SetContent(PopupContent(a))
	m.Open()
	r.handles[a.ID()] = m
	return true
}

// Remove deletes the marker for id; unknown ids are ignored.
func (r *Registry) Remove(id string) {
	m, ok := r.handles[id]
	if !ok {
		return
	}
	m.Remove()
	delete(r.handles, id)
}

// Clear removes every marker.
func (r *Registry) Clear() {
	for id := range r.handles {
		r.Remove(id)
	}
}

// Has reports whether id has a live marker.
func (r *Registry) Has(id string) bool {
	_, ok := r.handles[id]
	return ok
}

// IDs returns the ids with a live marker, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.handles))
	for id := range r.handles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live markers.
func (r *Registry) Len() int {
	return len(r.handles)
}

// PopupOptionsFor returns the popup configuration for kind.
func PopupOptionsFor(kind workout.Kind) mapview.PopupOptions {
	return mapview.PopupOptions{
		MaxWidth:     popupMaxWidth,
		MinWidth:     popupMinWidth,
		AutoClose:    false,
		CloseOnClick: false,
		ClassName:    string(kind) + "-popup",
	}
}

// PopupContent is the text shown in a marker popup.
func PopupContent(a workout.Activity) string {
	return a.Icon() + " " + a.Description()
}
