// Package mapview defines the map collaborator contract and a terminal
// implementation of it.
package mapview

import (
	"time"

	"github.com/verte-zerg/mapty/internal/workout"
)

// PopupOptions configures the popup bound to a marker. Widths are in pixels
// of the reference web map; the terminal canvas converts them to columns.
type PopupOptions struct {
	MaxWidth     int
	MinWidth     int
	AutoClose    bool
	CloseOnClick bool
	ClassName    string
}

// PanOptions controls how the map moves on recenter.
type PanOptions struct {
	Animate  bool
	Duration time.Duration
}

// Marker is a handle to one overlay on the map.
type Marker interface {
	BindPopup(opts PopupOptions)
	SetContent(text string)
	Open()
	Remove()
}

// Map is what the coordinator needs from a map.
type Map interface {
	Initialize(center workout.Coordinates, zoom int)
	AddTileLayer(url, attribution string)
	PlaceMarker(at workout.Coordinates) Marker
	OnClick(handler func(workout.Coordinates))
	Recenter(at workout.Coordinates, zoom int, opts PanOptions)
}
