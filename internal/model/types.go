// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/mapty/internal/workout"
)

// Config defines resolved application settings.
type Config struct {
	Locale      string
	Zoom        int
	TileURL     string
	Attribution string
	PanDuration time.Duration
	Location    LocationConfig
}

// LocationConfig selects how the starting position is found.
type LocationConfig struct {
	Provider string
	At       workout.Coordinates
	URL      string
	Timeout  time.Duration
}

// StatsConfig defines options for stats output.
type StatsConfig struct {
	Kind   string
	Since  *time.Time
	Last   int
	Window int
}
