// Package workout defines the activity model and its validating factory.
package workout

import (
	"fmt"
	"strings"
	"time"
)

// Kind discriminates the workout variants.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// Kinds lists the supported kinds in form order.
var Kinds = []Kind{KindRunning, KindCycling}

// ParseKind normalizes a raw kind value.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindRunning:
		return KindRunning, nil
	case KindCycling:
		return KindCycling, nil
	default:
		return "", fmt.Errorf("unknown workout kind %q", raw)
	}
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	return k == KindRunning || k == KindCycling
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.5f, %.5f", c.Lat, c.Lng)
}

// Activity is one recorded workout. Values are built only by a Factory and
// are never changed afterwards, except for the interaction counter which is
// bumped through Touched.
type Activity struct {
	id           string
	kind         Kind
	createdAt    time.Time
	coords       Coordinates
	distance     float64
	duration     float64
	secondary    float64
	metric       float64
	description  string
	interactions int
}

func (a Activity) ID() string             { return a.id }
func (a Activity) Kind() Kind             { return a.kind }
func (a Activity) CreatedAt() time.Time   { return a.createdAt }
func (a Activity) Coords() Coordinates    { return a.coords }
func (a Activity) Distance() float64      { return a.distance }
func (a Activity) Duration() float64      { return a.duration }
func (a Activity) Description() string    { return a.description }
func (a Activity) Interactions() int      { return a.interactions }
func (a Activity) Secondary() float64     { return a.secondary }
func (a Activity) Metric() float64        { return a.metric }
func (a Activity) IsZero() bool           { return a.id == "" }
func (a Activity) Icon() string           { return Icon(a.kind) }
func (a Activity) MetricUnit() string     { return MetricUnit(a.kind) }
func (a Activity) SecondaryUnit() string  { return SecondaryUnit(a.kind) }
func (a Activity) SecondaryLabel() string { return SecondaryLabel(a.kind) }

// Cadence returns steps per minute for running workouts and 0 otherwise.
func (a Activity) Cadence() float64 {
	if a.kind != KindRunning {
		return 0
	}
	return a.secondary
}

// ClimbGain returns elevation gain in meters for cycling workouts and 0 otherwise.
func (a Activity) ClimbGain() float64 {
	if a.kind != KindCycling {
		return 0
	}
	return a.secondary
}

// Pace returns min/km for running workouts and 0 otherwise.
func (a Activity) Pace() float64 {
	if a.kind != KindRunning {
		return 0
	}
	return a.metric
}

// Speed returns km/h for cycling workouts and 0 otherwise.
func (a Activity) Speed() float64 {
	if a.kind != KindCycling {
		return 0
	}
	return a.metric
}

// Touched returns a copy with the interaction counter incremented.
func (a Activity) Touched() Activity {
	a.interactions++
	return a
}

// Equal compares every persisted field. Interactions are in-memory only and
// are ignored.
func (a Activity) Equal(b Activity) bool {
	return a.id == b.id &&
		a.kind == b.kind &&
		a.createdAt.Equal(b.createdAt) &&
		a.coords == b.coords &&
		a.distance == b.distance &&
		a.duration == b.duration &&
		a.secondary == b.secondary &&
		a.metric == b.metric &&
		a.description == b.description
}

func derivedMetric(kind Kind, distance, duration float64) float64 {
	if kind == KindCycling {
		return (distance / duration) * 60
	}
	return duration / distance
}
