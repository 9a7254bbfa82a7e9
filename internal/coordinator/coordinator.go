// Package coordinator keeps the workout store, map markers, list view and
// persisted snapshot consistent across every user operation.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/verte-zerg/mapty/internal/activities"
	"github.com/verte-zerg/mapty/internal/listview"
	"github.com/verte-zerg/mapty/internal/mapview"
	"github.com/verte-zerg/mapty/internal/markers"
	"github.com/verte-zerg/mapty/internal/workout"
)

// ErrNoLocation is returned when a workout is submitted before a map location
// was selected.
var ErrNoLocation = errors.New("no location selected")

const (
	DefaultZoom        = 13
	DefaultTileURL     = "https://{s}.tile.openstreetmap.fr/hot/{z}/{x}/{y}.png"
	DefaultAttribution = "© OpenStreetMap contributors"
	DefaultPanDuration = time.Second
)

// Gateway persists the workout collection.
type Gateway interface {
	Save(ctx context.Context, activities []workout.Activity) error
	Load(ctx context.Context) ([]workout.Activity, error)
	Reset(ctx context.Context) error
}

// discardReporter is implemented by gateways that drop unreadable snapshots
// on Load instead of failing.
type discardReporter interface {
	Discarded() bool
}

// MapState tracks the map lifecycle.
type MapState int

const (
	MapPending MapState = iota
	MapReady
	MapFailed
)

func (s MapState) String() string {
	switch s {
	case MapReady:
		return "ready"
	case MapFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Settings holds the map presentation options.
type Settings struct {
	Zoom        int
	TileURL     string
	Attribution string
	PanDuration time.Duration
}

// DefaultSettings returns the OSM "hot" tile layer at street zoom.
func DefaultSettings() Settings {
	return Settings{
		Zoom:        DefaultZoom,
		TileURL:     DefaultTileURL,
		Attribution: DefaultAttribution,
		PanDuration: DefaultPanDuration,
	}
}

// Coordinator owns the application state. It is not safe for concurrent use;
// callers run every operation from a single event loop.
type Coordinator struct {
	factory  *workout.Factory
	store    *activities.Store
	registry *markers.Registry
	list     *listview.View
	gateway  Gateway
	settings Settings
	logger   *slog.Logger

	view        mapview.Map
	state       MapState
	locationErr error
	pending     workout.Coordinates
	hasPending  bool
	discarded   bool
}

// New returns a Coordinator with an empty store and no map.
func New(factory *workout.Factory, gateway Gateway, settings Settings, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.Zoom == 0 {
		settings.Zoom = DefaultZoom
	}
	return &Coordinator{
		factory:  factory,
		store:    activities.New(),
		registry: markers.New(),
		list:     listview.New(),
		gateway:  gateway,
		settings: settings,
		logger:   logger,
	}
}

// Activities returns the workouts in store order.
func (c *Coordinator) Activities() []workout.Activity { return c.store.List() }

// Workout returns the workout with id.
func (c *Coordinator) Workout(id string) (workout.Activity, bool) { return c.store.Get(id) }

// ListView returns the rendered list.
func (c *Coordinator) ListView() *listview.View { return c.list }

// Markers returns the marker registry.
func (c *Coordinator) Markers() *markers.Registry { return c.registry }

// Settings returns the map settings.
func (c *Coordinator) Settings() Settings { return c.settings }

// Locale returns the description locale of the factory.
func (c *Coordinator) Locale() workout.Locale { return c.factory.Locale() }

// MapState returns the current map lifecycle state.
func (c *Coordinator) MapState() MapState { return c.state }

// LocationErr returns the last geolocation failure, if the map is failed.
func (c *Coordinator) LocationErr() error { return c.locationErr }

// RestoreDiscarded reports whether the last restore found saved data that
// could not be read. The next save replaces it.
func (c *Coordinator) RestoreDiscarded() bool { return c.discarded }

// Pending returns the location the next workout will be recorded at.
func (c *Coordinator) Pending() (workout.Coordinates, bool) { return c.pending, c.hasPending }

// SelectLocation remembers where the next workout goes. It is the map click
// handler.
func (c *Coordinator) SelectLocation(at workout.Coordinates) {
	c.pending = at
	c.hasPending = true
}

// CancelSelection forgets the pending location.
func (c *Coordinator) CancelSelection() {
	c.pending = workout.Coordinates{}
	c.hasPending = false
}

// AddWorkout validates sub, records it at the pending location and saves the
// collection. Nothing changes when validation fails.
func (c *Coordinator) AddWorkout(ctx context.Context, sub workout.Submission) (workout.Activity, error) {
	if !c.hasPending {
		return workout.Activity{}, ErrNoLocation
	}
	a, err := c.factory.Create(workout.ParseSubmission(sub, c.pending))
	if err != nil {
		return workout.Activity{}, err
	}
	prev := c.store.List()
	if err := c.store.Insert(a); err != nil {
		return workout.Activity{}, fmt.Errorf("failed to insert workout: %w", err)
	}
	c.registry.Place(a)
	c.list.Render(a)
	if err := c.persist(ctx, prev); err != nil {
		return workout.Activity{}, err
	}
	c.CancelSelection()
	c.logger.Info("workout added", slog.String("id", a.ID()), slog.String("kind", string(a.Kind())))
	return a, nil
}

// RemoveWorkout deletes the workout with id from every surface. An unknown id
// returns activities.ErrNotFound and changes nothing.
func (c *Coordinator) RemoveWorkout(ctx context.Context, id string) error {
	prev := c.store.List()
	if err := c.store.Remove(id); err != nil {
		return err
	}
	c.registry.Remove(id)
	c.renderList()
	if err := c.persist(ctx, prev); err != nil {
		return err
	}
	c.logger.Info("workout removed", slog.String("id", id))
	return nil
}

// FocusWorkout moves the map to the workout and counts the interaction. The
// count is kept in memory only.
func (c *Coordinator) FocusWorkout(id string) (workout.Activity, error) {
	a, ok := c.store.Get(id)
	if !ok {
		return workout.Activity{}, activities.ErrNotFound
	}
	if c.state == MapReady && c.view != nil {
		c.view.Recenter(a.Coords(), c.settings.Zoom, mapview.PanOptions{
			Animate:  true,
			Duration: c.settings.PanDuration,
		})
	}
	return c.store.Touch(id)
}

// ResetAll deletes the snapshot and empties every surface. The map is
// detached so the caller can locate the user again and start over.
func (c *Coordinator) ResetAll(ctx context.Context) error {
	if err := c.gateway.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset workouts: %w", err)
	}
	c.store.Clear()
	c.registry.Clear()
	c.registry.Detach()
	c.list.ClearAll()
	c.view = nil
	c.state = MapPending
	c.locationErr = nil
	c.discarded = false
	c.CancelSelection()
	c.logger.Info("workouts reset")
	return nil
}

// RestoreFromPersistence loads the saved workouts into the store and list.
// Markers are placed when the map becomes ready.
func (c *Coordinator) RestoreFromPersistence(ctx context.Context) error {
	loaded, err := c.gateway.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore workouts: %w", err)
	}
	c.discarded = false
	if r, ok := c.gateway.(discardReporter); ok && r.Discarded() {
		c.discarded = true
		c.logger.Warn("saved workouts were unreadable and will be replaced on the next save")
	}
	c.store.Clear()
	for _, a := range loaded {
		if err := c.store.Insert(a); err != nil {
			c.logger.Warn("skipping restored workout", slog.String("id", a.ID()), slog.Any("error", err))
		}
	}
	c.renderList()
	c.placeAll()
	c.logger.Info("workouts restored", slog.Int("count", c.store.Len()))
	return nil
}

// MapReady initializes m at center and shows every stored workout on it.
func (c *Coordinator) MapReady(m mapview.Map, center workout.Coordinates) {
	m.Initialize(center, c.settings.Zoom)
	m.AddTileLayer(c.settings.TileURL, c.settings.Attribution)
	m.OnClick(c.SelectLocation)
	c.view = m
	c.state = MapReady
	c.locationErr = nil
	c.registry.Attach(m)
	c.placeAll()
	c.logger.Info("map ready", slog.String("center", center.String()))
}

// LocationFailed marks the map as unavailable. Map operations become no-ops
// until RetryLocation.
func (c *Coordinator) LocationFailed(err error) {
	c.state = MapFailed
	c.locationErr = err
	c.logger.Warn("geolocation failed", slog.Any("error", err))
}

// RetryLocation moves a failed map back to pending. It reports whether a new
// geolocation request should be made.
func (c *Coordinator) RetryLocation() bool {
	if c.state != MapFailed {
		return false
	}
	c.state = MapPending
	c.locationErr = nil
	return true
}

func (c *Coordinator) persist(ctx context.Context, prev []workout.Activity) error {
	if err := c.gateway.Save(ctx, c.store.List()); err != nil {
		c.logger.Error("save failed, rolling back", slog.Any("error", err))
		c.rollback(prev)
		return fmt.Errorf("failed to save workouts: %w", err)
	}
	return nil
}

func (c *Coordinator) rollback(prev []workout.Activity) {
	c.store.Replace(prev)
	c.registry.Clear()
	c.placeAll()
	c.renderList()
}

func (c *Coordinator) renderList() {
	c.list.ClearAll()
	for _, a := range c.store.List() {
		c.list.Render(a)
	}
}

func (c *Coordinator) placeAll() {
	if !c.registry.Attached() {
		return
	}
	for _, a := range c.store.List() {
		c.registry.Place(a)
	}
}
