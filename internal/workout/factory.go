package workout

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Input carries the values needed to construct a new Activity.
type Input struct {
	Kind      Kind
	Coords    Coordinates
	Distance  float64
	Duration  float64
	Secondary float64
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) String() string {
	return e.Field + " " + e.Reason
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "invalid workout: " + strings.Join(parts, "; ")
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Factory is the only way to build Activity values.
type Factory struct {
	locale Locale
	now    func() time.Time
	newID  func() string
}

// FactoryOption customizes a Factory.
type FactoryOption func(*Factory)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) { f.now = now }
}

// WithIDs overrides the identifier source.
func WithIDs(newID func() string) FactoryOption {
	return func(f *Factory) { f.newID = newID }
}

// NewFactory returns a Factory producing descriptions in locale.
func NewFactory(locale Locale, opts ...FactoryOption) *Factory {
	f := &Factory{
		locale: locale,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Locale returns the description locale.
func (f *Factory) Locale() Locale {
	return f.locale
}

// Create validates in and returns a new Activity with a fresh id.
func (f *Factory) Create(in Input) (Activity, error) {
	if err := validate(in); err != nil {
		return Activity{}, err
	}
	return f.build(f.newID(), f.now(), in), nil
}

// Restore rebuilds an Activity from a persisted record, recomputing the
// derived fields through the same validation as Create.
func (f *Factory) Restore(rec Record) (Activity, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return Activity{}, &ValidationError{Fields: []FieldError{{Field: "id", Reason: "must not be empty"}}}
	}
	if rec.CreatedAt.IsZero() {
		return Activity{}, &ValidationError{Fields: []FieldError{{Field: "createdAt", Reason: "must be set"}}}
	}
	in := rec.input()
	if err := validate(in); err != nil {
		return Activity{}, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	return f.build(rec.ID, rec.CreatedAt, in), nil
}

func (f *Factory) build(id string, createdAt time.Time, in Input) Activity {
	return Activity{
		id:          id,
		kind:        in.Kind,
		createdAt:   createdAt,
		coords:      in.Coords,
		distance:    in.Distance,
		duration:    in.Duration,
		secondary:   in.Secondary,
		metric:      derivedMetric(in.Kind, in.Distance, in.Duration),
		description: Describe(f.locale, in.Kind, createdAt),
	}
}

func validate(in Input) error {
	var fields []FieldError
	if !in.Kind.Valid() {
		fields = append(fields, FieldError{Field: "kind", Reason: "must be running or cycling"})
	}
	if !finite(in.Coords.Lat) || math.Abs(in.Coords.Lat) > 90 {
		fields = append(fields, FieldError{Field: "latitude", Reason: "must be between -90 and 90"})
	}
	if !finite(in.Coords.Lng) || math.Abs(in.Coords.Lng) > 180 {
		fields = append(fields, FieldError{Field: "longitude", Reason: "must be between -180 and 180"})
	}
	checkPositive := func(name string, v float64) {
		if !finite(v) || v <= 0 {
			fields = append(fields, FieldError{Field: name, Reason: "must be a positive number"})
		}
	}
	checkPositive("distance", in.Distance)
	checkPositive("duration", in.Duration)
	if in.Kind.Valid() && finite(in.Distance) && in.Distance > 0 && finite(in.Duration) && in.Duration > 0 {
		// Both inputs are in range but their ratio may still overflow or underflow.
		if m := derivedMetric(in.Kind, in.Distance, in.Duration); !finite(m) || m <= 0 {
			reason := "gives an out of range " + metricName(in.Kind)
			fields = append(fields,
				FieldError{Field: "distance", Reason: reason},
				FieldError{Field: "duration", Reason: reason},
			)
		}
	}
	if in.Kind == KindCycling {
		checkPositive("climbGain", in.Secondary)
	} else {
		checkPositive("cadence", in.Secondary)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func metricName(kind Kind) string {
	if kind == KindCycling {
		return "speed"
	}
	return "pace"
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
