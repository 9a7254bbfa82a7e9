package workout

import "time"

// Record is the plain, kind-tagged form of an Activity used for storage.
// Derived fields are written for readability but ignored on restore.
type Record struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	CreatedAt   time.Time  `json:"createdAt"`
	Coords      [2]float64 `json:"coords"`
	Distance    float64    `json:"distance"`
	Duration    float64    `json:"duration"`
	Cadence     float64    `json:"cadence,omitempty"`
	ClimbGain   float64    `json:"climbGain,omitempty"`
	Pace        float64    `json:"pace,omitempty"`
	Speed       float64    `json:"speed,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Record converts a to its storage form.
func (a Activity) Record() Record {
	return Record{
		ID:          a.id,
		Kind:        a.kind,
		CreatedAt:   a.createdAt,
		Coords:      [2]float64{a.coords.Lat, a.coords.Lng},
		Distance:    a.distance,
		Duration:    a.duration,
		Cadence:     a.Cadence(),
		ClimbGain:   a.ClimbGain(),
		Pace:        a.Pace(),
		Speed:       a.Speed(),
		Description: a.description,
	}
}

// Records converts a slice of activities to storage form, keeping order.
func Records(activities []Activity) []Record {
	out := make([]Record, len(activities))
	for i, a := range activities {
		out[i] = a.Record()
	}
	return out
}

func (r Record) input() Input {
	in := Input{
		Kind:     r.Kind,
		Coords:   Coordinates{Lat: r.Coords[0], Lng: r.Coords[1]},
		Distance: r.Distance,
		Duration: r.Duration,
	}
	if r.Kind == KindCycling {
		in.Secondary = r.ClimbGain
	} else {
		in.Secondary = r.Cadence
	}
	return in
}
