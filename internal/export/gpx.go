// Package export writes the workout collection in interchange formats.
package export

import (
	"fmt"
	"io"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/verte-zerg/mapty/internal/listview"
	"github.com/verte-zerg/mapty/internal/workout"
)

const creator = "mapty"

// GPX converts activities into a GPX document with one waypoint each, in
// order.
func GPX(activities []workout.Activity) *gpx.GPX {
	doc := &gpx.GPX{
		Version:     "1.1",
		Creator:     creator,
		Name:        "Workouts",
		Description: fmt.Sprintf("%d workouts", len(activities)),
	}
	for _, a := range activities {
		doc.Waypoints = append(doc.Waypoints, waypoint(a))
	}
	return doc
}

func waypoint(a workout.Activity) gpx.GPXPoint {
	return gpx.GPXPoint{
		Point: gpx.Point{
			Latitude:  a.Coords().Lat,
			Longitude: a.Coords().Lng,
		},
		Timestamp:   a.CreatedAt().UTC(),
		Name:        a.Description(),
		Comment:     a.ID(),
		Description: summary(a),
		Type:        string(a.Kind()),
		Symbol:      string(a.Kind()),
	}
}

func summary(a workout.Activity) string {
	return fmt.Sprintf("%s km, %s min, %.1f %s, %s %s %s",
		listview.FormatNumber(a.Distance()),
		listview.FormatNumber(a.Duration()),
		a.Metric(), a.MetricUnit(),
		a.SecondaryLabel(), listview.FormatNumber(a.Secondary()), a.SecondaryUnit(),
	)
}

// WriteGPX writes activities to w as indented GPX 1.1.
func WriteGPX(w io.Writer, activities []workout.Activity) error {
	data, err := GPX(activities).ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("failed to encode gpx: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write gpx: %w", err)
	}
	return nil
}
