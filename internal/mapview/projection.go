package mapview

import (
	"math"

	"github.com/verte-zerg/mapty/internal/workout"
)

const (
	tileSize = 256.0
	maxLat   = 85.05112878

	// Pixels covered by one terminal cell; cells are roughly twice as tall as wide.
	cellWidthPx  = 8.0
	cellHeightPx = 16.0
)

// project returns Web Mercator pixel coordinates at zoom.
func project(c workout.Coordinates, zoom int) (x, y float64) {
	world := worldSize(zoom)
	lat := math.Max(-maxLat, math.Min(maxLat, c.Lat))
	sin := math.Sin(lat * math.Pi / 180)
	x = (c.Lng + 180) / 360 * world
	y = (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * world
	return x, y
}

// unproject is the inverse of project.
func unproject(x, y float64, zoom int) workout.Coordinates {
	world := worldSize(zoom)
	lng := x/world*360 - 180
	n := math.Pi * (1 - 2*y/world)
	lat := math.Atan(math.Sinh(n)) * 180 / math.Pi
	return workout.Coordinates{Lat: lat, Lng: wrapLng(lng)}
}

func worldSize(zoom int) float64 {
	return tileSize * math.Exp2(float64(zoom))
}

func wrapLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}

// cellOffset returns the cell distance of c from center at zoom.
func cellOffset(center, c workout.Coordinates, zoom int) (dx, dy int) {
	cx, cy := project(center, zoom)
	px, py := project(c, zoom)
	return int(math.Round((px - cx) / cellWidthPx)), int(math.Round((py - cy) / cellHeightPx))
}

// coordsAtOffset returns the coordinates under the cell at (dx, dy) from center.
func coordsAtOffset(center workout.Coordinates, zoom, dx, dy int) workout.Coordinates {
	cx, cy := project(center, zoom)
	return unproject(cx+float64(dx)*cellWidthPx, cy+float64(dy)*cellHeightPx, zoom)
}
