package mapview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mapty/internal/workout"
)

const (
	MinZoom = 2
	MaxZoom = 18

	markerGlyph = "●"
	cursorGlyph = "+"
	gridGlyph   = "·"
	gridStep    = 6
)

var (
	gridStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	runningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00C46A"))
	cyclingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB545"))
	defaultPinStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	popupStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#2D3439"))
	attributionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Canvas is a terminal Map. The crosshair cursor stands in for the mouse:
// Click reports the coordinates under it to the registered click handler.
type Canvas struct {
	center      workout.Coordinates
	zoom        int
	initialized bool

	tileURL     string
	attribution string

	pins    []*pin
	onClick func(workout.Coordinates)

	cursorX int
	cursorY int
	lastPan PanOptions

	// Size of the last rendered grid; zero until the first Render.
	viewWidth int
	viewRows  int
}

type pin struct {
	canvas  *Canvas
	at      workout.Coordinates
	popup   PopupOptions
	content string
	open    bool
}

// NewCanvas returns an uninitialized canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Initialize implements Map.
func (c *Canvas) Initialize(center workout.Coordinates, zoom int) {
	c.center = center
	c.zoom = clampZoom(zoom)
	c.initialized = true
	c.pins = nil
	c.cursorX, c.cursorY = 0, 0
}

// AddTileLayer implements Map. Tiles are not fetched; the layer only
// contributes its attribution line.
func (c *Canvas) AddTileLayer(url, attribution string) {
	c.tileURL = url
	c.attribution = attribution
}

// PlaceMarker implements Map.
func (c *Canvas) PlaceMarker(at workout.Coordinates) Marker {
	p := &pin{canvas: c, at: at}
	c.pins = append(c.pins, p)
	return p
}

// OnClick implements Map.
func (c *Canvas) OnClick(handler func(workout.Coordinates)) {
	c.onClick = handler
}

// Recenter implements Map.
func (c *Canvas) Recenter(at workout.Coordinates, zoom int, opts PanOptions) {
	c.center = at
	if zoom > 0 {
		c.zoom = clampZoom(zoom)
	}
	c.lastPan = opts
	c.cursorX, c.cursorY = 0, 0
}

// Initialized reports whether Initialize has been called.
func (c *Canvas) Initialized() bool { return c.initialized }

// Center returns the current map center.
func (c *Canvas) Center() workout.Coordinates { return c.center }

// Zoom returns the current zoom level.
func (c *Canvas) Zoom() int { return c.zoom }

// Attribution returns the tile layer attribution.
func (c *Canvas) Attribution() string { return c.attribution }

// LastPan returns the options of the most recent Recenter.
func (c *Canvas) LastPan() PanOptions { return c.lastPan }

// MarkerCount returns the number of live markers.
func (c *Canvas) MarkerCount() int { return len(c.pins) }

// MoveCursor shifts the crosshair by whole cells. Once the canvas has been
// rendered the crosshair stays inside the visible grid.
func (c *Canvas) MoveCursor(dx, dy int) {
	c.cursorX += dx
	c.cursorY += dy
	c.clampCursor()
}

func (c *Canvas) clampCursor() {
	if c.viewWidth <= 0 || c.viewRows <= 0 {
		return
	}
	midX, midY := c.viewWidth/2, c.viewRows/2
	c.cursorX = clampInt(c.cursorX, -midX, c.viewWidth-1-midX)
	c.cursorY = clampInt(c.cursorY, -midY, c.viewRows-1-midY)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CursorCoords returns the coordinates under the crosshair.
func (c *Canvas) CursorCoords() workout.Coordinates {
	return coordsAtOffset(c.center, c.zoom, c.cursorX, c.cursorY)
}

// Click delivers the crosshair coordinates to the click handler. Popups that
// close on click are closed first.
func (c *Canvas) Click() (workout.Coordinates, bool) {
	if !c.initialized {
		return workout.Coordinates{}, false
	}
	at := c.CursorCoords()
	for _, p := range c.pins {
		if p.popup.CloseOnClick {
			p.open = false
		}
	}
	if c.onClick != nil {
		c.onClick(at)
	}
	return at, true
}

// ZoomBy changes the zoom level around the current center.
func (c *Canvas) ZoomBy(delta int) {
	c.zoom = clampZoom(c.zoom + delta)
}

// Render draws the map into a width x height block.
func (c *Canvas) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if !c.initialized {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, "Waiting for location...")
	}
	rows := height
	if c.attribution != "" && height > 1 {
		rows--
	}
	c.viewWidth, c.viewRows = width, rows
	c.clampCursor()
	g := newGrid(width, rows)
	midX, midY := width/2, rows/2
	for y := 0; y < rows; y++ {
		for x := 0; x < width; x++ {
			if (x-midX)%gridStep == 0 && (y-midY)%(gridStep/2) == 0 {
				g.set(x, y, gridGlyph, gridStyle)
			}
		}
	}
	for _, p := range c.pins {
		dx, dy := cellOffset(c.center, p.at, c.zoom)
		x, y := midX+dx, midY+dy
		style := pinStyle(p.popup.ClassName)
		g.set(x, y, markerGlyph, style)
		if p.open && p.content != "" {
			g.text(x+2, y, truncateToWidth(p.content, popupColumns(p.popup)), popupStyle)
		}
	}
	g.set(midX+c.cursorX, midY+c.cursorY, cursorGlyph, cursorStyle)

	out := g.String()
	if rows < height {
		line := truncateToWidth(c.attribution, width)
		out += "\n" + attributionStyle.Render(line)
	}
	return out
}

// BindPopup implements Marker.
func (p *pin) BindPopup(opts PopupOptions) { p.popup = opts }

// SetContent implements Marker.
func (p *pin) SetContent(text string) { p.content = text }

// Open implements Marker. Unless the popup keeps others open, opening one
// closes the rest.
func (p *pin) Open() {
	if p.popup.AutoClose {
		for _, other := range p.canvas.pins {
			other.open = false
		}
	}
	p.open = true
}

// Remove implements Marker.
func (p *pin) Remove() {
	pins := p.canvas.pins
	for i, other := range pins {
		if other == p {
			p.canvas.pins = append(pins[:i:i], pins[i+1:]...)
			return
		}
	}
}

func pinStyle(className string) lipgloss.Style {
	switch {
	case strings.HasPrefix(className, string(workout.KindRunning)):
		return runningStyle
	case strings.HasPrefix(className, string(workout.KindCycling)):
		return cyclingStyle
	default:
		return defaultPinStyle
	}
}

func popupColumns(opts PopupOptions) int {
	cols := int(float64(opts.MaxWidth) / cellWidthPx)
	if cols <= 0 {
		cols = 30
	}
	if floor := int(float64(opts.MinWidth) / cellWidthPx); cols < floor {
		cols = floor
	}
	return cols
}

func clampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

type cell struct {
	s     string
	style *lipgloss.Style
}

type grid struct {
	width  int
	height int
	cells  [][]cell
}

func newGrid(width, height int) *grid {
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{s: " "}
		}
	}
	return &grid{width: width, height: height, cells: cells}
}

func (g *grid) set(x, y int, s string, style lipgloss.Style) {
	g.put(x, y, s, &style)
}

func (g *grid) put(x, y int, s string, style *lipgloss.Style) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[y][x] = cell{s: s, style: style}
}

// text writes s starting at (x, y). Wide runes take two cells; the second one
// is left empty so the line keeps its width.
func (g *grid) text(x, y int, s string, style lipgloss.Style) {
	if y < 0 || y >= g.height {
		return
	}
	shared := &style
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			prev := x - 1
			if prev < g.width && prev > 0 && g.cells[y][prev].s == "" {
				prev--
			}
			if prev >= 0 && prev < g.width {
				g.cells[y][prev].s += string(r)
			}
			continue
		}
		if x+w > g.width {
			return
		}
		if x >= 0 {
			g.put(x, y, string(r), shared)
			if w == 2 {
				g.put(x+1, y, "", shared)
			}
		}
		x += w
	}
}

// String renders each run of cells sharing a style with a single Render call.
func (g *grid) String() string {
	lines := make([]string, g.height)
	for y, row := range g.cells {
		var b strings.Builder
		for x := 0; x < len(row); {
			style := row[x].style
			var run strings.Builder
			for x < len(row) && row[x].style == style {
				run.WriteString(row[x].s)
				x++
			}
			if style == nil {
				b.WriteString(run.String())
				continue
			}
			b.WriteString(style.Render(run.String()))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
