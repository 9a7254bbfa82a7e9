// Package listview renders workouts as list entries in store order.
package listview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mapty/internal/workout"
)

const removeControl = "✕"

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	removeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	entryStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.ThickBorder(), false, false, false, true)
	selectedStyle = entryStyle.Copy().Background(lipgloss.Color("#42484D"))
	runningColor  = lipgloss.Color("#00C46A")
	cyclingColor  = lipgloss.Color("#FFB545")
)

// Entry is one rendered list item. It holds only presentation data; the
// store owns the activity.
type Entry struct {
	ID      string
	Kind    workout.Kind
	Title   string
	Details []string
}

// View is the ordered list of rendered entries.
type View struct {
	entries []Entry
}

// New returns an empty View.
func New() *View {
	return &View{}
}

// Render appends an entry for a.
func (v *View) Render(a workout.Activity) {
	v.entries = append(v.entries, EntryFor(a))
}

// ClearAll removes every entry.
func (v *View) ClearAll() {
	v.entries = nil
}

// Entries returns a copy of the rendered entries.
func (v *View) Entries() []Entry {
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// IDs returns entry ids in display order.
func (v *View) IDs() []string {
	ids := make([]string, len(v.entries))
	for i, e := range v.entries {
		ids[i] = e.ID
	}
	return ids
}

// Len returns the number of entries.
func (v *View) Len() int {
	return len(v.entries)
}

// EntryFor builds the entry text for a in the units of its kind.
func EntryFor(a workout.Activity) Entry {
	return Entry{
		ID:    a.ID(),
		Kind:  a.Kind(),
		Title: a.Description(),
		Details: []string{
			fmt.Sprintf("%s %s km", a.Icon(), FormatNumber(a.Distance())),
			fmt.Sprintf("⏱ %s min", FormatNumber(a.Duration())),
			fmt.Sprintf("⚡️ %.1f %s", a.Metric(), a.MetricUnit()),
			fmt.Sprintf("%s %s %s", secondaryIcon(a.Kind()), FormatNumber(a.Secondary()), a.SecondaryUnit()),
		},
	}
}

// View draws the entries for a pane of the given width. selected is the
// highlighted index, or -1.
func (v *View) View(width, selected int) string {
	if len(v.entries) == 0 {
		return emptyStyle.Render("No workouts yet. Move the crosshair and press enter to add one.")
	}
	return strings.Join(v.Blocks(width, selected), "\n")
}

// Blocks renders each entry separately so callers can scroll by entry.
func (v *View) Blocks(width, selected int) []string {
	blocks := make([]string, 0, len(v.entries))
	for i, e := range v.entries {
		blocks = append(blocks, renderEntry(e, width, i == selected))
	}
	return blocks
}

func renderEntry(e Entry, width int, selected bool) string {
	style := entryStyle
	if selected {
		style = selectedStyle
	}
	color := runningColor
	if e.Kind == workout.KindCycling {
		color = cyclingColor
	}
	style = style.BorderForeground(color)
	if width > 0 {
		style = style.Width(width - 1)
	}
	header := titleStyle.Render(e.Title) + "  " + removeStyle.Render(removeControl)
	details := detailStyle.Render(strings.Join(e.Details, "  "))
	return style.Render(header + "\n" + details)
}

// FormatNumber prints v without trailing zeros.
func FormatNumber(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func secondaryIcon(kind workout.Kind) string {
	if kind == workout.KindCycling {
		return "⛰"
	}
	return "🦶🏼"
}
