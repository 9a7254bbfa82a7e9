package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mapty/internal/layout"
	"github.com/verte-zerg/mapty/internal/workout"
)

// Field order in the form. The kind selector comes first.
const (
	fieldKind = iota
	fieldDistance
	fieldDuration
	fieldSecondary
	fieldCount
)

var (
	formStyle       = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("#42484D"))
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Width(10)
	activeLabel     = labelStyle.Copy().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	invalidLabel    = labelStyle.Copy().Foreground(lipgloss.Color("#FF4D4F"))
	formErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	formHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	kindActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2D3439")).Background(lipgloss.Color("#00C46A")).Padding(0, 1)
	kindIdleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Padding(0, 1)
)

// form collects the fields of a new workout at a selected location.
type form struct {
	open    bool
	at      workout.Coordinates
	kind    workout.Kind
	inputs  []textinput.Model
	focus   int
	err     string
	invalid map[string]bool
}

func newForm() form {
	return form{
		kind: workout.KindRunning,
		inputs: []textinput.Model{
			newFormInput("km"),
			newFormInput("min"),
			newFormInput("spm"),
		},
	}
}

func newFormInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.CharLimit = 12
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// show opens the form at at, keeping the previously chosen kind. The
// distance field gets focus.
func (f *form) show(at workout.Coordinates) tea.Cmd {
	f.open = true
	f.at = at
	f.err = ""
	f.invalid = nil
	return f.setFocus(fieldDistance)
}

// hide closes the form and clears its inputs.
func (f *form) hide() {
	f.open = false
	f.err = ""
	f.invalid = nil
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
}

func (f *form) setFocus(idx int) tea.Cmd {
	if idx < 0 {
		idx = fieldCount - 1
	}
	if idx >= fieldCount {
		idx = 0
	}
	f.focus = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i+fieldDistance == idx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

// toggleKind switches between running and cycling and relabels the
// secondary field.
func (f *form) toggleKind() {
	if f.kind == workout.KindRunning {
		f.kind = workout.KindCycling
	} else {
		f.kind = workout.KindRunning
	}
	f.input(fieldSecondary).Placeholder = workout.SecondaryUnit(f.kind)
	delete(f.invalid, "cadence")
	delete(f.invalid, "climbGain")
}

func (f *form) submission() workout.Submission {
	return workout.Submission{
		Kind:      string(f.kind),
		Distance:  f.input(fieldDistance).Value(),
		Duration:  f.input(fieldDuration).Value(),
		Secondary: f.input(fieldSecondary).Value(),
	}
}

// reject keeps the inputs and marks the fields named in verr.
func (f *form) reject(verr *workout.ValidationError) {
	f.invalid = map[string]bool{}
	for _, field := range verr.Fields {
		f.invalid[field.Field] = true
	}
	f.err = verr.Error()
}

func (f *form) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return f.setFocus(f.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return f.setFocus(f.focus - 1)
	}
	if f.focus == fieldKind {
		switch msg.String() {
		case "left", "right", " ", "h", "l":
			f.toggleKind()
		}
		return nil
	}
	input := f.input(f.focus)
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	return cmd
}

func (f *form) input(field int) *textinput.Model {
	return &f.inputs[field-fieldDistance]
}

func (f *form) view(width int) string {
	if !f.open {
		return ""
	}
	lines := []string{
		formHintStyle.Render(f.at.String()),
		f.label(fieldKind, "Type", "kind") + f.kindSelector(),
		f.label(fieldDistance, "Distance", "distance") + f.input(fieldDistance).View(),
		f.label(fieldDuration, "Duration", "duration") + f.input(fieldDuration).View(),
		f.label(fieldSecondary, workout.SecondaryLabel(f.kind), secondaryField(f.kind)) + f.input(fieldSecondary).View(),
	}
	if f.err != "" {
		lines = append(lines, formErrorStyle.Render(layout.Truncate(f.err, max(width-2, 1))))
	}
	lines = append(lines, formHintStyle.Render("enter save · esc cancel · tab next"))
	style := formStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (f *form) label(idx int, text, field string) string {
	switch {
	case f.invalid[field]:
		return invalidLabel.Render(text)
	case f.focus == idx:
		return activeLabel.Render(text)
	default:
		return labelStyle.Render(text)
	}
}

func (f *form) kindSelector() string {
	parts := make([]string, 0, len(workout.Kinds))
	for _, k := range workout.Kinds {
		name := workout.Icon(k) + " " + string(k)
		if k == f.kind {
			parts = append(parts, kindActiveStyle.Render(name))
		} else {
			parts = append(parts, kindIdleStyle.Render(name))
		}
	}
	return strings.Join(parts, " ")
}

func secondaryField(kind workout.Kind) string {
	if kind == workout.KindCycling {
		return "climbGain"
	}
	return "cadence"
}
