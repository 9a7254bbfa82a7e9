// Package tui provides the Bubble Tea workout map interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mapty/internal/activities"
	"github.com/verte-zerg/mapty/internal/coordinator"
	"github.com/verte-zerg/mapty/internal/geolocate"
	"github.com/verte-zerg/mapty/internal/layout"
	"github.com/verte-zerg/mapty/internal/mapview"
	"github.com/verte-zerg/mapty/internal/stats"
	"github.com/verte-zerg/mapty/internal/workout"
)

type pane int

const (
	paneMap pane = iota
	paneList
)

const (
	minListWidth = 30
	opTimeout    = 5 * time.Second
)

type locatedMsg struct {
	at workout.Coordinates
}

type locateFailedMsg struct {
	err error
}

// Model implements the Bubble Tea interface around a coordinator.
type Model struct {
	coord   *coordinator.Coordinator
	canvas  *mapview.Canvas
	locator geolocate.Locator
	timeout time.Duration
	logger  *slog.Logger

	width  int
	height int

	pane         pane
	selected     int
	form         form
	locating     bool
	confirmReset bool
	status       string
	statusErr    bool
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00C46A")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	sidebarStyle = lipgloss.NewStyle().Background(lipgloss.Color("#2D3439"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// NewModel constructs the TUI. Workouts should already be restored into
// coord; the map is located on Init.
func NewModel(coord *coordinator.Coordinator, locator geolocate.Locator, timeout time.Duration, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = geolocate.DefaultTimeout
	}
	return &Model{
		coord:   coord,
		canvas:  mapview.NewCanvas(),
		locator: locator,
		timeout: timeout,
		logger:  logger,
		form:    newForm(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.locate()
}

func (m *Model) locate() tea.Cmd {
	if m.locating || m.coord.MapState() != coordinator.MapPending {
		return nil
	}
	m.locating = true
	locator, timeout := m.locator, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		at, err := locator.Locate(ctx)
		if err != nil {
			return locateFailedMsg{err: err}
		}
		return locatedMsg{at: at}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case locatedMsg:
		m.locating = false
		m.canvas = mapview.NewCanvas()
		m.coord.MapReady(m.canvas, msg.at)
		m.setStatus(text(m.locale(), msgPickLocation), false)
		return m, nil
	case locateFailedMsg:
		m.locating = false
		m.coord.LocationFailed(msg.err)
		m.setStatus(text(m.locale(), msgLocationFailed), true)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirmReset {
			return m.updateConfirm(msg)
		}
		if m.form.open {
			return m.updateForm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmReset = false
	if msg.String() != "y" && msg.String() != "Y" {
		m.setStatus("", false)
		return m, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := m.coord.ResetAll(ctx); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.form.hide()
	m.selected = 0
	m.pane = paneMap
	m.canvas = mapview.NewCanvas()
	m.setStatus(text(m.locale(), msgResetDone), false)
	return m, m.locate()
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.form.hide()
		m.coord.CancelSelection()
		m.setStatus("", false)
		return m, nil
	case tea.KeyEnter:
		m.submit()
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m *Model) submit() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	a, err := m.coord.AddWorkout(ctx, m.form.submission())
	var verr *workout.ValidationError
	switch {
	case errors.As(err, &verr):
		m.form.reject(verr)
		m.setStatus(verr.Error(), true)
	case err != nil:
		m.setStatus(err.Error(), true)
	default:
		m.form.hide()
		m.selected = len(m.coord.Activities()) - 1
		m.setStatus(fmt.Sprintf("%s: %s", text(m.locale(), msgAdded), a.Description()), false)
	}
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.pane == paneMap {
			m.pane = paneList
		} else {
			m.pane = paneMap
		}
		return m, nil
	case "R":
		m.confirmReset = true
		m.setStatus(text(m.locale(), msgConfirmReset), false)
		return m, nil
	case "r":
		if m.coord.RetryLocation() {
			m.setStatus(text(m.locale(), msgLocating), false)
			return m, m.locate()
		}
		return m, nil
	}
	if m.pane == paneList {
		return m.updateList(msg)
	}
	return m.updateMap(msg)
}

func (m *Model) updateMap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.coord.MapState() != coordinator.MapReady {
		return m, nil
	}
	switch msg.String() {
	case "left", "h":
		m.canvas.MoveCursor(-1, 0)
	case "right", "l":
		m.canvas.MoveCursor(1, 0)
	case "up", "k":
		m.canvas.MoveCursor(0, -1)
	case "down", "j":
		m.canvas.MoveCursor(0, 1)
	case "+", "=":
		m.canvas.ZoomBy(1)
	case "-":
		m.canvas.ZoomBy(-1)
	case "enter", " ":
		if _, ok := m.canvas.Click(); !ok {
			return m, nil
		}
		at, ok := m.coord.Pending()
		if !ok {
			return m, nil
		}
		m.setStatus("", false)
		return m, m.form.show(at)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	acts := m.coord.Activities()
	if len(acts) == 0 {
		return m, nil
	}
	m.clampSelection(len(acts))
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(acts)-1 {
			m.selected++
		}
	case "enter", " ":
		a, err := m.coord.FocusWorkout(acts[m.selected].ID())
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("%s %s (%d)", a.Icon(), a.Description(), a.Interactions()), false)
	case "d", "x", "delete", "backspace":
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		id := acts[m.selected].ID()
		if err := m.coord.RemoveWorkout(ctx, id); err != nil {
			if errors.Is(err, activities.ErrNotFound) {
				m.logger.Warn("workout already removed", slog.String("id", id))
			}
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.clampSelection(len(acts) - 1)
		m.setStatus(text(m.locale(), msgRemoved), false)
	}
	return m, nil
}

func (m *Model) clampSelection(n int) {
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) locale() workout.Locale {
	return m.coord.Locale()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	bodyHeight := m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	listWidth := max(m.width*2/5, minListWidth)
	if listWidth > m.width-10 {
		listWidth = m.width / 2
	}
	mapWidth := m.width - listWidth
	sidebar := sidebarStyle.Render(layout.FitLines(m.renderSidebar(listWidth, bodyHeight), listWidth, bodyHeight))
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, layout.FitLines(m.renderMap(mapWidth, bodyHeight), mapWidth, bodyHeight))
	return strings.Join([]string{body, m.renderStatus(), m.renderFooter()}, "\n")
}

func (m *Model) renderSidebar(width, height int) string {
	title := "mapty"
	if m.pane == paneList {
		title += " ▸"
	}
	parts := []string{headerStyle.Render(title)}
	if m.coord.RestoreDiscarded() && m.coord.ListView().Len() == 0 {
		parts = append(parts, errorStyle.Render(layout.Truncate(text(m.locale(), msgDiscarded), width)))
	}
	if m.form.open {
		parts = append(parts, m.form.view(width))
	}
	used := 0
	for _, p := range parts {
		used += lipgloss.Height(p)
	}
	selected := -1
	if m.pane == paneList {
		m.clampSelection(m.coord.ListView().Len())
		selected = m.selected
	}
	list := m.coord.ListView()
	if list.Len() == 0 {
		parts = append(parts, list.View(width, selected))
	} else {
		parts = append(parts, scrollBlocks(list.Blocks(width, selected), m.selected, height-used)...)
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderMap(width, height int) string {
	switch m.coord.MapState() {
	case coordinator.MapFailed:
		msg := errorStyle.Render(text(m.locale(), msgLocationFailed)) + "\n" + noticeStyle.Render(text(m.locale(), msgRetryHint))
		if err := m.coord.LocationErr(); err != nil {
			msg += "\n" + noticeStyle.Render(layout.Truncate(err.Error(), width-2))
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
	case coordinator.MapPending:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, noticeStyle.Render(text(m.locale(), msgLocating)))
	default:
		return m.canvas.Render(width, height)
	}
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	line := layout.Truncate(m.status, m.width)
	if m.statusErr {
		return errorStyle.Render(line)
	}
	return statusStyle.Render(line)
}

func (m *Model) renderFooter() string {
	segments := []string{stats.FooterLine(m.coord.Activities())}
	if at, ok := m.coord.Pending(); ok {
		segments = append(segments, "@ "+at.String())
	}
	segments = append(segments, m.help())
	return footerStyle.Render(layout.Truncate(strings.Join(segments, "  "), m.width))
}

func (m *Model) help() string {
	switch {
	case m.confirmReset:
		return "y confirm · any key cancel"
	case m.form.open:
		return "←/→ type · tab next · enter save · esc cancel"
	case m.pane == paneList:
		return "↑/↓ select · enter focus · d delete · tab map · R reset · q quit"
	case m.coord.MapState() == coordinator.MapFailed:
		return "r retry · tab list · q quit"
	default:
		return "arrows move · enter add · +/- zoom · tab list · R reset · q quit"
	}
}
