// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mapty/internal/layout"
	"github.com/verte-zerg/mapty/internal/listview"
	"github.com/verte-zerg/mapty/internal/model"
	"github.com/verte-zerg/mapty/internal/stats"
	"github.com/verte-zerg/mapty/internal/workout"
)

const (
	tabOverview = iota
	tabWorkouts
	tabTrends
)

const (
	filterKind = iota
	filterSince
	filterLast
	filterWindow
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#00C46A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI over a fixed set of workouts.
type Model struct {
	all      []workout.Activity
	cfg      model.StatsConfig
	filtered []workout.Activity

	tabs      []string
	activeTab int
	viewports []viewport.Model
	table     table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model. activities are shown oldest first.
func NewModel(activities []workout.Activity, cfg model.StatsConfig) *Model {
	if cfg.Window < 1 {
		cfg.Window = 1
	}
	m := &Model{
		all:  activities,
		cfg:  cfg,
		tabs: []string{"Overview", "Workouts", "Trends"},
	}
	m.initInputs()
	m.initViewports()
	m.table = table.New(
		table.WithColumns(workoutColumns()),
		table.WithHeight(1),
	)
	m.table.SetStyles(tableStyles())
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.Window = nextWindow(m.cfg.Window)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.Window = prevWindow(m.cfg.Window)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabWorkouts {
				m.table.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabWorkouts {
				m.table.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabWorkouts {
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := layout.FitLines(m.renderHeader(), m.width, headerHeight)
	body := layout.FitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := layout.FitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Filtered returns the workouts matching the current filter.
func (m *Model) Filtered() []workout.Activity {
	return m.filtered
}

// Config returns the current filter settings.
func (m *Model) Config() model.StatsConfig {
	return m.cfg
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Kind: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Trend window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[filterKind].SetValue(m.cfg.Kind)
	if m.cfg.Since != nil {
		m.filterInputs[filterSince].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[filterSince].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[filterLast].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[filterLast].SetValue("")
	}
	m.filterInputs[filterWindow].SetValue(strconv.Itoa(m.cfg.Window))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(1, bodyHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabWorkouts {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

// refresh reapplies the filter and rebuilds every tab.
func (m *Model) refresh() {
	m.filtered = stats.Filter(m.all, m.cfg)
	m.table.SetRows(workoutRows(m.filtered))
	m.table.GotoBottom()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.filtered, width))
	m.viewports[tabTrends].SetContent(renderTrends(m.filtered, m.cfg.Window, width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + m.renderFilterSummary()
}

func (m *Model) renderFilterSummary() string {
	kind := m.cfg.Kind
	if kind == "" {
		kind = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filter: kind=%s  since=%s  last=%s  window=%d  (%d of %d workouts)",
		kind, since, last, m.cfg.Window, len(m.filtered), len(m.all))
	return headerStyle.Render(layout.Truncate(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filter: /  Quit: q")
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filter (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return layout.FitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabWorkouts {
		if len(m.filtered) == 0 {
			return layout.FitLines("No workouts found.", m.width, height)
		}
		return layout.FitLines(tableMutedStyle.Render(m.table.View()), m.width, height)
	}
	return layout.FitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func renderOverview(activities []workout.Activity, width int) string {
	summaries := stats.Summarize(activities)
	if len(summaries) == 0 {
		return "No workouts found."
	}
	rows := make([]string, 0, len(summaries))
	for _, s := range summaries {
		cards := []string{
			metricCard(workout.Icon(s.Kind)+" "+string(s.Kind), strconv.Itoa(s.Count)),
			metricCard("Distance", listview.FormatNumber(s.Distance)+" km"),
			metricCard("Duration", listview.FormatNumber(s.Duration)+" min"),
			metricCard("Overall", fmt.Sprintf("%.1f %s", s.Metric, workout.MetricUnit(s.Kind))),
			metricCard("Best", fmt.Sprintf("%.1f %s", s.Best, workout.MetricUnit(s.Kind))),
		}
		if width < 80 {
			rows = append(rows, strings.Join(cards, "\n"))
			continue
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, activities); err != nil {
		return fmt.Sprintf("Failed to render summary: %v", err)
	}
	return strings.TrimRight(strings.Join(rows, "\n")+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderTrends(activities []workout.Activity, window, width int) string {
	if len(activities) == 0 {
		return "No workouts found."
	}
	var buf bytes.Buffer
	header := headerStyle.Render(fmt.Sprintf("Moving average over %d workouts", window))
	if err := stats.RenderTrends(&buf, activities, window, width-14); err != nil {
		return fmt.Sprintf("Failed to render trends: %v", err)
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func workoutColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Kind", Width: 8},
		{Title: "Distance", Width: 9},
		{Title: "Duration", Width: 9},
		{Title: "Pace/Speed", Width: 14},
		{Title: "Cadence/Climb", Width: 13},
	}
}

func workoutRows(activities []workout.Activity) []table.Row {
	rows := make([]table.Row, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, table.Row{
			a.CreatedAt().Format("2006-01-02"),
			string(a.Kind()),
			listview.FormatNumber(a.Distance()) + " km",
			listview.FormatNumber(a.Duration()) + " min",
			fmt.Sprintf("%.1f %s", a.Metric(), a.MetricUnit()),
			listview.FormatNumber(a.Secondary()) + " " + a.SecondaryUnit(),
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refresh()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	kind := strings.ToLower(strings.TrimSpace(m.filterInputs[filterKind].Value()))
	if kind != "" {
		if _, err := workout.ParseKind(kind); err != nil {
			return fmt.Errorf("invalid kind (use running or cycling)")
		}
	}

	sinceInput := strings.TrimSpace(m.filterInputs[filterSince].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[filterLast].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	windowInput := strings.TrimSpace(m.filterInputs[filterWindow].Value())
	window := 1
	if windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid trend window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg = model.StatsConfig{
		Kind:   kind,
		Since:  since,
		Last:   last,
		Window: window,
	}
	return nil
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}
