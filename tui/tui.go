// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive executive dashboard that follows the shared filter store
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sabixx/poc-portal-sub001/analytics"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewDashboard ViewMode = iota
	ViewDrill
	ViewHelp
)

// Focus is the dashboard pane receiving navigation keys.
type Focus int

const (
	FocusMetrics Focus = iota
	FocusRows
)

// viewMsg tells the model that the dashboard recomputed.
type viewMsg struct{}

// Model is the main bubbletea model
type Model struct {
	dash     *analytics.Dashboard
	updates  <-chan struct{}
	viewMode ViewMode
	focus    Focus

	view   analytics.View
	metric int
	rows   table.Model

	drill      analytics.Drill
	drillTable table.Model

	status string
	err    error

	width  int
	height int
}

// NewModel creates a new TUI model. updates may be nil; when set, every
// receive triggers a refresh from the dashboard.
func NewModel(dash *analytics.Dashboard, updates <-chan struct{}) Model {
	m := Model{
		dash:     dash,
		updates:  updates,
		viewMode: ViewDashboard,
		focus:    FocusMetrics,
		width:    100,
		height:   30,
	}
	m.rows = newTable(rowColumns(m.width), m.tableHeight())
	m.drillTable = newTable(drillColumns(m.width), m.tableHeight())
	m.refresh()
	return m
}

// Run starts the full-screen dashboard.
func Run(dash *analytics.Dashboard) error {
	updates := make(chan struct{}, 1)
	dash.OnChange(func(analytics.View) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	p := tea.NewProgram(NewModel(dash, updates), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func waitForView(updates <-chan struct{}) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		<-updates
		return viewMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForView(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rows.SetColumns(rowColumns(m.width))
		m.rows.SetHeight(m.tableHeight())
		m.drillTable.SetColumns(drillColumns(m.width))
		m.drillTable.SetHeight(m.tableHeight())
		return m, nil
	case viewMsg:
		m.refresh()
		return m, waitForView(m.updates)
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewDashboard:
		return m.renderDashboardView()
	case ViewDrill:
		return m.renderDrillView()
	case ViewHelp:
		return m.renderHelpView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		if m.viewMode == ViewHelp {
			m.viewMode = ViewDashboard
		} else {
			m.viewMode = ViewHelp
		}
		return m, nil
	}

	switch m.viewMode {
	case ViewDashboard:
		return m.handleDashboardKeys(msg)
	case ViewDrill:
		return m.handleDrillKeys(msg)
	case ViewHelp:
		if msg.String() == "esc" {
			m.viewMode = ViewDashboard
		}
	}
	return m, nil
}

// refresh pulls the latest view and rebuilds the ranking table.
func (m *Model) refresh() {
	m.view = m.dash.Current()
	m.rows.SetRows(rankingRows(m.view))
	if c := m.rows.Cursor(); c >= len(m.view.Ranking.Top) {
		m.rows.SetCursor(max(len(m.view.Ranking.Top)-1, 0))
	}
}

func (m Model) tableHeight() int {
	return max(m.height-16, 5)
}

func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(s)
	return t
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(18)

	cardActiveStyle = cardStyle.
			BorderForeground(lipgloss.Color("170"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)
