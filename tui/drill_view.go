// ABOUTME: Drill-down view listing the POCs behind a metric or feature request
// ABOUTME: Also renders the feature request graph for the current filters
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-graphviz"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/money"
	"github.com/sabixx/poc-portal-sub001/viz"
)

func drillColumns(width int) []table.Column {
	frs := max(width-90, 20)
	return []table.Column{
		{Title: "Customer", Width: 20},
		{Title: "Product", Width: 10},
		{Title: "SE", Width: 14},
		{Title: "Region", Width: 10},
		{Title: "Value", Width: 12},
		{Title: "State", Width: 10},
		{Title: "Feature Requests", Width: frs},
	}
}

func drillRows(d analytics.Drill) []table.Row {
	rows := make([]table.Row, 0, len(d.POCs))
	for _, p := range d.POCs {
		var frs []string
		for _, l := range p.FeatureRequests {
			title := l.Title
			if l.DealBreaker {
				title += " ⚠"
			}
			frs = append(frs, title)
		}
		state := p.Lifecycle.Label
		if p.Won {
			state += " ✓"
		}
		se := p.SEName
		if se == "" {
			se = "-"
		}
		rows = append(rows, table.Row{
			p.POC.CustomerName,
			p.POC.Product,
			se,
			p.Region,
			money.Format(p.Value),
			state,
			strings.Join(frs, ", "),
		})
	}
	return rows
}

// openDrill drills into the focused card or feature request row.
func (m Model) openDrill() (tea.Model, tea.Cmd) {
	target := analytics.MetricTarget(analytics.Metrics[m.metric])
	if m.focus == FocusRows {
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		target = analytics.RowTarget(row.FeatureRequestID)
	}

	d, err := m.dash.DrillDown(target)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.drill = d
	m.status = ""
	m.drillTable.SetRows(drillRows(d))
	m.drillTable.SetCursor(0)
	m.drillTable.Focus()
	m.viewMode = ViewDrill
	return m, nil
}

func (m Model) handleDrillKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.drillTable.Blur()
		m.status = ""
		m.viewMode = ViewDashboard
		return m, nil
	case "g":
		m.status = m.graphSummary()
		return m, nil
	}

	var cmd tea.Cmd
	m.drillTable, cmd = m.drillTable.Update(msg)
	return m, cmd
}

// graphSummary sizes the feature request graph behind the current drill.
func (m Model) graphSummary() string {
	rows := m.view.Rows
	if m.drill.FeatureRequestID != "" {
		rows = nil
		for _, r := range m.view.Rows {
			if r.FeatureRequestID == m.drill.FeatureRequestID {
				rows = append(rows, r)
			}
		}
	}
	g, err := viz.FeatureGraph(context.Background(), rows, graphviz.XDOT)
	if err != nil {
		return "Graph failed: " + err.Error()
	}
	return fmt.Sprintf("Graph: %d nodes, %d edges (use `analytics graph` to export)", g.Nodes, g.Edges)
}

func (m Model) renderDrillView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.drill.Title))
	b.WriteString("\n")

	if len(m.drill.POCs) == 0 {
		b.WriteString("No POCs\n")
	} else {
		b.WriteString(m.drillTable.View())
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\nTotal: %d POC(s) - %s\n", len(m.drill.POCs), money.Format(m.drill.TotalValue)))

	if m.viewMode == ViewDrill && m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}

	help := []string{"↑/↓: Navigate", "g: Graph size", "Esc: Back", "q: Quit"}
	b.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return b.String()
}
