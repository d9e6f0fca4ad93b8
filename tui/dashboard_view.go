// ABOUTME: Dashboard view: summary cards, Top-N feature requests and filter shortcuts
// ABOUTME: Key presses mutate the shared filter store and the view follows
package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/money"
	"github.com/sabixx/poc-portal-sub001/viz"
)

func rowColumns(width int) []table.Column {
	title := max(width-70, 20)
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Feature Request", Width: title},
		{Title: "Total", Width: 12},
		{Title: "Won", Width: 12},
		{Title: "At Risk", Width: 12},
		{Title: "POCs", Width: 5},
		{Title: "DB", Width: 4},
		{Title: "", Width: 3},
	}
}

func rankingRows(v analytics.View) []table.Row {
	rows := make([]table.Row, 0, len(v.Ranking.Top))
	for i, r := range v.Ranking.Top {
		mark := ""
		if slices.Contains(v.State.FeatureRequests, r.FeatureRequestID) {
			mark = "●"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			r.Title,
			money.Format(r.TotalValue),
			money.Format(r.WonValue),
			money.Format(r.AtRiskValue),
			fmt.Sprintf("%d", len(r.POCs)),
			fmt.Sprintf("%d", r.DealBreakers),
			mark,
		})
	}
	return rows
}

func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	store := m.dash.Store()
	opts := m.dash.Engine().Options()
	sel := m.view.State.Selection

	switch msg.String() {
	case "tab":
		if m.focus == FocusMetrics {
			m.focus = FocusRows
			m.rows.Focus()
		} else {
			m.focus = FocusMetrics
			m.rows.Blur()
		}
		return m, nil

	case "left", "h":
		if m.focus == FocusMetrics && m.metric > 0 {
			m.metric--
		}
		return m, nil

	case "right", "l":
		if m.focus == FocusMetrics && m.metric < len(analytics.Metrics)-1 {
			m.metric++
		}
		return m, nil

	case "enter":
		return m.openDrill()

	case "t":
		n := filters.TopFive
		if sel.TopN == filters.TopFive {
			n = filters.TopTen
		}
		store.Set(filters.Patch{TopN: &n})
		m.status = fmt.Sprintf("Showing top %d", n)

	case "d":
		mode := filters.DealBreakerOnly
		if sel.DealBreakerMode == filters.DealBreakerOnly {
			mode = filters.DealBreakerAll
		}
		store.Set(filters.Patch{DealBreakerMode: &mode})
		m.status = "Deal breakers: " + string(mode)

	case "r":
		next := cycle(opts.Regions, sel.Regions)
		store.Set(filters.Patch{Regions: &next})
		m.status = "Region: " + describe(next)

	case "p":
		next := cycle(opts.Products, sel.Products)
		store.Set(filters.Patch{Products: &next})
		m.status = "Product: " + describe(next)

	case "s":
		next := cycle(opts.SEs, sel.SEs)
		store.Set(filters.Patch{SEs: &next})
		m.status = "SE: " + describe(next)

	case "f":
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		next := toggle(sel.FeatureRequests, row.FeatureRequestID)
		store.Set(filters.Patch{FeatureRequests: &next})
		m.status = fmt.Sprintf("%d feature request(s) selected", len(next))

	case "x":
		store.Reset()
		m.status = "Filters cleared"

	case "v":
		views := store.Get().SavedViews
		if len(views) == 0 {
			m.status = "No saved views"
			return m, nil
		}
		next := views[0].Name
		for i, v := range views {
			if v.Name == m.view.State.ActiveView {
				next = views[(i+1)%len(views)].Name
			}
		}
		if _, err := store.ApplyView(next); err != nil {
			m.err = err
			return m, nil
		}
		m.status = "Applied view: " + next

	default:
		if m.focus == FocusRows {
			var cmd tea.Cmd
			m.rows, cmd = m.rows.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	m.refresh()
	return m, nil
}

func (m Model) selectedRow() (analytics.AggregateRow, bool) {
	top := m.view.Ranking.Top
	c := m.rows.Cursor()
	if c < 0 || c >= len(top) {
		return analytics.AggregateRow{}, false
	}
	return top[c], true
}

// cycle steps a single-value filter through every option and back to
// unrestricted.
func cycle(options, current []string) []string {
	if len(options) == 0 {
		return []string{}
	}
	if len(current) != 1 {
		return []string{options[0]}
	}
	i := slices.Index(options, current[0])
	if i < 0 {
		return []string{options[0]}
	}
	if i+1 >= len(options) {
		return []string{}
	}
	return []string{options[i+1]}
}

func toggle(values []string, v string) []string {
	out := make([]string, 0, len(values)+1)
	found := false
	for _, x := range values {
		if x == v {
			found = true
			continue
		}
		out = append(out, x)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

func describe(values []string) string {
	if len(values) == 0 {
		return "all"
	}
	return strings.Join(values, ",")
}

func (m Model) renderCards() string {
	s := m.view.Summary
	cards := make([]string, 0, len(analytics.Metrics))
	for i, metric := range analytics.Metrics {
		var label, value string
		var count int
		switch metric {
		case analytics.MetricTotal:
			label, value, count = "Pipeline", money.FormatShort(s.TotalValue), s.FilteredCount
		case analytics.MetricOpen:
			label, value, count = "Open", money.FormatShort(s.OpenValue), s.OpenCount
		case analytics.MetricInReview:
			label, value, count = "In Review", money.FormatShort(s.InReviewValue), s.InReviewCount
		case analytics.MetricClosed:
			label, value, count = "Closed", money.FormatShort(s.ClosedValue), s.ClosedCount
		case analytics.MetricImpacted:
			label, value = "Impacted", "-"
			if s.ImpactedValue != nil {
				value, count = money.FormatShort(*s.ImpactedValue), s.ImpactedCount
			}
		}

		style := cardStyle
		if m.focus == FocusMetrics && i == m.metric {
			style = cardActiveStyle
		}
		cards = append(cards, style.Render(fmt.Sprintf("%s\n%s\n%d POCs", label, value, count)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) renderDashboardView() string {
	var b strings.Builder
	st := m.view.State
	s := m.view.Summary

	b.WriteString(titleStyle.Render("POC Portal Executive Dashboard"))
	b.WriteString("\n")
	b.WriteString(m.renderCards())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d of %d POCs in scope (%.0f%%) as of %s\n\n",
		s.FilteredCount, s.TotalCount, s.FilteredRatio()*100, m.dash.Engine().AsOf().Format("2006-01-02")))

	b.WriteString(titleStyle.Render(fmt.Sprintf("Top %d Feature Requests", st.TopN)))
	b.WriteString("\n")
	if len(m.view.Ranking.Top) == 0 {
		b.WriteString("No feature requests in scope\n")
	} else {
		b.WriteString(m.rows.View())
		b.WriteString("\n")
	}
	if rest := m.view.Ranking.Rest; rest.Count > 0 {
		b.WriteString(fmt.Sprintf("+ %d more (%s)\n", rest.Count, money.FormatShort(rest.TotalValue)))
	}

	filtersLine := "Filters: " + viz.DescribeSelection(st.Selection)
	if st.ActiveView != "" {
		filtersLine += "  [" + st.ActiveView + "]"
	}
	b.WriteString("\n" + filtersLine + "\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}

	help := []string{
		"tab: switch pane",
		"←/→ ↑/↓: move",
		"enter: drill down",
		"t: top 5/10",
		"d: deal breakers",
		"f: select request",
		"?: more",
		"q: quit",
	}
	b.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return b.String()
}

func (m Model) renderHelpView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys"))
	b.WriteString("\n")
	keys := [][2]string{
		{"tab", "switch between summary cards and feature requests"},
		{"←/→", "choose a summary card"},
		{"↑/↓", "choose a feature request"},
		{"enter", "list the POCs behind the card or feature request"},
		{"t", "toggle top 5 / top 10"},
		{"d", "toggle deal-breakers-only"},
		{"r / p / s", "cycle region / product / SE filter"},
		{"f", "select or unselect the highlighted feature request"},
		{"x", "clear every filter"},
		{"v", "apply the next saved view"},
		{"esc", "back"},
		{"q", "quit"},
	}
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", k[0], k[1]))
	}
	b.WriteString(helpStyle.Render("Esc or ?: Back"))
	return b.String()
}
