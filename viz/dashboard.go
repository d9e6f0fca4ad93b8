// ABOUTME: Terminal rendering of the executive dashboard
// ABOUTME: Draws summary cards, the Top-N feature request ranking and active filters
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/money"
)

const (
	defaultWidth = 80
	barWidth     = 20
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	wonStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	atRiskStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// RenderDashboard renders a view for a terminal of the given width. A width
// of zero or less uses 80 columns.
func RenderDashboard(view analytics.View, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	rule := strings.Repeat("━", min(width, defaultWidth))

	var out strings.Builder
	out.WriteString(rule + "\n")
	out.WriteString("  " + headerStyle.Render("POC PORTAL EXECUTIVE DASHBOARD") + "\n")
	out.WriteString(rule + "\n\n")

	out.WriteString(sectionStyle.Render("SUMMARY") + "\n")
	renderSummary(&out, view.Summary)
	out.WriteString("\n")

	sel := view.State.Selection
	out.WriteString(sectionStyle.Render(fmt.Sprintf("TOP %d FEATURE REQUESTS", sel.TopN)) + "\n")
	renderRanking(&out, view.Ranking, width)
	out.WriteString("\n")

	out.WriteString(sectionStyle.Render("FILTERS") + "\n")
	out.WriteString("  " + DescribeSelection(sel) + "\n")
	if view.State.ActiveView != "" {
		out.WriteString(mutedStyle.Render("  view: "+view.State.ActiveView) + "\n")
	}
	return out.String()
}

func renderSummary(out *strings.Builder, s analytics.Summary) {
	fmt.Fprintf(out, "  Pipeline   %-10s %d of %d POCs (%.0f%%)\n",
		money.FormatShort(s.TotalValue), s.FilteredCount, s.TotalCount, s.FilteredRatio()*100)
	fmt.Fprintf(out, "  Open       %-10s %d\n", money.FormatShort(s.OpenValue), s.OpenCount)
	fmt.Fprintf(out, "  In Review  %-10s %d\n", money.FormatShort(s.InReviewValue), s.InReviewCount)
	fmt.Fprintf(out, "  Closed     %-10s %d\n", money.FormatShort(s.ClosedValue), s.ClosedCount)
	if s.ImpactedValue != nil {
		fmt.Fprintf(out, "  Impacted   %-10s %d open POCs\n", money.FormatShort(*s.ImpactedValue), s.ImpactedCount)
	}
}

func renderRanking(out *strings.Builder, r analytics.Ranking, width int) {
	if len(r.Top) == 0 {
		out.WriteString(mutedStyle.Render("  no feature requests in scope") + "\n")
		return
	}

	// title column takes whatever the fixed columns leave
	titleWidth := max(width-barWidth-36, 12)

	var maxValue money.Cents = 1
	for _, row := range r.Top {
		if row.TotalValue > maxValue {
			maxValue = row.TotalValue
		}
	}

	for i, row := range r.Top {
		filled := int(int64(row.TotalValue) * barWidth / int64(maxValue))
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

		status := atRiskStyle.Render("at risk")
		if row.Status == analytics.RowWon {
			status = wonStyle.Render("won")
		}
		marker := ""
		if row.DealBreakers > 0 {
			marker = fmt.Sprintf(" ⚠ %d", row.DealBreakers)
		}

		fmt.Fprintf(out, "  %2d. %-*s %s %8s  %s%s\n",
			i+1, titleWidth, truncate(row.Title, titleWidth), bar,
			money.FormatShort(row.TotalValue), status, marker)
	}
	if r.Rest.Count > 0 {
		fmt.Fprintf(out, "%s\n", mutedStyle.Render(fmt.Sprintf("      + %d more (%s)",
			r.Rest.Count, money.FormatShort(r.Rest.TotalValue))))
	}
}

// DescribeSelection renders the active filters on one line.
func DescribeSelection(sel filters.Selection) string {
	var parts []string
	add := func(label string, values []string) {
		if len(values) > 0 {
			parts = append(parts, label+"="+strings.Join(values, ","))
		}
	}
	add("region", sel.Regions)
	add("product", sel.Products)
	add("se", sel.SEs)
	add("fr", sel.FeatureRequests)

	if !sel.DateRange.IsZero() {
		from, to := "…", "…"
		if sel.DateRange.From != nil {
			from = sel.DateRange.From.Format("2006-01-02")
		}
		if sel.DateRange.To != nil {
			to = sel.DateRange.To.Format("2006-01-02")
		}
		parts = append(parts, "dates="+from+".."+to)
	}
	if sel.DealBreakerMode == filters.DealBreakerOnly {
		parts = append(parts, "deal-breakers only")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
