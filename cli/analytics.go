// ABOUTME: Analytics CLI commands
// ABOUTME: Prints summaries, feature request rankings, drill-downs, the dashboard and graphs
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/money"
	"github.com/sabixx/poc-portal-sub001/viz"
	"golang.org/x/term"
)

// resolveSelection applies the command line flags on top of the saved
// filters without persisting them.
func resolveSelection(dash *analytics.Dashboard, f *selectionFlags) (filters.Selection, error) {
	current := dash.Current().State.Selection
	p, err := f.patch(current.DateRange)
	if err != nil {
		return filters.Selection{}, err
	}
	return current.Apply(p), nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// SummaryCommand prints the summary figures.
func SummaryCommand(dash *analytics.Dashboard, args []string) error {
	fs := flag.NewFlagSet("analytics summary", flag.ExitOnError)
	sf := addSelectionFlags(fs)
	asJSON := fs.Bool("json", false, "Print JSON")
	_ = fs.Parse(args)

	sel, err := resolveSelection(dash, sf)
	if err != nil {
		return err
	}
	s := dash.Engine().ComputeSummary(sel)
	if *asJSON {
		return printJSON(s)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "METRIC\tVALUE\tPOCS")
	_, _ = fmt.Fprintln(w, "------\t-----\t----")
	_, _ = fmt.Fprintf(w, "Total\t%s\t%d\n", money.Format(s.TotalValue), s.FilteredCount)
	_, _ = fmt.Fprintf(w, "Open\t%s\t%d\n", money.Format(s.OpenValue), s.OpenCount)
	_, _ = fmt.Fprintf(w, "In Review\t%s\t%d\n", money.Format(s.InReviewValue), s.InReviewCount)
	_, _ = fmt.Fprintf(w, "Closed\t%s\t%d\n", money.Format(s.ClosedValue), s.ClosedCount)
	if s.ImpactedValue != nil {
		_, _ = fmt.Fprintf(w, "Impacted\t%s\t%d\n", money.Format(*s.ImpactedValue), s.ImpactedCount)
	}
	_ = w.Flush()

	fmt.Printf("\n%d of %d POCs in scope (%.0f%%) as of %s\n",
		s.FilteredCount, s.TotalCount, s.FilteredRatio()*100, dash.Engine().AsOf().Format("2006-01-02"))
	return nil
}

// TopCommand prints the Top-N feature requests.
func TopCommand(dash *analytics.Dashboard, args []string) error {
	fs := flag.NewFlagSet("analytics top", flag.ExitOnError)
	sf := addSelectionFlags(fs)
	asJSON := fs.Bool("json", false, "Print JSON")
	all := fs.Bool("all", false, "Print every row instead of the Top-N")
	_ = fs.Parse(args)

	sel, err := resolveSelection(dash, sf)
	if err != nil {
		return err
	}
	rows := dash.Engine().AggregateByFeatureRequest(sel)
	n := sel.TopN
	if *all {
		n = 0
	}
	ranking := analytics.Rank(rows, n)
	if *asJSON {
		return printJSON(ranking)
	}

	if len(ranking.Top) == 0 {
		fmt.Println("No feature requests in scope")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tFEATURE REQUEST\tTOTAL\tWON\tAT RISK\tPOCS\tDEAL BREAKERS\tID")
	_, _ = fmt.Fprintln(w, "-\t---------------\t-----\t---\t-------\t----\t-------------\t--")
	for i, row := range ranking.Top {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			i+1, row.Title, money.Format(row.TotalValue), money.Format(row.WonValue),
			money.Format(row.AtRiskValue), len(row.POCs), row.DealBreakers, row.FeatureRequestID)
	}
	_ = w.Flush()

	if ranking.Rest.Count > 0 {
		fmt.Printf("\n+ %d more feature request(s) - %s\n", ranking.Rest.Count, money.Format(ranking.Rest.TotalValue))
	}
	return nil
}

// DrillDownCommand lists the POCs behind a metric or feature request.
func DrillDownCommand(dash *analytics.Dashboard, args []string) error {
	fs := flag.NewFlagSet("analytics drilldown", flag.ExitOnError)
	sf := addSelectionFlags(fs)
	metric := fs.String("metric", "", "Metric to drill into (total, open, in_review, closed, impacted)")
	feature := fs.String("feature", "", "Feature request ID to drill into")
	asJSON := fs.Bool("json", false, "Print JSON")
	_ = fs.Parse(args)

	if (*metric == "") == (*feature == "") {
		return errors.New("exactly one of --metric or --feature is required")
	}

	sel, err := resolveSelection(dash, sf)
	if err != nil {
		return err
	}

	target := analytics.RowTarget(*feature)
	if *metric != "" {
		m, err := analytics.ParseMetric(*metric)
		if err != nil {
			return err
		}
		target = analytics.MetricTarget(m)
	}

	d, err := dash.Engine().DrillDown(target, sel)
	if err != nil {
		return err
	}
	if *asJSON {
		return printJSON(d)
	}

	fmt.Printf("%s\n\n", d.Title)
	if len(d.POCs) == 0 {
		fmt.Println("No POCs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CUSTOMER\tPRODUCT\tSE\tREGION\tVALUE\tSTATE\tOUTCOME\tFEATURE REQUESTS")
	_, _ = fmt.Fprintln(w, "--------\t-------\t--\t------\t-----\t-----\t-------\t----------------")
	for _, p := range d.POCs {
		var frs []string
		for _, l := range p.FeatureRequests {
			title := l.Title
			if l.DealBreaker {
				title += " (!)"
			}
			frs = append(frs, title)
		}
		se := p.SEName
		if se == "" {
			se = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.POC.CustomerName, p.POC.Product, se, p.Region, money.Format(p.Value),
			p.Lifecycle.Label, p.Outcome, strings.Join(frs, ", "))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d POC(s) - %s\n", len(d.POCs), money.Format(d.TotalValue))
	return nil
}

// DashboardCommand prints the text dashboard.
func DashboardCommand(dash *analytics.Dashboard, args []string) error {
	fs := flag.NewFlagSet("analytics dashboard", flag.ExitOnError)
	sf := addSelectionFlags(fs)
	width := fs.Int("width", 0, "Output width (default: terminal width)")
	_ = fs.Parse(args)

	sel, err := resolveSelection(dash, sf)
	if err != nil {
		return err
	}

	w := *width
	if w <= 0 {
		if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			w = tw
		}
	}

	state := dash.Current().State
	state.Selection = sel
	fmt.Print(viz.RenderDashboard(dash.Engine().Compute(state), w))
	return nil
}

// GraphCommand renders the feature request graph.
func GraphCommand(dash *analytics.Dashboard, args []string) error {
	fs := flag.NewFlagSet("analytics graph", flag.ExitOnError)
	sf := addSelectionFlags(fs)
	format := fs.String("format", "dot", "Output format (dot, svg, png)")
	output := fs.String("output", "", "Output file (default: stdout)")
	topOnly := fs.Bool("top-only", false, "Only draw the Top-N feature requests")
	_ = fs.Parse(args)

	gvFormat, err := viz.ParseFormat(*format)
	if err != nil {
		return err
	}
	sel, err := resolveSelection(dash, sf)
	if err != nil {
		return err
	}

	rows := dash.Engine().AggregateByFeatureRequest(sel)
	if *topOnly {
		rows = analytics.Rank(rows, sel.TopN).Top
	}

	g, err := viz.FeatureGraph(context.Background(), rows, gvFormat)
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, g.Data, 0644); err != nil {
			return fmt.Errorf("failed to write graph: %w", err)
		}
		fmt.Printf("✓ Wrote %s (%d nodes, %d edges)\n", *output, g.Nodes, g.Edges)
		return nil
	}

	_, err = os.Stdout.Write(g.Data)
	return err
}
