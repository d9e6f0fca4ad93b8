// ABOUTME: Filter CLI commands
// ABOUTME: Shows and edits the persisted dashboard filters and saved views
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/viz"
)

// FiltersShowCommand prints the current filters, saved views and the values
// each dimension can take.
func FiltersShowCommand(dash *analytics.Dashboard, args []string) error {
	fs := flag.NewFlagSet("filters show", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print JSON")
	options := fs.Bool("options", false, "Also list selectable values")
	_ = fs.Parse(args)

	st := dash.Store().Get()
	if *asJSON {
		return printJSON(st)
	}

	fmt.Printf("Filters:       %s\n", viz.DescribeSelection(st.Selection))
	fmt.Printf("Top N:         %d\n", st.TopN)
	fmt.Printf("Deal breakers: %s\n", st.DealBreakerMode)
	if st.ActiveView != "" {
		fmt.Printf("Active view:   %s\n", st.ActiveView)
	}

	if len(st.SavedViews) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "VIEW\tFILTERS\tSAVED\tID")
		_, _ = fmt.Fprintln(w, "----\t-------\t-----\t--")
		for _, v := range st.SavedViews {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				v.Name, viz.DescribeSelection(v.Filters), humanize.Time(v.CreatedAt), v.ID)
		}
		_ = w.Flush()
	}

	if *options {
		opts := dash.Engine().Options()
		fmt.Println()
		fmt.Printf("Regions:          %s\n", strings.Join(opts.Regions, ", "))
		fmt.Printf("Products:         %s\n", strings.Join(opts.Products, ", "))
		fmt.Printf("SEs:              %s\n", strings.Join(opts.SEs, ", "))
		fmt.Printf("Feature requests: %s\n", strings.Join(opts.FeatureRequests, ", "))
	}
	return nil
}

// FiltersSetCommand patches the persisted filters.
func FiltersSetCommand(dash *analytics.Dashboard, args []string) error {
	fs := flag.NewFlagSet("filters set", flag.ExitOnError)
	sf := addSelectionFlags(fs)
	_ = fs.Parse(args)

	p, err := sf.patch(dash.Store().Get().DateRange)
	if err != nil {
		return err
	}
	st := dash.Store().Set(p)
	fmt.Printf("✓ Filters: %s\n", viz.DescribeSelection(st.Selection))
	printSummaryLine(dash)
	return nil
}

// FiltersResetCommand clears every filter, keeping saved views.
func FiltersResetCommand(dash *analytics.Dashboard, args []string) error {
	fs := flag.NewFlagSet("filters reset", flag.ExitOnError)
	_ = fs.Parse(args)

	dash.Store().Reset()
	fmt.Println("✓ Filters cleared")
	printSummaryLine(dash)
	return nil
}

// SaveViewCommand saves the current filters under a name.
func SaveViewCommand(dash *analytics.Dashboard, args []string) error {
	fs := flag.NewFlagSet("filters save-view", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: filters save-view <name>")
	}
	v, err := dash.Store().SaveView(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("✓ Saved view: %s (ID: %s)\n", v.Name, v.ID)
	return nil
}

// ApplyViewCommand replaces the current filters with a saved view.
func ApplyViewCommand(dash *analytics.Dashboard, args []string) error {
	fs := flag.NewFlagSet("filters apply-view", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: filters apply-view <name>")
	}
	st, err := dash.Store().ApplyView(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("✓ Applied view: %s\n", st.ActiveView)
	fmt.Printf("  Filters: %s\n", viz.DescribeSelection(st.Selection))
	printSummaryLine(dash)
	return nil
}

// DeleteViewCommand removes a saved view.
func DeleteViewCommand(dash *analytics.Dashboard, args []string) error {
	fs := flag.NewFlagSet("filters delete-view", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: filters delete-view <name>")
	}
	if err := dash.Store().DeleteView(fs.Arg(0)); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted view: %s\n", fs.Arg(0))
	return nil
}

func printSummaryLine(dash *analytics.Dashboard) {
	s := dash.Current().Summary
	fmt.Printf("  %d of %d POCs in scope\n", s.FilteredCount, s.TotalCount)
}
