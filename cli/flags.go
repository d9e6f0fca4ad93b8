// ABOUTME: Shared filter flags for analytics and filter commands
// ABOUTME: Turns comma-separated flag values into filter patches
package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/sabixx/poc-portal-sub001/filters"
)

type selectionFlags struct {
	fs           *flag.FlagSet
	regions      *string
	products     *string
	ses          *string
	from         *string
	to           *string
	dealBreakers *string
	features     *string
	top          *int
}

func addSelectionFlags(fs *flag.FlagSet) *selectionFlags {
	return &selectionFlags{
		fs:           fs,
		regions:      fs.String("region", "", "Comma-separated regions (unassigned for SEs without one)"),
		products:     fs.String("product", "", "Comma-separated products"),
		ses:          fs.String("se", "", "Comma-separated SE or manager IDs"),
		from:         fs.String("from", "", "Start of date range (YYYY-MM-DD)"),
		to:           fs.String("to", "", "End of date range (YYYY-MM-DD)"),
		dealBreakers: fs.String("deal-breakers", "", "Deal breaker mode (all, only)"),
		features:     fs.String("fr", "", "Comma-separated feature request IDs for the impacted metric"),
		top:          fs.Int("top", 0, "Ranking size (5 or 10)"),
	}
}

// patch builds a filter patch from the flags that were given on the command
// line. Passing an empty value clears that dimension; a single date bound is
// merged into current.
func (f *selectionFlags) patch(current filters.DateRange) (filters.Patch, error) {
	set := make(map[string]bool)
	f.fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	var p filters.Patch
	list := func(name, value string) *[]string {
		if !set[name] {
			return nil
		}
		values := splitList(value)
		return &values
	}
	p.Regions = list("region", *f.regions)
	p.Products = list("product", *f.products)
	p.SEs = list("se", *f.ses)
	p.FeatureRequests = list("fr", *f.features)

	if set["from"] || set["to"] {
		r, err := current.WithBounds(*f.from, *f.to, set["from"], set["to"])
		if err != nil {
			return p, err
		}
		p.DateRange = &r
	}
	if set["deal-breakers"] {
		mode := filters.DealBreakerMode(*f.dealBreakers)
		if mode != filters.DealBreakerAll && mode != filters.DealBreakerOnly {
			return p, fmt.Errorf("invalid --deal-breakers: %s (valid: all, only)", *f.dealBreakers)
		}
		p.DealBreakerMode = &mode
	}
	if set["top"] {
		if *f.top != filters.TopFive && *f.top != filters.TopTen {
			return p, fmt.Errorf("invalid --top: %d (valid: 5, 10)", *f.top)
		}
		p.TopN = f.top
	}
	return p, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
